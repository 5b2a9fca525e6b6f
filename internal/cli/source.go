package cli

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// sourceOptions lets a command read a timeline from a file or, with
// --stored, from the configured storage backend.
type sourceOptions struct {
	stored  bool
	storage storageOptions
}

func (o *sourceOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.stored, "stored", false, "treat the argument as a timeline name in storage instead of a file path")
	o.storage.addFlags(cmd)
}

func (o *sourceOptions) read(cmd *cobra.Command, a *app, arg string) ([]byte, error) {
	if !o.stored {
		data, err := os.ReadFile(arg)
		if err != nil {
			return nil, errors.Wrap(err, "reading timeline file")
		}
		return data, nil
	}

	store, err := o.storage.open(cmd, a)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load(context.Background(), arg)
}
