package cli

import (
	"github.com/spf13/cobra"

	internalcli "github.com/SmitUplenchwar2687/Rewind/internal/cli"
)

// NewRootCmd creates the public Rewind root command for embedding.
func NewRootCmd() *cobra.Command {
	return internalcli.NewRootCmd()
}
