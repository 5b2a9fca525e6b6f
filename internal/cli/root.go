package cli

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/config"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
)

// app carries what every command needs once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *logrus.Logger
}

// NewRootCmd creates the root rewind command.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: config.Default(), log: logging.Discard()}

	root := &cobra.Command{
		Use:   "rewind",
		Short: "Record and replay application input frame by frame",
		Long: `Rewind records the raw keyboard, pointer and controller input an
application receives, stores it as a timeline, and replays it frame for
frame so the application reproduces the same input-driven behavior without
an operator.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	defaults := logging.DefaultOptions()
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", defaults.Level, "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", defaults.Format, "log format (text, json)")

	root.AddCommand(
		newInspectCmd(a),
		newReplayCmd(a),
		newConvertCmd(a),
		newGenerateCmd(a),
		newServerCmd(a),
	)

	return root
}

// setup loads the config file and environment, applies log flags and
// validates the result.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	l, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return errors.Wrap(err, "configuring logging")
	}
	a.cfg = cfg
	a.log = l
	return nil
}
