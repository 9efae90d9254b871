package main

import (
	"github.com/casualjim/plexus"
	"github.com/casualjim/plexus/internal/config"
	"github.com/casualjim/plexus/internal/logging"
	"github.com/spf13/cobra"
)

// app carries the settings shared by every subcommand.
type app struct {
	configFile string
	logLevel   string
	logFormat  string

	conf config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "plexus",
		Short: "Run reactive computation graphs",
		Long: `plexus wires small agents together through named topics.

A graph is described by a descriptor file, either in the line format
(type, subscriptions, publications, one record per line) or as JSON.

Available commands:
  run       Build a graph and feed it messages from stdin
  validate  Check a descriptor file
  topics    Show the topics a graph creates
  schema    Print the JSON Schema of the JSON descriptor format

Use "plexus [command] --help" for more information about a command.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newRunCmd(a),
		newValidateCmd(a),
		newTopicsCmd(a),
		newSchemaCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	conf, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		conf.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		conf.Logging.Format = a.logFormat
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	level, _ := conf.Level()
	if _, err := logging.Setup(level, conf.Logging.Format, cmd.ErrOrStderr()); err != nil {
		return err
	}
	a.conf = conf
	return nil
}

// descriptors picks the descriptor file from the arguments or the config.
func (a *app) descriptors(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.conf.Descriptors != "" {
		return a.conf.Descriptors, nil
	}
	return "", errNoDescriptors
}

func (a *app) newGraph() *plexus.Graph {
	return plexus.New(
		plexus.MailboxCapacity(a.conf.Graph.MailboxCapacity),
		plexus.ShutdownTimeout(a.conf.Graph.ShutdownTimeout),
	)
}
