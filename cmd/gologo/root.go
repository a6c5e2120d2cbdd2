package main

import (
	"github.com/spf13/cobra"

	"github.com/xob0t/GoLogo/internal/config"
	"github.com/xob0t/GoLogo/internal/logger"
)

type rootFlags struct {
	configPath string
	logLevel   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "gologo",
		Short:         "GoLogo renders logos from a background and recolorable icon layers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to gologo.yaml (default: ./gologo.yaml if present)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads the configuration and builds the logger every command shares.
// --log-level beats --verbose, which beats the config file.
func (f *rootFlags) setup(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Log.Level
	if f.verbose {
		level = "debug"
	}
	if f.logLevel != "" {
		level = f.logLevel
	}

	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: cfg.Log.Human,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
