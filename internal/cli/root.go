// Package cli implements the triangle command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/muliwe/go-triangle-classifier/internal/config"
	"github.com/muliwe/go-triangle-classifier/internal/logging"
)

type rootOptions struct {
	configPath string
	debug      bool
}

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "triangle",
		Short:        "Classify triangles by their side lengths",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newClassifyCmd(),
		newRunCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads the config and builds the operational logger
func (o *rootOptions) load(cmd *cobra.Command) (*config.AppConfig, *slog.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.debug {
		cfg.Logging.Level = "debug"
	}

	logCfg := cfg.Logging
	logCfg.Writer = cmd.ErrOrStderr()
	log, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
