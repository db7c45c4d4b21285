package cli

import (
	"github.com/spf13/cobra"

	"github.com/muliwe/go-triangle-classifier/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the classification HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.load(cmd)
			if err != nil {
				return err
			}

			srvCfg := server.ConfigFrom(cfg)
			srvCfg.Log = log
			if addr != "" {
				srvCfg.Addr = addr
			}

			srv, err := server.New(srvCfg)
			if err != nil {
				log.Error("failed to create server", "error", err)
				return err
			}
			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config and PORT")
	return cmd
}
