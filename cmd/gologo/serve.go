package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xob0t/GoLogo/clients/server"
)

func newServeCmd(rootFlags *rootFlags) *cobra.Command {
	var addr, assetsRoot string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render and asset HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := rootFlags.setup(cmd)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Serve.Addr = addr
			}
			if assetsRoot != "" {
				cfg.Assets.Root = assetsRoot
			}

			srv, err := server.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config: 127.0.0.1:8080)")
	cmd.Flags().StringVar(&assetsRoot, "assets", "", "Directory layer paths may be read from")

	return cmd
}
