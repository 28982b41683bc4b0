package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/inkwell/internal/metrics"
	"github.com/dshills/inkwell/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the clean and format HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := c.settings.Server
			if addr == "" {
				addr = s.Addr
			}
			srv := server.New(c.settings.Editing, metrics.New(true),
				server.WithLogger(c.logger.Named("server")),
				server.WithHTTPTimeouts(s.ReadTimeout, s.WriteTimeout),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from settings, :8080)")
	return cmd
}
