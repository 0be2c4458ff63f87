package cli

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ByLCY/xstitch/server"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pattern generator over HTTP",
		Long: `Serve the pattern generator over HTTP.

Routes:
  POST /api/patterns              generate from a JSON request
  GET  /api/patterns/latest       summary of the latest pattern
  DELETE /api/patterns/latest     drop the latest pattern
  GET  /api/patterns/latest.png   PNG chart (?grid=1 for the grid overlay)
  GET  /api/patterns/latest.pdf   printable PDF
  GET  /api/patterns/latest/view  PNG scaled by the current zoom
  POST /api/zoom/{in|out|reset}   change the view zoom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			defaults, err := cfg.Request()
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg, logger, false)
			if err != nil {
				return err
			}
			err = server.New(gen, defaults, logger).ListenAndServe(ctx, addr)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
