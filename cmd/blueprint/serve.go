package main

import (
	"github.com/spf13/cobra"

	"github.com/leofalp/blueprint/internal/app"
	"github.com/leofalp/blueprint/internal/config"
	"github.com/leofalp/blueprint/internal/httpapi"
)

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the planning API until interrupted:

  POST /api/planning/blueprint   {"requirements": "..."}
  GET  /healthz
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			a, err := app.New(cfg, app.WithLogOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			server := httpapi.New(a.Service,
				httpapi.WithObservability(a.Observer),
				httpapi.WithGatherer(a.Registry),
				httpapi.WithLogger(a.Logger),
				httpapi.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				httpapi.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
			)
			a.Logger.Info("starting planning API",
				"provider", cfg.Provider.Name,
				"model", cfg.Provider.Model,
				"strategies", a.Pipeline.Strategies(),
			)
			return server.ListenAndServe(cmd.Context(), cfg.Server.Addr, httpapi.Timeouts{
				Read:     cfg.Server.ReadTimeout,
				Write:    cfg.Server.WriteTimeout,
				Shutdown: cfg.Server.ShutdownTimeout,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
