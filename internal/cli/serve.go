package cli

import (
	"github.com/spf13/cobra"

	"github.com/cdyellick/ponte/internal/server"
	"github.com/cdyellick/ponte/pkg/pipeline"
)

// newServeCmd creates the serve command for running the HTTP service.
func newServeCmd() *cobra.Command {
	var configPath, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chart HTTP service",
		Long: `Serve runs an HTTP API for storing chart definitions and rendering them
on demand. Backends for the store (memory, mongo) and cache (file, redis,
none) are selected in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := server.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			c, err := cfg.OpenCache(ctx)
			if err != nil {
				return err
			}
			st, err := cfg.OpenStore(ctx)
			if err != nil {
				_ = c.Close()
				return err
			}
			defer func() { _ = st.Close(ctx) }()

			runner := pipeline.NewRunner(c, nil, logger)
			defer runner.Close()

			logger.Info("starting service",
				"addr", cfg.Addr,
				"cache", cfg.Cache.Backend,
				"store", cfg.Store.Backend)

			return server.New(st, runner, logger).ListenAndServe(ctx, cfg.Addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
