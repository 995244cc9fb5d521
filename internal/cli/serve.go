package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/tideman/internal/server"
	"github.com/matzehuels/tideman/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	rateLimit float64
	burst     int
	noCache   bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tabulation HTTP API",
		Long: `Serve the tabulation HTTP API until interrupted.

Endpoints:
  POST /v1/tabulate   ballot document in, staged result JSON out
  POST /v1/render     ballot document in, lock graph out (?format=svg|png|dot|json)
  GET  /healthz       liveness and build information
  GET  /metrics       Prometheus metrics

Flags override the [server] section of the config file.`,
		Example: `  tideman serve
  tideman serve --addr 127.0.0.1:9000 --rate-limit 5
  curl -s --data-binary @tennessee.toml -H 'Content-Type: application/toml' localhost:8080/v1/tabulate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = opts.addr
			}
			if cmd.Flags().Changed("rate-limit") {
				cfg.RateLimit = opts.rateLimit
			}
			if cmd.Flags().Changed("burst") {
				cfg.Burst = opts.burst
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := server.NewMetrics()
			metrics.Register()
			defer observability.Reset()

			srv := server.New(server.Config{
				Addr:      cfg.Addr,
				RateLimit: cfg.RateLimit,
				Burst:     cfg.Burst,
				Metrics:   metrics,
			}, runner, c.Logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().Float64Var(&opts.rateLimit, "rate-limit", 0, "requests per second across all clients, 0 disables")
	cmd.Flags().IntVar(&opts.burst, "burst", 0, "rate limiter burst size")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result and artifact caches")

	return cmd
}
