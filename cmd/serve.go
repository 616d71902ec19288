package cmd

import (
	"github.com/spf13/cobra"

	"github.com/duckola/adolfo-portfolio/internal/cache"
	"github.com/duckola/adolfo-portfolio/internal/config"
	"github.com/duckola/adolfo-portfolio/internal/content"
	"github.com/duckola/adolfo-portfolio/internal/gateway"
	"github.com/duckola/adolfo-portfolio/internal/server"
	"github.com/duckola/adolfo-portfolio/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the portfolio HTTP server",
	Long: `Starts the HTTP server: JSON endpoints for the static portfolio
content, the aggregated GitHub activity widget, the contact form and
Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose, false)

		cfg := config.Load()

		portfolio, err := content.Load(cfg.ContentFile)
		if err != nil {
			logger.WithError(err).Warn("portfolio content unavailable, serving placeholder")
			portfolio = content.Default()
		}

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, cfg.HTTPTimeout, logger)
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			logger.Warn("no GITHUB_TOKEN configured, unauthenticated requests may hit rate limits")
		}

		store := cache.New(cfg.CacheTTL, nil)
		aggregator := usecase.NewAggregator(fetcher, store, logger, nil)

		return server.New(cfg, portfolio, aggregator, logger).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
