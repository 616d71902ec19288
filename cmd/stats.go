package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/duckola/adolfo-portfolio/internal/cache"
	"github.com/duckola/adolfo-portfolio/internal/config"
	"github.com/duckola/adolfo-portfolio/internal/gateway"
	"github.com/duckola/adolfo-portfolio/internal/usecase"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregates GitHub activity and outputs as JSON",
	Long: `Runs one aggregation pass for the configured account (repository
counts, commit-day streak, monthly histogram) and prints the result in JSON
format. Useful for checking what the activity widget will show.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		logger := newLogger(verbose, true)

		cfg := config.Load()
		if account, _ := cmd.Flags().GetString("account"); account != "" {
			cfg.Account = account
		}
		if window, _ := cmd.Flags().GetInt("window-days"); window > 0 {
			cfg.WindowDays = window
		}
		if months, _ := cmd.Flags().GetInt("months"); months > 0 {
			cfg.HistogramMonths = months
		}

		fetcher, err := gateway.NewGitHubGateway(cfg.Token, cfg.HTTPTimeout, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}

		store := cache.New(cfg.CacheTTL, nil)
		aggregator := usecase.NewAggregator(fetcher, store, logger, nil)

		overview := aggregator.Overview(ctx, cfg.Account, cfg.WindowDays, cfg.HistogramMonths)

		jsonData, err := json.MarshalIndent(overview, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to marshal results to JSON: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(jsonData))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringP("account", "a", "", "GitHub account to aggregate (defaults to GITHUB_ACCOUNT)")
	statsCmd.Flags().Int("window-days", 0, "Trailing window in days for the commit-day set")
	statsCmd.Flags().Int("months", 0, "Months covered by the commit histogram")
}
