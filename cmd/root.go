// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "A personal portfolio site with a live GitHub activity widget.",
	Long: `portfolio serves a single-page personal portfolio: static content
(bio, education, projects, certificates, achievements) plus live activity
figures aggregated from a GitHub account's repositories and commits.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}

// newLogger builds the shared JSON logger. Without verbose, the stats command
// keeps the output clean by discarding log lines entirely.
func newLogger(verbose, discardQuiet bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetOutput(os.Stderr)
	} else if discardQuiet {
		logger.SetOutput(io.Discard)
	}
	return logger
}
