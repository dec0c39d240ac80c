// Command trendctl loads the cybersecurity stats sheet from the command line
// and serves the HTTP API.
//
// Usage:
//
//	trendctl stats                  Totals, publishers and a date histogram
//	trendctl vocab                  Filter options of the loaded data
//	trendctl query --tag Phishing   Filtered, sorted, paginated table
//	trendctl ask "how many"         Answer a question about the filtered stats
//	trendctl export --format csv    Write the filtered stats out
//	trendctl serve                  Refresh loop plus HTTP API
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Drominaman/cybertrend-dashboard/internal/config"
	"github.com/Drominaman/cybertrend-dashboard/internal/fetch"
	"github.com/Drominaman/cybertrend-dashboard/internal/logging"
)

var (
	configPath string
	logLevel   string
	csvSource  string
)

var rootCmd = &cobra.Command{
	Use:           "trendctl",
	Short:         "Cybersecurity stats from the command line",
	Long:          "trendctl loads the configured stat sources once per command and filters, summarizes or exports them. The serve command keeps them fresh and exposes the HTTP API.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.LoadEnvFiles(".env", ".env.local"); err != nil {
			return err
		}
		// Logs go to stderr so stdout stays pipeable.
		logging.InitWriter(os.Stderr, logging.ParseLevel(logLevel))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.yaml (default $CYBERTREND_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&csvSource, "csv", "", "Load this CSV file or URL instead of the configured sources")
}

// loadConfig reads the config file and applies the --csv override.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if csvSource != "" {
		cfg.Sources = []fetch.Source{{Type: fetch.TypeCSV, Name: "command line", URL: csvSource}}
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
