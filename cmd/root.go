package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/choropleth-cli/internal/config"
	"github.com/sells-group/choropleth-cli/internal/fetcher"
	"github.com/sells-group/choropleth-cli/internal/pipeline"
)

var (
	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "choropleth-cli",
	Short: "US county educational attainment choropleth",
	Long:  "Fetches the US counties topology and county education table, shades each county by its bachelor's-or-higher rate, and writes the map as SVG, HTML, PNG, or GIS exports.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml)")
}

// newFetcher builds the fetcher for the configured sources.
func newFetcher() fetcher.Fetcher {
	return fetcher.NewRouter(fetcher.HTTPOptions{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    cfg.Fetch.Timeout(),
		RatePerSec: cfg.Fetch.RatePerSec,
		Burst:      cfg.Fetch.Burst,
	})
}

// newPipeline builds a render pipeline over the configured sources.
func newPipeline() *pipeline.Pipeline {
	return pipeline.New(cfg, newFetcher())
}

// printer formats counts for command summaries.
var printer = message.NewPrinter(language.English)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
