package main

import (
	"os"

	"github.com/fpang/trendgenie/internal/chat"
	"github.com/fpang/trendgenie/internal/cli"
	"github.com/fpang/trendgenie/internal/logging"
	"github.com/fpang/trendgenie/internal/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Flags shared by every subcommand
var (
	cfg         cli.Config
	metricsFlag string
)

// closeMetrics is set by PersistentPreRun and called after the command.
var closeMetrics = func() error { return nil }

var rootCmd = &cobra.Command{
	Use:   "trendgenie",
	Short: "Try on hairstyles and outfits from the terminal",
	Long: `TrendGenie edits a photo of you with a new hairstyle, outfit, or both,
using Gemini image generation. After each look it lists nearby salons
(when a location is known) and places to buy the outfit.

Fifteen generations are free; "trendgenie subscribe" resets the counter.

Examples:
  trendgenie generate --photo me.jpg --hair "Pixie Cut" --hair-color Copper
  trendgenie generate --pick --outfit "Athleisure Wear" --top-color "Navy Blue"
  trendgenie generate --photo me.jpg --prompt "Red gown with a messy bun" --lat 40.71 --lon -74.00
  trendgenie styles --kind hair --more
  trendgenie usage`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init()
		metrics.SetService("trendgenie")
		closeFn, err := cli.OpenMetricsSink(metricsFlag)
		if err != nil {
			return err
		}
		closeMetrics = closeFn
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := closeMetrics(); err != nil {
			log.Warn().Err(err).Msg("Failed to close metrics sink")
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.TextModel, "model", "m", chat.GetModelName(), "Gemini model for grounding and style suggestions")
	flags.StringVar(&cfg.ImageModel, "image-model", chat.GetImageModelName(), "Gemini model for image edits")
	flags.StringVar(&cfg.DBPath, "db", "", "Usage database path (default $TRENDGENIE_DB or ~/.trendgenie/usage.db)")
	flags.BoolVar(&cfg.Ephemeral, "ephemeral", false, "Keep the usage count in memory only")
	flags.BoolVar(&cfg.SkipValidation, "skip-validation", false, "Skip the API key check")
	flags.StringVar(&metricsFlag, "metrics", "", `Write metric documents to this file ("-" for stdout)`)

	rootCmd.AddCommand(newGenerateCmd(), newUsageCmd(), newSubscribeCmd(), newStylesCmd(), newColorsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
