package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fpang/trendgenie/internal/chat"
	"github.com/fpang/trendgenie/internal/cli"
	"github.com/fpang/trendgenie/internal/logging"
	"github.com/fpang/trendgenie/internal/metrics"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CLI flags
var (
	portFlag    int
	metricsFlag string
	latFlag     float64
	lonFlag     float64
	cfg         cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "trendgenie-web",
	Short: "Local JSON API for trying on hairstyles and outfits",
	Long: `TrendGenie Web starts a local server that keeps one editing session:
upload a photo, generate hairstyle and outfit edits with Gemini, step
through the edit history, and get nearby salons and shopping links for
each look.

Examples:
  trendgenie-web
  trendgenie-web --port 9090 --ephemeral
  trendgenie-web --lat 40.7128 --lon -74.0060 --metrics metrics.jsonl`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVarP(&cfg.TextModel, "model", "m", chat.GetModelName(), "Gemini model for grounding and style suggestions")
	rootCmd.Flags().StringVar(&cfg.ImageModel, "image-model", chat.GetImageModelName(), "Gemini model for image edits")
	rootCmd.Flags().StringVar(&cfg.DBPath, "db", "", "Usage database path (default $TRENDGENIE_DB or ~/.trendgenie/usage.db)")
	rootCmd.Flags().BoolVar(&cfg.Ephemeral, "ephemeral", false, "Keep the usage count in memory only")
	rootCmd.Flags().BoolVar(&cfg.SkipValidation, "skip-validation", false, "Skip the API key check at startup")
	rootCmd.Flags().BoolVar(&cfg.DropStaleGrounding, "drop-stale-grounding", false, "Discard salon/shopping results that arrive after the view changed")
	rootCmd.Flags().Float64Var(&latFlag, "lat", 0, "Latitude for salon search")
	rootCmd.Flags().Float64Var(&lonFlag, "lon", 0, "Longitude for salon search")
	rootCmd.Flags().StringVar(&metricsFlag, "metrics", "", `Write metric documents to this file ("-" for stdout)`)
	rootCmd.MarkFlagsRequiredTogether("lat", "lon")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	initStart := time.Now()
	logging.Init()
	metrics.SetService("trendgenie-web")

	closeMetrics, err := cli.OpenMetricsSink(metricsFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open metrics sink")
	}
	defer closeMetrics()

	ctx := context.Background()
	svc := cli.InitGeminiService(ctx, cfg)

	store, storePath, closeStore, err := cli.OpenUsageStore(cfg.DBPath, cfg.Ephemeral)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open usage store")
	}
	defer closeStore()

	sess := cli.NewSession(ctx, svc, store, cfg)
	if cmd.Flags().Changed("lat") {
		sess.SetLocation(session.Location{Latitude: latFlag, Longitude: lonFlag})
	}

	srv := newServer(sess, cli.PickPhoto, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	handler := withLogging(withCORS(srv.routes()))

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", portFlag),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.NewStartupLogger("trendgenie-web").
		CommitHash(commitHash).
		BuildTime(buildTime).
		Model("text", svc.TextModel()).
		Model("image", svc.ImageModel()).
		Storage("usageDB", storePath).
		Feature("skipValidation", cfg.SkipValidation).
		Feature("dropStaleGrounding", cfg.DropStaleGrounding).
		Feature("metrics", metricsFlag != "").
		Config("port", strconv.Itoa(portFlag)).
		InitDuration(time.Since(initStart)).
		Log()

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("Shutdown did not complete cleanly")
		}
		sess.Wait()
	}()

	log.Info().Int("port", portFlag).Msg("Starting web server")
	fmt.Printf("\n  TrendGenie API: http://localhost:%d/api/state\n\n", portFlag)

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	<-done
}
