// Package cli holds the start-up plumbing shared by the trendgenie binaries:
// Gemini client creation, the usage store, photo loading and terminal output.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fpang/trendgenie/internal/auth"
	"github.com/fpang/trendgenie/internal/chat"
	"github.com/fpang/trendgenie/internal/metrics"
	"github.com/fpang/trendgenie/internal/quota"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/fpang/trendgenie/internal/style"
	"github.com/rs/zerolog/log"
)

// Config carries the flags every binary accepts.
type Config struct {
	TextModel          string
	ImageModel         string
	DBPath             string
	Ephemeral          bool
	SkipValidation     bool
	DropStaleGrounding bool
}

// InitGeminiService creates a Gemini client, validates the API key unless
// cfg.SkipValidation is set, and wraps the client in a chat.Service.
// Exits fatally on failure.
func InitGeminiService(ctx context.Context, cfg Config) *chat.Service {
	apiKey, err := auth.GetAPIKey(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to retrieve API key")
	}

	client, err := chat.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	if cfg.SkipValidation {
		log.Warn().Msg("Skipping API key validation")
	} else if err := auth.ValidateAPIKey(ctx, client, cfg.TextModel); err != nil {
		HandleValidationError(err)
	}

	return chat.NewService(client, cfg.TextModel, cfg.ImageModel)
}

// OpenUsageStore returns the store backing the usage quota: an in-memory
// store when ephemeral, otherwise SQLite at dbPath (or quota.DefaultPath
// when dbPath is empty). The returned close function is never nil.
func OpenUsageStore(dbPath string, ephemeral bool) (quota.Store, string, func() error, error) {
	if ephemeral {
		return quota.NewMemoryStore(), "memory", func() error { return nil }, nil
	}

	if dbPath == "" {
		p, err := quota.DefaultPath()
		if err != nil {
			return nil, "", nil, err
		}
		dbPath = p
	}

	store, err := quota.OpenSQLite(dbPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open usage store %s: %w", dbPath, err)
	}
	return store, dbPath, store.Close, nil
}

// NewSession wires a session to svc and the quota persisted in store.
// svc may be nil for commands that never call the model.
func NewSession(ctx context.Context, svc *chat.Service, store quota.Store, cfg Config) *session.Session {
	var services session.Services
	if svc != nil {
		services = session.Services{
			Generator: svc,
			Salons:    svc,
			Shopping:  svc,
			Suggester: svc,
		}
	}
	gate := quota.Open(ctx, store)
	return session.New(services, gate, style.NewCatalog(), session.Options{
		DropStaleGrounding: cfg.DropStaleGrounding,
	})
}

// OpenMetricsSink directs metric documents to path: "" leaves them
// discarded, "-" writes to stdout, anything else appends to a file.
func OpenMetricsSink(path string) (func() error, error) {
	switch path {
	case "":
		return func() error { return nil }, nil
	case "-":
		metrics.SetOutput(os.Stdout)
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open metrics file: %w", err)
	}
	metrics.SetOutput(f)
	return func() error {
		metrics.SetOutput(nil)
		return f.Close()
	}, nil
}
