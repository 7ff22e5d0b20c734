// Package chat talks to Gemini on behalf of a TrendGenie session: it edits
// photos into new hairstyles and outfits, finds salons and shops through
// grounded search, and proposes new style names for the catalog.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/trendgenie/internal/metrics"
)

// contentGenerator is the slice of *genai.Models the service uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Service implements the session's Generator, SalonFinder and
// ShoppingFinder, and the catalog's Suggester.
type Service struct {
	models     contentGenerator
	textModel  string
	imageModel string

	// MaxResults caps salon and shopping lists.
	MaxResults int
}

// DefaultMaxResults is the default cap on grounded result lists.
const DefaultMaxResults = 5

// NewGeminiClient creates a Gemini API client for apiKey.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// NewService wraps client. Empty model names fall back to GetModelName and
// GetImageModelName.
func NewService(client *genai.Client, textModel, imageModel string) *Service {
	return newService(client.Models, textModel, imageModel)
}

func newService(models contentGenerator, textModel, imageModel string) *Service {
	if textModel == "" {
		textModel = GetModelName()
	}
	if imageModel == "" {
		imageModel = GetImageModelName()
	}
	return &Service{
		models:     models,
		textModel:  textModel,
		imageModel: imageModel,
		MaxResults: DefaultMaxResults,
	}
}

// TextModel returns the model used for grounded lookups and suggestions.
func (s *Service) TextModel() string { return s.textModel }

// ImageModel returns the model used for image edits.
func (s *Service) ImageModel() string { return s.imageModel }

// generate calls the API and records latency, token and error metrics
// under operation.
func (s *Service) generate(ctx context.Context, operation, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	log.Debug().
		Str("operation", operation).
		Str("model", model).
		Msg("Starting Gemini API call")

	start := time.Now()
	resp, err := s.models.GenerateContent(ctx, model, contents, config)
	elapsed := time.Since(start)

	m := metrics.New(metrics.Namespace).
		Dimension("Operation", operation).
		Property("model", model).
		Duration("GeminiApiLatencyMs", elapsed).
		Count("GeminiApiCalls")
	if err != nil {
		m.Count("GeminiApiErrors")
	}
	if resp != nil && resp.UsageMetadata != nil {
		m.Metric("GeminiInputTokens", float64(resp.UsageMetadata.PromptTokenCount), metrics.UnitCount)
		m.Metric("GeminiOutputTokens", float64(resp.UsageMetadata.CandidatesTokenCount), metrics.UnitCount)
	}
	m.Flush()

	if err != nil {
		log.Error().Err(err).Str("operation", operation).Dur("duration", elapsed).Msg("Gemini API call failed")
		return nil, fmt.Errorf("%s: failed to generate content: %w", operation, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%s: received empty response from Gemini API", operation)
	}

	log.Debug().
		Str("operation", operation).
		Dur("duration", elapsed).
		Msg("Gemini API response received")
	return resp, nil
}
