package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/trendgenie/internal/assets"
	"github.com/fpang/trendgenie/internal/jsonutil"
	"github.com/fpang/trendgenie/internal/style"
)

// SuggestionBatch is how many new style names one request asks for.
const SuggestionBatch = 4

// SuggestMoreStyles asks the text model for style names of kind that are not
// in existing. The reply is a JSON array; names already known (compared
// case-insensitively) and duplicates are dropped.
func (s *Service) SuggestMoreStyles(ctx context.Context, existing []string, kind style.Kind) ([]string, error) {
	var category string
	switch kind {
	case style.KindHair:
		category = "hairstyles"
	case style.KindFashion:
		category = "outfit styles"
	default:
		return nil, fmt.Errorf("%w: no suggestions for %q", style.ErrUnknownKind, kind)
	}

	prompt := assets.RenderStyleSuggestionsPrompt(assets.SuggestionData{
		Count:    SuggestionBatch,
		Category: category,
		Existing: existing,
	})
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	}

	start := time.Now()
	resp, err := s.generate(ctx, "styleSuggestions", s.textModel, genai.Text(prompt), config)
	if err != nil {
		return nil, err
	}

	raw, err := jsonutil.ParseJSON[[]string](resp.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to parse style suggestions: %w", err)
	}
	fresh := newStyles(raw, existing)

	log.Info().
		Str("kind", string(kind)).
		Int("returned", len(raw)).
		Int("new", len(fresh)).
		Dur("duration", time.Since(start)).
		Msg("Style suggestions received")
	return fresh, nil
}

// newStyles trims names and drops blanks, repeats and names in existing.
func newStyles(candidates, existing []string) []string {
	seen := make(map[string]bool, len(existing)+len(candidates))
	for _, e := range existing {
		seen[strings.ToLower(strings.TrimSpace(e))] = true
	}

	var out []string
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
