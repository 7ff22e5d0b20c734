package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/trendgenie/internal/assets"
	"github.com/fpang/trendgenie/internal/session"
)

// FindNearbySalons asks the text model, grounded on Google Maps around loc,
// for salons that can create query. Results come from the grounding
// chunks, not from the model's prose.
func (s *Service) FindNearbySalons(ctx context.Context, loc session.Location, query string) ([]session.Result, error) {
	prompt := assets.RenderSalonSearchPrompt(assets.SearchData{Style: query, Limit: s.MaxResults})
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
		ToolConfig: &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(loc.Latitude),
					Longitude: genai.Ptr(loc.Longitude),
				},
			},
		},
	}

	start := time.Now()
	resp, err := s.generate(ctx, "salonSearch", s.textModel, genai.Text(prompt), config)
	if err != nil {
		return nil, err
	}

	results := groundedResults(resp, s.MaxResults)
	log.Info().
		Float64("latitude", loc.Latitude).
		Float64("longitude", loc.Longitude).
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Salon search complete")
	return results, nil
}

// FindShoppingLinks asks the text model, grounded on Google Search, where to
// buy the look described by query.
func (s *Service) FindShoppingLinks(ctx context.Context, query string) ([]session.Result, error) {
	prompt := assets.RenderShoppingSearchPrompt(assets.SearchData{Style: query, Limit: s.MaxResults})
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	start := time.Now()
	resp, err := s.generate(ctx, "shoppingSearch", s.textModel, genai.Text(prompt), config)
	if err != nil {
		return nil, err
	}

	results := groundedResults(resp, s.MaxResults)
	log.Info().
		Int("results", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Shopping search complete")
	return results, nil
}

// groundedResults collects Maps and Web grounding chunks in the order the
// model returned them, skipping chunks without a URI and repeated URIs.
// limit <= 0 means no cap.
func groundedResults(resp *genai.GenerateContentResponse, limit int) []session.Result {
	var out []session.Result
	seen := make(map[string]bool)

	add := func(title, uri string) bool {
		if uri == "" || seen[uri] {
			return true
		}
		seen[uri] = true
		if title == "" {
			title = uri
		}
		out = append(out, session.Result{Title: title, URI: uri})
		return limit <= 0 || len(out) < limit
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk == nil {
				continue
			}
			more := true
			switch {
			case chunk.Maps != nil:
				more = add(chunk.Maps.Title, chunk.Maps.URI)
			case chunk.Web != nil:
				more = add(chunk.Web.Title, chunk.Web.URI)
			}
			if !more {
				return out
			}
		}
	}
	return out
}
