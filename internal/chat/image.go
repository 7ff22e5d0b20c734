package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/fpang/trendgenie/internal/assets"
	"github.com/fpang/trendgenie/internal/session"
)

// ErrNoImage is returned when the model answers without an image part,
// usually because it refused the edit.
var ErrNoImage = errors.New("model returned no image")

// GenerateStyleImage sends the viewed photo and the composed instruction to
// the image model and returns the edited image.
func (s *Service) GenerateStyleImage(ctx context.Context, source session.Image, prompt string) (session.Image, error) {
	log.Info().
		Str("model", s.imageModel).
		Int("image_bytes", len(source.Data)).
		Str("image_mime", source.MIMEType).
		Int("prompt_length", len(prompt)).
		Msg("Sending photo to Gemini for style edit")

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: assets.StyleEditSystemPrompt}},
		},
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: source.MIMEType, Data: source.Data}},
			{Text: prompt},
		},
	}}

	start := time.Now()
	resp, err := s.generate(ctx, "styleEdit", s.imageModel, contents, config)
	if err != nil {
		return session.Image{}, err
	}

	img, text := extractImage(resp)
	if img.Empty() {
		log.Warn().Str("model_text", truncate(text, 200)).Msg("Gemini response had no image part")
		if text != "" {
			return session.Image{}, errors.Join(ErrNoImage, errors.New(truncate(text, 200)))
		}
		return session.Image{}, ErrNoImage
	}

	log.Info().
		Int("image_bytes", len(img.Data)).
		Str("image_mime", img.MIMEType).
		Dur("duration", time.Since(start)).
		Msg("Style edit complete")
	return img, nil
}

// extractImage returns the first inline image of the first candidate that
// has one, plus any text the model returned alongside it.
func extractImage(resp *genai.GenerateContentResponse) (session.Image, string) {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.Text != "" {
				text.WriteString(part.Text)
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 && strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				return session.Image{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, text.String()
			}
		}
	}
	return session.Image{}, text.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
