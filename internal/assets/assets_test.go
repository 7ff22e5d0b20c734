package assets

import (
	"strings"
	"testing"
)

func TestStyleEditSystemPrompt_HasSafetyRules(t *testing.T) {
	if !strings.Contains(StyleEditSystemPrompt, "decent, modest, and appropriate for general audiences") {
		t.Error("system prompt is missing the content-safety instruction")
	}
}

func TestRenderSalonSearchPrompt(t *testing.T) {
	got := RenderSalonSearchPrompt(SearchData{Style: "Change hair to Pixie Cut", Limit: 5})
	if !strings.Contains(got, "Change hair to Pixie Cut") || !strings.Contains(got, "up to 5") {
		t.Errorf("unexpected prompt: %s", got)
	}
}

func TestRenderShoppingSearchPrompt(t *testing.T) {
	got := RenderShoppingSearchPrompt(SearchData{Style: "Athleisure Wear", Limit: 3})
	if !strings.Contains(got, "Athleisure Wear") || !strings.Contains(got, "up to 3") {
		t.Errorf("unexpected prompt: %s", got)
	}
}

func TestRenderStyleSuggestionsPrompt(t *testing.T) {
	got := RenderStyleSuggestionsPrompt(SuggestionData{
		Count:    4,
		Category: "hairstyles",
		Existing: []string{"Pixie Cut", "Messy Bun"},
	})
	for _, want := range []string{"Suggest 4", "hairstyles", "- Pixie Cut\n", "- Messy Bun\n", "JSON array"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in prompt:\n%s", want, got)
		}
	}
}
