// Package assets holds the prompt text sent to Gemini. Prompts live as text
// files under prompts/ and are embedded at compile time so they can be edited
// without touching Go code.
package assets

import (
	_ "embed"
	"text/template"
)

// StyleEditSystemPrompt is the system instruction for every image edit,
// including the content-safety rules.
//
//go:embed prompts/style-edit-system.txt
var StyleEditSystemPrompt string

//go:embed prompts/salon-search.txt
var salonSearchTemplate string

//go:embed prompts/shopping-search.txt
var shoppingSearchTemplate string

//go:embed prompts/style-suggestions.txt
var styleSuggestionsTemplate string

// Pre-parsed templates. template.Must panics on malformed templates,
// catching errors at program startup rather than at call time.
var (
	salonSearchTmpl      = template.Must(template.New("salon").Parse(salonSearchTemplate))
	shoppingSearchTmpl   = template.Must(template.New("shopping").Parse(shoppingSearchTemplate))
	styleSuggestionsTmpl = template.Must(template.New("suggestions").Parse(styleSuggestionsTemplate))
)
