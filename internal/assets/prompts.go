package assets

import (
	"bytes"
	"text/template"
)

// SearchData feeds the grounded search prompts.
type SearchData struct {
	// Style is the style instruction the user picked, without color details.
	Style string
	// Limit caps how many results the model is asked for.
	Limit int
}

// SuggestionData feeds the style suggestions prompt.
type SuggestionData struct {
	Count    int
	Category string
	Existing []string
}

// RenderSalonSearchPrompt renders the Maps-grounded salon query.
func RenderSalonSearchPrompt(data SearchData) string {
	return renderTemplate(salonSearchTmpl, data)
}

// RenderShoppingSearchPrompt renders the Search-grounded shopping query.
func RenderShoppingSearchPrompt(data SearchData) string {
	return renderTemplate(shoppingSearchTmpl, data)
}

// RenderStyleSuggestionsPrompt renders the request for new style names.
func RenderStyleSuggestionsPrompt(data SuggestionData) string {
	return renderTemplate(styleSuggestionsTmpl, data)
}

// renderTemplate executes a pre-parsed template. Execution errors are not
// expected with these templates; whatever was rendered is returned.
func renderTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
