// Package jsonutil pulls JSON out of model replies. Even with a response
// schema the model occasionally wraps its answer in markdown fences or adds
// a sentence before it, so callers parse through here instead of calling
// json.Unmarshal on the raw text.
package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when the text holds no object or array.
var ErrNoJSON = errors.New("no JSON content found")

const previewLen = 200

// StripMarkdownFences returns the body of a ```json ... ``` (or bare ```)
// block, or text unchanged when it is not fenced.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line, including any language tag.
	nl := strings.IndexByte(text, '\n')
	if nl == -1 {
		return text
	}
	body := text[nl+1:]

	if end := strings.LastIndex(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// ExtractJSON returns the span from the first '{' or '[' to the last
// matching closer.
func ExtractJSON(text string) (string, error) {
	start := strings.IndexAny(text, "{[")
	if start == -1 {
		return "", ErrNoJSON
	}

	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end < start {
		return "", fmt.Errorf("no closing %s found", closer)
	}
	return text[start : end+1], nil
}

// ParseJSON strips fences, extracts the JSON span and decodes it into T.
func ParseJSON[T any](raw string) (T, error) {
	var result T

	span, err := ExtractJSON(StripMarkdownFences(raw))
	if err != nil {
		return result, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}
	if err := json.Unmarshal([]byte(span), &result); err != nil {
		preview := span
		if len(preview) > previewLen {
			preview = preview[:previewLen] + "..."
		}
		return result, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview)
	}
	return result, nil
}
