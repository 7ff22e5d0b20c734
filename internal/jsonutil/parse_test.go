package jsonutil

import (
	"errors"
	"testing"
)

func TestStripMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `["a"]`, `["a"]`},
		{"json fence", "```json\n[\"a\", \"b\"]\n```", `["a", "b"]`},
		{"bare fence", "```\n{\"k\": 1}\n```", `{"k": 1}`},
		{"single line", "```", "```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdownFences(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	got, err := ExtractJSON(`Here you go: ["Wolf Cut", "Butterfly Layers"] enjoy!`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `["Wolf Cut", "Butterfly Layers"]` {
		t.Errorf("unexpected span %q", got)
	}

	if _, err := ExtractJSON("no json here"); !errors.Is(err, ErrNoJSON) {
		t.Errorf("expected ErrNoJSON, got %v", err)
	}
	if _, err := ExtractJSON("broken [ array"); err == nil {
		t.Error("expected error for unclosed array")
	}
}

func TestParseJSON_StringList(t *testing.T) {
	got, err := ParseJSON[[]string]("```json\n[\"Wolf Cut\", \"Shag\"]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "Wolf Cut" || got[1] != "Shag" {
		t.Errorf("unexpected result %v", got)
	}
}

func TestParseJSON_Object(t *testing.T) {
	type reply struct {
		Styles []string `json:"styles"`
	}
	got, err := ParseJSON[reply](`Sure! {"styles": ["Mullet"]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Styles) != 1 || got.Styles[0] != "Mullet" {
		t.Errorf("unexpected result %+v", got)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	if _, err := ParseJSON[[]string](`[1, 2,]`); err == nil {
		t.Error("expected decode error")
	}
}
