// Package session holds the per-user editing state of TrendGenie: the
// branch-truncating history of generated images, the generation status,
// the color selection, and the grounding results attached to the latest
// generation. Session wires these together with the quota gate and the
// model collaborators.
package session

import (
	"errors"
	"time"

	"github.com/fpang/trendgenie/internal/style"
)

// OriginalID is the artifact id reserved for the uploaded photo.
const OriginalID = "original"

// ErrEmptyHistory is returned when a transition needs a seeded history.
var ErrEmptyHistory = errors.New("history is empty")

// Image is encoded image bytes plus their MIME type.
type Image struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the image carries no bytes.
func (i Image) Empty() bool { return len(i.Data) == 0 }

// Artifact is one entry of the history. Artifacts are never modified after
// they are created.
type Artifact struct {
	ID        string     `json:"id"`
	Image     Image      `json:"-"`
	Prompt    string     `json:"prompt"`
	Kind      style.Kind `json:"kind,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// HistoryState names the two states of a History.
type HistoryState int

const (
	StateEmpty HistoryState = iota
	StateViewing
)

func (s HistoryState) String() string {
	if s == StateViewing {
		return "viewing"
	}
	return "empty"
}

// History is an ordered list of artifacts and a cursor into it. It is a
// value: every transition returns a new History and leaves the receiver
// untouched. The zero value is an empty history.
type History struct {
	items  []Artifact
	cursor int
}

// Seed starts a history holding only a.
func Seed(a Artifact) History {
	return History{items: []Artifact{a}, cursor: 0}
}

// Len returns the number of artifacts.
func (h History) Len() int { return len(h.items) }

// Cursor returns the index of the viewed artifact, or -1 when empty.
func (h History) Cursor() int {
	if len(h.items) == 0 {
		return -1
	}
	return h.cursor
}

// State reports whether the history is empty or being viewed.
func (h History) State() HistoryState {
	if len(h.items) == 0 {
		return StateEmpty
	}
	return StateViewing
}

// Current returns the artifact at the cursor.
func (h History) Current() (Artifact, bool) {
	if len(h.items) == 0 {
		return Artifact{}, false
	}
	return h.items[h.cursor], true
}

// Items returns a copy of the artifacts in order.
func (h History) Items() []Artifact {
	return append([]Artifact(nil), h.items...)
}

// CanBack reports whether Navigate(-1) would move the cursor.
func (h History) CanBack() bool { return len(h.items) > 0 && h.cursor > 0 }

// CanForward reports whether Navigate(+1) would move the cursor.
func (h History) CanForward() bool { return h.cursor < len(h.items)-1 }

// Append drops every artifact after the cursor, adds a at the end and moves
// the cursor onto it. Appending to an empty history is an error; Seed it first.
func (h History) Append(a Artifact) (History, error) {
	if len(h.items) == 0 {
		return h, ErrEmptyHistory
	}
	items := make([]Artifact, h.cursor+1, h.cursor+2)
	copy(items, h.items[:h.cursor+1])
	items = append(items, a)
	return History{items: items, cursor: len(items) - 1}, nil
}

// Navigate moves the cursor by delta, clamped to the valid range. changed is
// false when the cursor stayed put.
func (h History) Navigate(delta int) (next History, changed bool) {
	if len(h.items) == 0 {
		return h, false
	}
	c := min(max(h.cursor+delta, 0), len(h.items)-1)
	if c == h.cursor {
		return h, false
	}
	return History{items: h.items, cursor: c}, true
}

// Reset returns an empty history.
func (h History) Reset() History {
	return History{}
}
