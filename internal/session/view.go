package session

import (
	"fmt"

	"github.com/fpang/trendgenie/internal/quota"
	"github.com/fpang/trendgenie/internal/style"
)

// View is a point-in-time copy of everything a front end renders.
type View struct {
	Status    Status `json:"status"`
	LastError string `json:"lastError,omitempty"`

	HasPhoto   bool       `json:"hasPhoto"`
	History    []Artifact `json:"history"`
	Cursor     int        `json:"cursor"`
	Position   int        `json:"position"`
	Total      int        `json:"total"`
	CanBack    bool       `json:"canBack"`
	CanForward bool       `json:"canForward"`
	Current    *Artifact  `json:"current,omitempty"`

	Colors   style.Selection `json:"colors"`
	Salons   []Result        `json:"salons"`
	Shopping []Result        `json:"shopping"`
	Location *Location       `json:"location,omitempty"`

	Usage     int  `json:"usage"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
	Paywall   bool `json:"paywall"`

	HairStyles     []string `json:"hairStyles"`
	FashionStyles  []string `json:"fashionStyles"`
	LoadingHair    bool     `json:"loadingHair"`
	LoadingFashion bool     `json:"loadingFashion"`
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	v := View{
		Status:     s.status,
		LastError:  s.lastError,
		HasPhoto:   s.history.Len() > 0,
		History:    s.history.Items(),
		Cursor:     s.history.Cursor(),
		Position:   s.history.Cursor() + 1,
		Total:      s.history.Len(),
		CanBack:    s.history.CanBack(),
		CanForward: s.history.CanForward(),
		Colors:     s.colors,
		Paywall:    s.paywall,
	}
	if cur, ok := s.history.Current(); ok {
		v.Current = &cur
	}
	if s.location != nil {
		l := *s.location
		v.Location = &l
	}
	s.mu.Unlock()

	v.Salons = s.grounding.Salons()
	v.Shopping = s.grounding.Shopping()
	v.Usage = s.gate.Count()
	v.Remaining = s.gate.Remaining()
	v.Limit = quota.Limit
	v.HairStyles = s.catalog.Visible(style.KindHair)
	v.FashionStyles = s.catalog.Visible(style.KindFashion)
	v.LoadingHair = s.catalog.Loading(style.KindHair)
	v.LoadingFashion = s.catalog.Loading(style.KindFashion)
	return v
}

// Download returns the viewed artifact and the file name to save it under.
func (s *Session) Download() (string, Image, error) {
	s.mu.Lock()
	cur, ok := s.history.Current()
	s.mu.Unlock()
	if !ok {
		return "", Image{}, ErrNoPhoto
	}
	return DownloadName(cur), cur.Image, nil
}

// DownloadName is trendgenie-<kind>-<id>.<ext>.
func DownloadName(a Artifact) string {
	kind := string(a.Kind)
	if kind == "" {
		kind = string(style.KindMix)
	}
	return fmt.Sprintf("trendgenie-%s-%s.%s", kind, a.ID, extension(a.Image.MIMEType))
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
