package main

import (
	"errors"
	"net/http"

	"github.com/fpang/trendgenie/internal/style"
)

// comboCount is how many "try a combination" prompts are offered.
const comboCount = 3

type stylesResponse struct {
	Kind      style.Kind `json:"kind"`
	Styles    []string   `json:"styles"`
	Total     int        `json:"total"`
	CanReveal bool       `json:"canReveal"`
	Loading   bool       `json:"loading"`
	Expansion string     `json:"expansion,omitempty"`
}

func (s *server) stylesFor(kind style.Kind) stylesResponse {
	catalog := s.sess.Catalog()
	return stylesResponse{
		Kind:      kind,
		Styles:    catalog.Visible(kind),
		Total:     len(catalog.All(kind)),
		CanReveal: catalog.CanReveal(kind),
		Loading:   catalog.Loading(kind),
	}
}

// catalogKind parses a kind that owns a catalog (hair or fashion).
func catalogKind(raw string) (style.Kind, error) {
	kind, err := style.ParseKind(raw)
	if err != nil {
		return "", err
	}
	if kind == style.KindMix {
		return "", style.ErrUnknownKind
	}
	return kind, nil
}

// GET /api/styles?kind=hair|fashion
func (s *server) handleStyles(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	kind, err := catalogKind(r.URL.Query().Get("kind"))
	if err != nil {
		httpError(w, http.StatusBadRequest, "kind must be 'hair' or 'fashion'")
		return
	}
	respondJSON(w, http.StatusOK, s.stylesFor(kind))
}

// POST /api/styles/more
// Reveals the next page of styles, or asks the model for new ones once
// every known style is showing.
func (s *server) handleStylesMore(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Kind string `json:"kind"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := catalogKind(req.Kind)
	if err != nil {
		httpError(w, http.StatusBadRequest, "kind must be 'hair' or 'fashion'")
		return
	}

	exp, err := s.sess.RequestMore(r.Context(), kind)
	if err != nil {
		if errors.Is(err, style.ErrUnknownKind) {
			httpError(w, http.StatusBadRequest, err.Error())
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := s.stylesFor(kind)
	resp.Expansion = exp.String()
	respondJSON(w, http.StatusOK, resp)
}

// POST /api/colors
// Toggles a swatch in a slot; an empty value clears the slot.
func (s *server) handleColors(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Slot  string `json:"slot"`
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	slot, err := style.ParseSlot(req.Slot)
	if err != nil {
		httpError(w, http.StatusBadRequest, "slot must be 'hair', 'top' or 'bottom'")
		return
	}

	if req.Value == "" {
		s.sess.ClearColor(slot)
	} else {
		s.sess.SelectColor(slot, req.Value)
	}
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

// GET /api/palettes
func (s *server) handlePalettes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	respondJSON(w, http.StatusOK, map[string][]style.Color{
		"hair":     style.HairPalette.Colors(),
		"clothing": style.ClothingPalette.Colors(),
	})
}

// GET /api/suggestions
// Random "<hair> with <outfit>" prompts for the free-text box.
func (s *server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	s.rngMu.Lock()
	combos := style.ComboSuggestions(s.rng, comboCount)
	s.rngMu.Unlock()
	respondJSON(w, http.StatusOK, map[string][]string{"suggestions": combos})
}
