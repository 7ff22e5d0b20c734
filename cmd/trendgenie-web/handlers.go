package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fpang/trendgenie/internal/auth"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/fpang/trendgenie/internal/style"
	"github.com/rs/zerolog/log"
)

// GET /api/state
func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

type generateRequest struct {
	Kind   string `json:"kind"`
	Style  string `json:"style,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// base returns the unembellished instruction: a catalog style is phrased
// for its kind, anything else is taken as free text.
func (req generateRequest) base(kind style.Kind) string {
	if kind != style.KindMix {
		if name := strings.TrimSpace(req.Style); name != "" {
			return style.Instruction(kind, name)
		}
	}
	return strings.TrimSpace(req.Prompt)
}

// POST /api/generate
// Runs one edit of the viewed artifact. The response carries the new view;
// 402 means the usage quota is spent and the paywall is showing.
func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req generateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	kind, err := style.ParseKind(req.Kind)
	if err != nil {
		httpError(w, http.StatusBadRequest, "kind must be 'hair', 'fashion' or 'mix'")
		return
	}

	outcome, err := s.sess.Generate(r.Context(), kind, req.base(kind))
	switch {
	case err == nil && outcome == session.OutcomePaywall:
		respondJSON(w, http.StatusPaymentRequired, s.sess.Snapshot())
	case err == nil:
		respondJSON(w, http.StatusOK, s.sess.Snapshot())
	case errors.Is(err, session.ErrBusy), errors.Is(err, session.ErrSessionReset):
		httpError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoPhoto), errors.Is(err, session.ErrInvalidPrompt):
		httpError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrGenerationFailed):
		classified := auth.Classify(err)
		log.Warn().Err(err).Str("type", classified.Type.String()).Msg("Generation request failed")
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error": classified.Message,
			"type":  classified.Type.String(),
			"state": s.sess.Snapshot(),
		})
	default:
		log.Error().Err(err).Msg("Unexpected generation error")
		httpError(w, http.StatusInternalServerError, "generation failed")
	}
}

// POST /api/navigate
func (s *server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.sess.Navigate(req.Delta)
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/reset
func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.sess.Reset()
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/location
func (s *server) handleLocation(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		httpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		httpError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	loc := session.Location{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		httpError(w, http.StatusBadRequest, "latitude or longitude out of range")
		return
	}
	s.sess.SetLocation(loc)
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/subscribe
// Simulated purchase: resets the usage count and hides the paywall.
func (s *server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := s.sess.Subscribe(r.Context()); err != nil {
		log.Warn().Err(err).Msg("Usage reset was not persisted")
	}
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/paywall/dismiss
func (s *server) handleDismissPaywall(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	s.sess.DismissPaywall()
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}
