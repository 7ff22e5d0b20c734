package main

import (
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fpang/trendgenie/internal/session"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes bounds a photo upload before it is decoded.
const maxUploadBytes = 20 << 20

// server exposes one in-process session over a local JSON API.
type server struct {
	sess *session.Session
	// pick opens the native photo picker; replaced in tests.
	pick func() (string, error)

	rngMu sync.Mutex
	rng   *rand.Rand
}

func newServer(sess *session.Session, pick func() (string, error), rng *rand.Rand) *server {
	return &server{sess: sess, pick: pick, rng: rng}
}

func (s *server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/photo", s.handlePhoto)
	mux.HandleFunc("/api/pick", s.handlePick)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/navigate", s.handleNavigate)
	mux.HandleFunc("/api/reset", s.handleReset)
	mux.HandleFunc("/api/colors", s.handleColors)
	mux.HandleFunc("/api/palettes", s.handlePalettes)
	mux.HandleFunc("/api/styles", s.handleStyles)
	mux.HandleFunc("/api/styles/more", s.handleStylesMore)
	mux.HandleFunc("/api/suggestions", s.handleSuggestions)
	mux.HandleFunc("/api/location", s.handleLocation)
	mux.HandleFunc("/api/subscribe", s.handleSubscribe)
	mux.HandleFunc("/api/paywall/dismiss", s.handleDismissPaywall)
	mux.HandleFunc("/api/download", s.handleDownload)
	return mux
}

// --- Middleware ---

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if strings.HasPrefix(r.URL.Path, "/api/") {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("API request")
		}
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
