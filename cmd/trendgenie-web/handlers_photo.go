package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/fpang/trendgenie/internal/cli"
	"github.com/fpang/trendgenie/internal/imaging"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// POST /api/photo
// Accepts either a multipart form with a "photo" file field or the raw
// image as the request body, and starts a new history from it.
func (s *server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	data, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpError(w, http.StatusRequestEntityTooLarge, "photo is too large")
			return
		}
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.seed(w, data)
}

// readUpload returns the uploaded image bytes.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errors.New("request body is empty")
		}
		return data, nil
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("missing photo field: %w", err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// POST /api/pick
// Opens the native file picker and seeds the session with the chosen photo.
func (s *server) handlePick(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	path, err := s.pick()
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			respondJSON(w, http.StatusOK, map[string]interface{}{
				"canceled": true,
				"state":    s.sess.Snapshot(),
			})
			return
		}
		log.Error().Err(err).Msg("Photo picker failed")
		httpError(w, http.StatusInternalServerError, "photo picker failed")
		return
	}

	data, err := cli.ReadPhoto(path)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Info().Str("path", path).Msg("Photo picked via native dialog")
	s.seed(w, data)
}

func (s *server) seed(w http.ResponseWriter, data []byte) {
	if _, err := cli.LoadPhoto(s.sess, data); err != nil {
		if errors.Is(err, imaging.ErrUnsupported) {
			httpError(w, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.sess.Snapshot())
}

// GET /api/download
// Streams the viewed artifact as an attachment.
func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	name, img, err := s.sess.Download()
	if err != nil {
		if errors.Is(err, session.ErrNoPhoto) {
			httpError(w, http.StatusNotFound, "no image to download")
			return
		}
		httpError(w, http.StatusInternalServerError, err.Error())
		return
	}

	contentType := img.MIMEType
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img.Data); err != nil {
		log.Debug().Err(err).Msg("Download interrupted")
	}
}
