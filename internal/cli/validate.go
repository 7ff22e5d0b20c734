package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fpang/trendgenie/internal/auth"
	"github.com/rs/zerolog/log"
)

// ValidatePhotoPath checks that path names a regular file and returns its
// absolute form.
func ValidatePhotoPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("photo not found: %s", path)
		}
		return "", fmt.Errorf("failed to access photo %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("photo path is a directory: %s", path)
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}

// HandleValidationError logs a failed API key check with advice matching
// its cause and exits.
func HandleValidationError(err error) {
	var validationErr *auth.ValidationError
	if !errors.As(err, &validationErr) {
		log.Fatal().Err(err).Msg("Unexpected error during API key validation")
	}

	switch validationErr.Type {
	case auth.ErrTypeInvalidKey:
		log.Fatal().Err(err).Msg("Invalid API key. Check GEMINI_API_KEY and try again")
	case auth.ErrTypeNetworkError:
		log.Fatal().Err(err).Msg("Network error. Check your internet connection")
	case auth.ErrTypeQuotaExceeded:
		log.Fatal().Err(err).Msg("Gemini quota exceeded. Try again later or check your usage limits")
	default:
		log.Fatal().Err(err).Msg("API key validation failed")
	}
	os.Exit(1)
}
