// Package auth resolves and validates the Gemini API key.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	credentialDir  = ".trendgenie"
	credentialFile = "credentials.gpg"

	// passphraseEnv names a file holding the GPG passphrase, for running
	// without an agent (e.g. under a service manager).
	passphraseEnv = "TRENDGENIE_GPG_PASSPHRASE_FILE"
)

// ErrNoAPIKey is returned when neither the environment nor the credentials
// file provides a key.
var ErrNoAPIKey = errors.New("API key not found: set GEMINI_API_KEY or create ~/" + credentialDir + "/" + credentialFile)

// GetAPIKey returns the Gemini API key from, in order:
//  1. GEMINI_API_KEY
//  2. the GPG-encrypted file ~/.trendgenie/credentials.gpg
func GetAPIKey(ctx context.Context) (string, error) {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		log.Debug().Msg("Using API key from environment variable")
		return key, nil
	}

	key, err := getFromGPG(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("No API key in GPG credentials")
		return "", fmt.Errorf("%w (%v)", ErrNoAPIKey, err)
	}
	if key == "" {
		return "", ErrNoAPIKey
	}
	log.Debug().Msg("Using API key from GPG encrypted file")
	return key, nil
}

func getFromGPG(ctx context.Context) (string, error) {
	credPath, err := getCredentialPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(credPath); err != nil {
		return "", fmt.Errorf("GPG credentials file not found at %s", credPath)
	}

	args := []string{"--decrypt", "--quiet"}
	if p := os.Getenv(passphraseEnv); p != "" {
		ok, err := ownerOnly(p)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("passphrase_file", p).Msg("Cannot read passphrase file; skipping")
		case !ok:
			log.Warn().Str("passphrase_file", p).Msg("Passphrase file has insecure permissions (should be 0600); skipping")
		default:
			args = append(args, "--pinentry-mode", "loopback", "--passphrase-file", p)
		}
	}
	args = append(args, credPath)

	log.Debug().Str("file", credPath).Msg("Decrypting GPG credentials")
	out, err := exec.CommandContext(ctx, "gpg", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("GPG decryption failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("GPG decryption failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ownerOnly reports whether path is readable by its owner alone.
func ownerOnly(path string) (bool, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return fi.Mode().Perm()&0077 == 0, nil
}

func getCredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, credentialDir, credentialFile), nil
}
