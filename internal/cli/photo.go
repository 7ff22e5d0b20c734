package cli

import (
	"fmt"
	"os"

	"github.com/fpang/trendgenie/internal/imaging"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// PhotoPatterns are the file types offered by the native picker.
var PhotoPatterns = []string{"*.jpg", "*.jpeg", "*.png", "*.webp"}

// PickPhoto opens the native file dialog. A dismissed dialog returns
// zenity.ErrCanceled.
func PickPhoto() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Select a photo of yourself"),
		zenity.FileFilters{
			{Name: "Photos", Patterns: PhotoPatterns},
		},
	)
}

// ReadPhoto validates and reads the photo at path.
func ReadPhoto(path string) ([]byte, error) {
	abs, err := ValidatePhotoPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	return data, nil
}

// LoadPhoto prepares data for the model and seeds sess with it. If sess has
// no location yet, the GPS position in the photo's EXIF block is used.
func LoadPhoto(sess *session.Session, data []byte) (imaging.Photo, error) {
	photo, err := imaging.Prepare(data, imaging.MaxDimension)
	if err != nil {
		return imaging.Photo{}, err
	}

	if _, ok := sess.Location(); !ok {
		if lat, lon, ok := imaging.ExtractLocation(data); ok {
			sess.SetLocation(session.Location{Latitude: lat, Longitude: lon})
			log.Info().Msg("Using photo GPS position for salon search")
		}
	}

	if err := sess.Seed(session.Image{Data: photo.Data, MIMEType: photo.MIMEType}); err != nil {
		return imaging.Photo{}, err
	}

	log.Debug().
		Int("width", photo.Width).
		Int("height", photo.Height).
		Bool("resized", photo.Resized).
		Msg("Photo loaded")
	return photo, nil
}
