package chat

import "github.com/fpang/trendgenie/internal/logging"

// Gemini model IDs used by TrendGenie.
//
// | Use                             | Default model            | Override            |
// |---------------------------------|--------------------------|---------------------|
// | Salon/shopping search, styles   | gemini-2.5-flash         | GEMINI_MODEL        |
// | Hairstyle and outfit edits      | gemini-2.5-flash-image   | GEMINI_IMAGE_MODEL  |
const (
	// ModelGemini25Flash is stable, balanced, and supports Maps and Search grounding.
	ModelGemini25Flash = "gemini-2.5-flash"

	// ModelGemini25FlashLite is for high-throughput, lowest cost text calls.
	ModelGemini25FlashLite = "gemini-2.5-flash-lite"

	// ModelGemini25FlashImage edits images from a photo plus instruction.
	ModelGemini25FlashImage = "gemini-2.5-flash-image"

	// ModelGemini3ProImage is the higher quality, slower image model.
	ModelGemini3ProImage = "gemini-3-pro-image-preview"
)

const (
	// DefaultModelName is the text model for grounded lookups and suggestions.
	DefaultModelName = ModelGemini25Flash

	// DefaultImageModelName is the model that produces styled images.
	DefaultImageModelName = ModelGemini25FlashImage
)

// GetModelName returns GEMINI_MODEL, or DefaultModelName when unset.
func GetModelName() string {
	return logging.EnvOrDefault("GEMINI_MODEL", DefaultModelName)
}

// GetImageModelName returns GEMINI_IMAGE_MODEL, or DefaultImageModelName
// when unset.
func GetImageModelName() string {
	return logging.EnvOrDefault("GEMINI_IMAGE_MODEL", DefaultImageModelName)
}
