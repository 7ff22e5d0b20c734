// Package imaging prepares uploaded photos for the image model: it detects
// the format, shrinks oversized photos, and reads the GPS position the
// camera recorded.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"

	"github.com/evanoberholster/imagemeta"
	"github.com/evanoberholster/imagemeta/meta"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // registers the WebP decoder
)

// MaxDimension is the longest edge sent to the model. Larger photos only
// add upload time and tokens.
const MaxDimension = 1536

// MaxPixels bounds width times height of an upload before it is decoded.
const MaxPixels = 50_000_000

// jpegQuality is used when a resized photo is re-encoded as JPEG.
const jpegQuality = 90

// ErrUnsupported is returned for data that is not a JPEG, PNG or WebP image.
var ErrUnsupported = errors.New("unsupported image format")

// ErrTooLarge is returned when the image header declares more than MaxPixels.
var ErrTooLarge = errors.New("image dimensions too large")

// Photo is an upload ready to send: encoded bytes and their MIME type.
type Photo struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
	Resized  bool
}

// DetectMIME sniffs the image type of data.
func DetectMIME(data []byte) (string, error) {
	mime := http.DetectContentType(data)
	switch mime {
	case "image/jpeg", "image/png", "image/webp":
		return mime, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupported, mime)
}

// Prepare validates data and downscales it so neither edge exceeds
// maxDimension, keeping the aspect ratio. The EXIF orientation is applied
// to the pixels. Photos already small enough and upright are returned byte
// for byte. Other photos are re-encoded as PNG when the source was PNG and
// as JPEG otherwise.
func Prepare(data []byte, maxDimension int) (Photo, error) {
	mime, err := DetectMIME(data)
	if err != nil {
		return Photo{}, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Photo{}, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Photo{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Photo{}, fmt.Errorf("failed to decode image: %w", err)
	}

	orientation := readOrientation(data, mime)
	img = applyOrientation(img, orientation)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	newWidth, newHeight := fitDimensions(width, height, maxDimension)
	if newWidth == width && newHeight == height && orientation == meta.OrientationHorizontal {
		return Photo{Data: data, MIMEType: mime, Width: width, Height: height}, nil
	}

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	outMIME := "image/jpeg"
	if mime == "image/png" {
		outMIME = "image/png"
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return Photo{}, fmt.Errorf("failed to encode resized image: %w", err)
	}

	log.Debug().
		Int("orig_width", width).
		Int("orig_height", height).
		Int("new_width", newWidth).
		Int("new_height", newHeight).
		Int("output_size", buf.Len()).
		Stringer("orientation", orientation).
		Msg("Photo prepared")

	return Photo{Data: buf.Bytes(), MIMEType: outMIME, Width: newWidth, Height: newHeight, Resized: true}, nil
}

// fitDimensions scales width x height down so the longer edge is at most
// maxDimension. maxDimension <= 0 disables scaling.
func fitDimensions(width, height, maxDimension int) (int, int) {
	if maxDimension <= 0 || (width <= maxDimension && height <= maxDimension) {
		return width, height
	}
	if width > height {
		return maxDimension, max(1, int(float64(height)*float64(maxDimension)/float64(width)))
	}
	return max(1, int(float64(width)*float64(maxDimension)/float64(height))), maxDimension
}

// readOrientation returns the EXIF orientation of a JPEG, or
// OrientationHorizontal when there is none.
func readOrientation(data []byte, mime string) meta.Orientation {
	if mime != "image/jpeg" {
		return meta.OrientationHorizontal
	}
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil || exifData.Orientation < meta.OrientationHorizontal || exifData.Orientation > meta.OrientationRotate270 {
		return meta.OrientationHorizontal
	}
	return exifData.Orientation
}

// applyOrientation returns img transformed so it displays upright.
func applyOrientation(img image.Image, o meta.Orientation) image.Image {
	if o <= meta.OrientationHorizontal || o > meta.OrientationRotate270 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if o >= meta.OrientationMirrorHorizontalRotate270 {
		dw, dh = h, w
	}

	// source maps a destination pixel to the source pixel it shows.
	source := func(x, y int) (int, int) {
		switch o {
		case meta.OrientationMirrorHorizontal:
			return w - 1 - x, y
		case meta.OrientationRotate180:
			return w - 1 - x, h - 1 - y
		case meta.OrientationMirrorVertical:
			return x, h - 1 - y
		case meta.OrientationMirrorHorizontalRotate270:
			return y, x
		case meta.OrientationRotate90:
			return y, h - 1 - x
		case meta.OrientationMirrorHorizontalRotate90:
			return w - 1 - y, h - 1 - x
		default: // OrientationRotate270
			return w - 1 - y, x
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			sx, sy := source(x, y)
			dst.Set(x, y, img.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}

// ExtractLocation returns the GPS position stored in the photo's EXIF data.
// ok is false when the photo has no EXIF block or no position.
func ExtractLocation(data []byte) (lat, lon float64, ok bool) {
	exifData, err := imagemeta.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debug().Err(err).Msg("No EXIF metadata in photo")
		return 0, 0, false
	}

	gps := exifData.GPS
	lat, lon = gps.Latitude(), gps.Longitude()
	if lat == 0 && lon == 0 {
		return 0, 0, false
	}
	log.Debug().Float64("latitude", lat).Float64("longitude", lon).Msg("Photo has GPS position")
	return lat, lon, true
}
