// Package style holds the selectable hairstyle and outfit descriptors, the
// color palettes and per-slot color selections, and the composer that turns
// a style choice into the final edit instruction sent to the image model.
package style

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies what a generation changes.
type Kind string

const (
	KindHair    Kind = "hair"
	KindFashion Kind = "fashion"
	// KindMix is a free-text request that may touch hair and outfit at once.
	KindMix Kind = "mix"
)

// ErrUnknownKind is returned for kinds outside hair/fashion/mix, and for
// KindMix where only catalog kinds are accepted.
var ErrUnknownKind = errors.New("unknown style kind")

// ParseKind converts user input ("hair", "Fashion", ...) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindHair:
		return KindHair, nil
	case KindFashion:
		return KindFashion, nil
	case KindMix:
		return KindMix, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// WantsSalons reports whether a generation of this kind triggers a salon lookup.
func (k Kind) WantsSalons() bool {
	return k == KindHair || k == KindMix
}

// WantsShopping reports whether a generation of this kind triggers a shopping lookup.
func (k Kind) WantsShopping() bool {
	return k == KindFashion || k == KindMix
}

// Instruction builds the base edit instruction for a catalog descriptor.
// Mix requests carry the user's own text and are returned as-is.
func Instruction(kind Kind, descriptor string) string {
	switch kind {
	case KindHair:
		return "Change hair to " + descriptor
	case KindFashion:
		return "Change outfit to " + descriptor
	default:
		return descriptor
	}
}
