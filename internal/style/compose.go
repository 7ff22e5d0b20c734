package style

import "strings"

// Compose appends color clauses to base for the given kind. Clauses whose
// color is unset or not found in the slot's palette are skipped. The result
// depends only on its arguments.
func Compose(kind Kind, base string, sel Selection) string {
	hair, hasHair := HairPalette.Name(sel.Hair)
	top, hasTop := ClothingPalette.Name(sel.Top)
	bottom, hasBottom := ClothingPalette.Name(sel.Bottom)

	var b strings.Builder
	b.WriteString(base)

	switch kind {
	case KindHair:
		if hasHair {
			b.WriteString(", dyed " + hair)
		}
	case KindFashion:
		if hasTop {
			b.WriteString(", " + top + " top/dress")
		}
		if hasBottom {
			b.WriteString(", " + bottom + " bottoms/pants/skirt")
		}
	case KindMix:
		if hasHair {
			b.WriteString(", hair color " + hair)
		}
		if hasTop {
			b.WriteString(", " + top + " top")
		}
		if hasBottom {
			b.WriteString(", " + bottom + " bottom")
		}
	}

	return b.String()
}
