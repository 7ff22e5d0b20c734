package style

// Color is one named swatch. Value is the hex string the presentation layer
// sends back when the swatch is picked.
type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Palette is an ordered set of swatches with a value → name index.
type Palette struct {
	colors []Color
	names  map[string]string
}

// NewPalette indexes colors by value. Later duplicates of a value win.
func NewPalette(colors ...Color) *Palette {
	p := &Palette{
		colors: append([]Color(nil), colors...),
		names:  make(map[string]string, len(colors)),
	}
	for _, c := range colors {
		p.names[c.Value] = c.Name
	}
	return p
}

// Colors returns the swatches in display order.
func (p *Palette) Colors() []Color {
	return append([]Color(nil), p.colors...)
}

// Name resolves a swatch value to its display name.
func (p *Palette) Name(value string) (string, bool) {
	name, ok := p.names[value]
	return name, ok
}

// Resolve accepts either a swatch value or a display name (case-sensitive)
// and returns the swatch value. Used by the CLI where typing names is easier.
func (p *Palette) Resolve(s string) (string, bool) {
	if _, ok := p.names[s]; ok {
		return s, true
	}
	for _, c := range p.colors {
		if c.Name == s {
			return c.Value, true
		}
	}
	return "", false
}

// HairPalette lists the hair dye colors.
var HairPalette = NewPalette(
	Color{Name: "Natural Black", Value: "#1a1a1a"},
	Color{Name: "Dark Brown", Value: "#3e2723"},
	Color{Name: "Chestnut", Value: "#795548"},
	Color{Name: "Golden Blonde", Value: "#fdd835"},
	Color{Name: "Platinum", Value: "#f5f5f5"},
	Color{Name: "Burgundy Red", Value: "#880e4f"},
	Color{Name: "Copper", Value: "#bf360c"},
	Color{Name: "Silver Grey", Value: "#9e9e9e"},
	Color{Name: "Pastel Pink", Value: "#f8bbd0"},
	Color{Name: "Electric Blue", Value: "#1565c0"},
)

// ClothingPalette lists the colors for the top and bottom slots.
var ClothingPalette = NewPalette(
	Color{Name: "Classic White", Value: "#ffffff"},
	Color{Name: "Midnight Black", Value: "#000000"},
	Color{Name: "Navy Blue", Value: "#0d47a1"},
	Color{Name: "Ruby Red", Value: "#b71c1c"},
	Color{Name: "Emerald Green", Value: "#1b5e20"},
	Color{Name: "Sunny Yellow", Value: "#fbc02d"},
	Color{Name: "Royal Purple", Value: "#4a148c"},
	Color{Name: "Soft Beige", Value: "#d7ccc8"},
	Color{Name: "Hot Pink", Value: "#e91e63"},
	Color{Name: "Charcoal Grey", Value: "#424242"},
)

// PaletteFor returns the palette a slot draws from.
func PaletteFor(slot Slot) *Palette {
	if slot == SlotHair {
		return HairPalette
	}
	return ClothingPalette
}
