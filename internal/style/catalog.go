package style

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// PageSize is how many descriptors one local reveal uncovers.
const PageSize = 4

// DefaultHairStyles seeds the hair list.
var DefaultHairStyles = []string{
	"Modern Bob Cut",
	"Long Wavy Layers",
	"Pixie Cut",
	"Curtain Bangs",
	"Sleek High Ponytail",
	"Messy Bun",
	"Braided Crown",
	"Asymmetrical Cut",
	"Afro Texture",
	"Side Swept Bangs",
}

// DefaultFashionStyles seeds the fashion list.
var DefaultFashionStyles = []string{
	"Smart Casual Blazer",
	"Bohemian Floral Dress",
	"Streetwear Hoodie & Jeans",
	"Elegant Evening Gown",
	"Business Professional Suit",
	"Summer Maxi Dress",
	"Chic Leather Jacket",
	"Vintage Denim Look",
	"Minimalist Linen Outfit",
	"Athleisure Wear",
}

// Suggester proposes descriptors that are not yet in existing.
type Suggester interface {
	SuggestMoreStyles(ctx context.Context, existing []string, kind Kind) ([]string, error)
}

// Expansion reports what a RequestMore call did.
type Expansion int

const (
	// ExpansionUnchanged: the suggestion call failed or returned nothing.
	ExpansionUnchanged Expansion = iota
	// ExpansionRevealed: already-known descriptors were made visible.
	ExpansionRevealed
	// ExpansionFetched: new descriptors were appended and made visible.
	ExpansionFetched
	// ExpansionBusy: a suggestion call for this kind is already in flight.
	ExpansionBusy
)

func (e Expansion) String() string {
	switch e {
	case ExpansionRevealed:
		return "revealed"
	case ExpansionFetched:
		return "fetched"
	case ExpansionBusy:
		return "busy"
	default:
		return "unchanged"
	}
}

type shelf struct {
	items   []string
	visible int
	busy    bool
}

// Catalog holds the growing hair and fashion descriptor lists and how much
// of each is currently shown. It is safe for concurrent use.
type Catalog struct {
	mu      sync.Mutex
	shelves map[Kind]*shelf
}

// NewCatalog seeds both lists with the built-in descriptors, one page visible.
func NewCatalog() *Catalog {
	return NewCatalogWith(DefaultHairStyles, DefaultFashionStyles, PageSize)
}

// NewCatalogWith seeds the catalog with custom lists.
func NewCatalogWith(hair, fashion []string, visible int) *Catalog {
	return &Catalog{
		shelves: map[Kind]*shelf{
			KindHair:    {items: append([]string(nil), hair...), visible: min(visible, len(hair))},
			KindFashion: {items: append([]string(nil), fashion...), visible: min(visible, len(fashion))},
		},
	}
}

func (c *Catalog) shelf(kind Kind) (*shelf, error) {
	s, ok := c.shelves[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q has no catalog", ErrUnknownKind, kind)
	}
	return s, nil
}

// Visible returns the descriptors currently shown for kind.
func (c *Catalog) Visible(kind Kind) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.shelf(kind)
	if err != nil {
		return nil
	}
	return append([]string(nil), s.items[:s.visible]...)
}

// All returns every known descriptor for kind, shown or not.
func (c *Catalog) All(kind Kind) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.shelf(kind)
	if err != nil {
		return nil
	}
	return append([]string(nil), s.items...)
}

// CanReveal reports whether the next RequestMore is a local reveal.
func (c *Catalog) CanReveal(kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.shelf(kind)
	return err == nil && s.visible < len(s.items)
}

// Loading reports whether a suggestion call for kind is in flight.
func (c *Catalog) Loading(kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.shelf(kind)
	return err == nil && s.busy
}

// RequestMore shows more descriptors for kind. Hidden descriptors are revealed
// a page at a time without calling suggester; once the list is exhausted the
// suggester is asked for new ones. Only one suggestion call per kind runs at a
// time; overlapping calls return ExpansionBusy. Suggestion failures leave the
// catalog untouched and are not returned.
func (c *Catalog) RequestMore(ctx context.Context, kind Kind, suggester Suggester) (Expansion, error) {
	c.mu.Lock()
	s, err := c.shelf(kind)
	if err != nil {
		c.mu.Unlock()
		return ExpansionUnchanged, err
	}

	if s.visible < len(s.items) {
		s.visible = min(s.visible+PageSize, len(s.items))
		log.Debug().
			Str("kind", string(kind)).
			Int("visible", s.visible).
			Int("total", len(s.items)).
			Msg("Revealed more styles")
		c.mu.Unlock()
		return ExpansionRevealed, nil
	}

	if s.busy {
		c.mu.Unlock()
		log.Debug().Str("kind", string(kind)).Msg("Style suggestion already in flight")
		return ExpansionBusy, nil
	}

	s.busy = true
	existing := append([]string(nil), s.items...)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		s.busy = false
		c.mu.Unlock()
	}()

	start := time.Now()
	added, err := suggester.SuggestMoreStyles(ctx, existing, kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Dur("duration", time.Since(start)).Msg("Style suggestion failed")
		return ExpansionUnchanged, nil
	}
	if len(added) == 0 {
		log.Info().Str("kind", string(kind)).Msg("Style suggestion returned no new styles")
		return ExpansionUnchanged, nil
	}

	c.mu.Lock()
	s.items = append(s.items, added...)
	s.visible = min(s.visible+len(added), len(s.items))
	total := len(s.items)
	c.mu.Unlock()

	log.Info().
		Str("kind", string(kind)).
		Int("added", len(added)).
		Int("total", total).
		Dur("duration", time.Since(start)).
		Msg("Appended suggested styles")
	return ExpansionFetched, nil
}

// ComboSuggestions returns n "<hair> with <fashion>" prompts drawn from the
// built-in lists, for seeding the free-text request box.
func ComboSuggestions(rng *rand.Rand, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		h := DefaultHairStyles[rng.IntN(len(DefaultHairStyles))]
		f := DefaultFashionStyles[rng.IntN(len(DefaultFashionStyles))]
		out = append(out, h+" with "+f)
	}
	return out
}
