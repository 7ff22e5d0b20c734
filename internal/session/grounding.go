package session

import "sync"

// Result is one grounded link returned by a lookup.
type Result struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Location is a point the salon lookup searches around.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// List selects one of the two grounding result lists.
type List int

const (
	ListSalons List = iota
	ListShopping
)

func (l List) String() string {
	if l == ListShopping {
		return "shopping"
	}
	return "salons"
}

// Grounding holds the latest salon and shopping results. Every Clear starts a
// new epoch; lookups remember the epoch they were started in and hand it
// back to Deliver. It is safe for concurrent use.
type Grounding struct {
	mu        sync.Mutex
	salons    []Result
	shopping  []Result
	epoch     uint64
	dropStale bool
}

// NewGrounding returns empty lists. With dropStale set, Deliver ignores
// results from an epoch that has since been cleared.
func NewGrounding(dropStale bool) *Grounding {
	return &Grounding{dropStale: dropStale}
}

// Epoch returns the current epoch.
func (g *Grounding) Epoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch
}

// Clear empties both lists and starts a new epoch, returning it.
func (g *Grounding) Clear() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.salons = nil
	g.shopping = nil
	g.epoch++
	return g.epoch
}

// Deliver replaces one list with results found during epoch. It reports
// whether the results were applied.
func (g *Grounding) Deliver(epoch uint64, list List, results []Result) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.dropStale && epoch != g.epoch {
		return false
	}
	cp := append([]Result(nil), results...)
	switch list {
	case ListShopping:
		g.shopping = cp
	default:
		g.salons = cp
	}
	return true
}

// Salons returns a copy of the salon results.
func (g *Grounding) Salons() []Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Result(nil), g.salons...)
}

// Shopping returns a copy of the shopping results.
func (g *Grounding) Shopping() []Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Result(nil), g.shopping...)
}
