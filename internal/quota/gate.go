// Package quota limits how many styled images a user can generate before a
// subscription is required. The counter survives restarts through a Store.
package quota

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Limit is the number of free generations.
const Limit = 15

// ErrNotFound is returned by a Store that has never saved a count.
var ErrNotFound = errors.New("usage count not found")

// Store persists the usage count.
type Store interface {
	Load(ctx context.Context) (int, error)
	Save(ctx context.Context, count int) error
}

// Gate tracks successful generations against Limit.
type Gate struct {
	mu    sync.Mutex
	count int
	store Store
}

// Open reads the persisted count once. A missing, unreadable or negative
// value starts the counter at zero.
func Open(ctx context.Context, store Store) *Gate {
	g := &Gate{store: store}
	count, err := store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		log.Debug().Msg("No persisted usage count, starting at zero")
	case err != nil:
		log.Warn().Err(err).Msg("Failed to load usage count, starting at zero")
	case count < 0:
		log.Warn().Int("count", count).Msg("Negative usage count, starting at zero")
	default:
		g.count = count
	}
	log.Info().Int("count", g.count).Int("limit", Limit).Msg("Usage quota loaded")
	return g
}

// CanGenerate reports whether another generation is allowed.
func (g *Gate) CanGenerate() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count < Limit
}

// Admit is CanGenerate under the name the generation flow uses.
func (g *Gate) Admit() bool { return g.CanGenerate() }

// Count returns the number of successful generations so far.
func (g *Gate) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

// Remaining returns how many free generations are left.
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return max(Limit-g.count, 0)
}

// RecordSuccess increments the counter and persists it. The in-memory count
// moves even when persisting fails.
func (g *Gate) RecordSuccess(ctx context.Context) error {
	return g.Persist(ctx, g.Consume())
}

// Consume increments the in-memory counter and returns the new value for
// Persist. Callers that admit and consume under one lock use it to keep the
// counter from passing Limit.
func (g *Gate) Consume() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count++
	return g.count
}

// Persist saves count, a value returned by Consume.
func (g *Gate) Persist(ctx context.Context, count int) error {
	if err := g.store.Save(ctx, count); err != nil {
		return fmt.Errorf("failed to persist usage count %d: %w", count, err)
	}
	return nil
}

// Reset sets the counter back to zero, as after a subscription.
func (g *Gate) Reset(ctx context.Context) error {
	g.mu.Lock()
	g.count = 0
	g.mu.Unlock()

	if err := g.store.Save(ctx, 0); err != nil {
		return fmt.Errorf("failed to persist usage reset: %w", err)
	}
	log.Info().Msg("Usage quota reset")
	return nil
}
