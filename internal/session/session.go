package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fpang/trendgenie/internal/metrics"
	"github.com/fpang/trendgenie/internal/quota"
	"github.com/fpang/trendgenie/internal/style"
)

const (
	// DefaultErrorRecovery is how long a failed generation stays in
	// StatusError before the session returns to StatusIdle.
	DefaultErrorRecovery = 3 * time.Second

	// DefaultLookupTimeout bounds each detached grounding lookup.
	DefaultLookupTimeout = 60 * time.Second

	originalPrompt = "Original Photo"
)

var (
	ErrBusy             = errors.New("a generation is already in progress")
	ErrNoPhoto          = errors.New("no photo has been uploaded")
	ErrInvalidPrompt    = errors.New("invalid style prompt")
	ErrGenerationFailed = errors.New("image generation failed")

	// ErrSessionReset is returned when the photo was replaced or the session
	// reset while a generation was running; its result is discarded.
	ErrSessionReset = errors.New("session was reset during generation")
)

// Outcome tells a caller of Generate which path was taken.
type Outcome int

const (
	// OutcomeNone accompanies a non-nil error.
	OutcomeNone Outcome = iota
	OutcomeComplete
	// OutcomePaywall means the free quota is used up; nothing was generated.
	OutcomePaywall
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomePaywall:
		return "paywall"
	default:
		return "none"
	}
}

// Generator edits source according to prompt and returns the new image.
type Generator interface {
	GenerateStyleImage(ctx context.Context, source Image, prompt string) (Image, error)
}

// SalonFinder looks up salons near loc that offer query.
type SalonFinder interface {
	FindNearbySalons(ctx context.Context, loc Location, query string) ([]Result, error)
}

// ShoppingFinder looks up places to buy the look described by query.
type ShoppingFinder interface {
	FindShoppingLinks(ctx context.Context, query string) ([]Result, error)
}

// Services are the model-backed collaborators. Only Generator is required;
// a nil finder or suggester disables that feature.
type Services struct {
	Generator Generator
	Salons    SalonFinder
	Shopping  ShoppingFinder
	Suggester style.Suggester
}

// Options tune a Session. Zero values select the defaults.
type Options struct {
	ErrorRecovery      time.Duration
	LookupTimeout      time.Duration
	// DropStaleGrounding discards lookup results that arrive after the user
	// navigated away or started another generation. By default late results
	// are still shown.
	DropStaleGrounding bool
	Now                func() time.Time
	NewID              func() string
}

func (o Options) withDefaults() Options {
	if o.ErrorRecovery <= 0 {
		o.ErrorRecovery = DefaultErrorRecovery
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = DefaultLookupTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Session is one user's editing session. All methods are safe for
// concurrent use; model calls are made without holding the session lock.
type Session struct {
	mu sync.Mutex

	services  Services
	gate      *quota.Gate
	catalog   *style.Catalog
	grounding *Grounding
	opts      Options

	history   History
	status    Status
	lastError string
	colors    style.Selection
	location  *Location
	paywall   bool

	// generation is bumped by every Generate, Seed and Reset. A recovery
	// timer or an in-flight generation only applies its result when the
	// counter still matches.
	generation uint64

	lookups sync.WaitGroup
}

// New creates an empty session.
func New(services Services, gate *quota.Gate, catalog *style.Catalog, opts Options) *Session {
	opts = opts.withDefaults()
	if catalog == nil {
		catalog = style.NewCatalog()
	}
	return &Session{
		services:  services,
		gate:      gate,
		catalog:   catalog,
		grounding: NewGrounding(opts.DropStaleGrounding),
		opts:      opts,
	}
}

// Seed replaces the history with the uploaded photo.
func (s *Session) Seed(img Image) error {
	if img.Empty() {
		return fmt.Errorf("%w: image is empty", ErrNoPhoto)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = Seed(Artifact{
		ID:        OriginalID,
		Image:     img,
		Prompt:    originalPrompt,
		Kind:      style.KindMix,
		CreatedAt: s.opts.Now(),
	})
	s.generation++
	s.status = StatusIdle
	s.lastError = ""
	s.grounding.Clear()

	log.Info().
		Str("mime_type", img.MIMEType).
		Int("size_bytes", len(img.Data)).
		Msg("Photo uploaded")
	return nil
}

// Generate runs one edit of the viewed artifact. kind selects how colors are
// phrased and which grounding lookups follow; base is the unembellished style
// instruction and doubles as the lookup query.
func (s *Session) Generate(ctx context.Context, kind style.Kind, base string) (Outcome, error) {
	if _, err := style.ParseKind(string(kind)); err != nil {
		return OutcomeNone, fmt.Errorf("%w: %w", ErrInvalidPrompt, err)
	}

	s.mu.Lock()
	if !s.gate.Admit() {
		s.paywall = true
		s.mu.Unlock()
		log.Info().Int("usage", s.gate.Count()).Msg("Generation blocked by usage quota")
		recordGeneration(kind, "paywall", 0)
		return OutcomePaywall, nil
	}
	if s.status == StatusGenerating {
		s.mu.Unlock()
		return OutcomeNone, ErrBusy
	}
	source, ok := s.history.Current()
	if !ok {
		s.mu.Unlock()
		return OutcomeNone, ErrNoPhoto
	}
	if strings.TrimSpace(base) == "" {
		s.mu.Unlock()
		return OutcomeNone, fmt.Errorf("%w: %s request needs a description", ErrInvalidPrompt, kind)
	}

	s.generation++
	gen := s.generation
	s.status = StatusGenerating
	s.lastError = ""
	epoch := s.grounding.Clear()
	snapshot := s.history
	prompt := style.Compose(kind, base, s.colors)
	var loc *Location
	if s.location != nil {
		l := *s.location
		loc = &l
	}
	s.mu.Unlock()

	log.Info().
		Str("kind", string(kind)).
		Str("source_id", source.ID).
		Int("prompt_length", len(prompt)).
		Msg("Starting generation")

	start := time.Now()
	img, err := s.services.Generator.GenerateStyleImage(ctx, source.Image, prompt)
	if err == nil && img.Empty() {
		err = errors.New("model returned no image")
	}
	if err != nil {
		s.fail(gen, err)
		recordGeneration(kind, "failure", time.Since(start))
		return OutcomeNone, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	artifact := Artifact{
		ID:        s.opts.NewID(),
		Image:     img,
		Prompt:    prompt,
		Kind:      kind,
		CreatedAt: s.opts.Now(),
	}
	next, err := snapshot.Append(artifact)
	if err != nil {
		// snapshot always has the source artifact.
		return OutcomeNone, fmt.Errorf("failed to record artifact: %w", err)
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		log.Warn().Str("artifact_id", artifact.ID).Msg("Discarding generation result after session reset")
		return OutcomeNone, ErrSessionReset
	}
	s.history = next
	s.status = StatusComplete
	// The slot is taken before the lock is released so a concurrent Generate
	// sees the new count in its admission check.
	used := s.gate.Consume()
	// Lookups for the artifact now on screen.
	epoch = s.grounding.Clear()
	s.mu.Unlock()

	// The count is saved even when ctx is already canceled.
	if err := s.gate.Persist(context.WithoutCancel(ctx), used); err != nil {
		log.Warn().Err(err).Msg("Failed to persist usage count")
	}

	log.Info().
		Str("kind", string(kind)).
		Str("artifact_id", artifact.ID).
		Int("history_len", next.Len()).
		Dur("duration", time.Since(start)).
		Msg("Generation complete")
	recordGeneration(kind, "success", time.Since(start))

	s.startLookups(ctx, epoch, kind, base, loc)
	return OutcomeComplete, nil
}

// fail moves the session into StatusError and schedules the return to idle.
func (s *Session) fail(gen uint64, cause error) {
	s.mu.Lock()
	if s.generation == gen {
		s.status = StatusError
		s.lastError = cause.Error()
	}
	s.mu.Unlock()

	log.Error().Err(cause).Dur("recovery", s.opts.ErrorRecovery).Msg("Generation failed")

	time.AfterFunc(s.opts.ErrorRecovery, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen && s.status == StatusError {
			s.status = StatusIdle
			s.lastError = ""
		}
	})
}

func (s *Session) startLookups(ctx context.Context, epoch uint64, kind style.Kind, query string, loc *Location) {
	if kind.WantsSalons() && s.services.Salons != nil {
		if loc == nil {
			log.Debug().Msg("No location known, skipping salon lookup")
		} else {
			l := *loc
			s.lookup(ctx, epoch, ListSalons, func(ctx context.Context) ([]Result, error) {
				return s.services.Salons.FindNearbySalons(ctx, l, query)
			})
		}
	}
	if kind.WantsShopping() && s.services.Shopping != nil {
		s.lookup(ctx, epoch, ListShopping, func(ctx context.Context) ([]Result, error) {
			return s.services.Shopping.FindShoppingLinks(ctx, query)
		})
	}
}

// lookup runs fn on its own goroutine, detached from the caller's
// cancellation. Errors leave the list empty and are only logged.
func (s *Session) lookup(parent context.Context, epoch uint64, list List, fn func(context.Context) ([]Result, error)) {
	s.lookups.Add(1)
	go func() {
		defer s.lookups.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.opts.LookupTimeout)
		defer cancel()

		start := time.Now()
		results, err := fn(ctx)
		if err != nil {
			log.Warn().Err(err).Str("list", list.String()).Dur("duration", time.Since(start)).Msg("Grounding lookup failed")
			return
		}
		applied := s.grounding.Deliver(epoch, list, results)
		log.Debug().
			Str("list", list.String()).
			Int("results", len(results)).
			Bool("applied", applied).
			Dur("duration", time.Since(start)).
			Msg("Grounding lookup finished")
	}()
}

// Wait blocks until every grounding lookup started so far has finished.
func (s *Session) Wait() {
	s.lookups.Wait()
}

// Navigate moves through the history by delta. Grounding results are
// cleared whenever the viewed artifact changes.
func (s *Session) Navigate(delta int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := s.history.Navigate(delta)
	if !changed {
		return false
	}
	s.history = next
	s.grounding.Clear()
	return true
}

// Reset discards the photo, the history, the color selection and the
// grounding results. The usage count and location are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = s.history.Reset()
	s.generation++
	s.status = StatusIdle
	s.lastError = ""
	s.colors = style.Selection{}
	s.grounding.Clear()
	log.Info().Msg("Session reset")
}

// SelectColor toggles value in slot and returns the new selection.
func (s *Session) SelectColor(slot style.Slot, value string) style.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors = s.colors.Select(slot, value)
	return s.colors
}

// ClearColor unsets slot and returns the new selection.
func (s *Session) ClearColor(slot style.Slot) style.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors = s.colors.Clear(slot)
	return s.colors
}

// Colors returns the current selection.
func (s *Session) Colors() style.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.colors
}

// SetLocation records where the user is, enabling salon lookups.
func (s *Session) SetLocation(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &loc
}

// Location returns the recorded location.
func (s *Session) Location() (Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return Location{}, false
	}
	return *s.location, true
}

// RequestMore grows the style catalog for kind.
func (s *Session) RequestMore(ctx context.Context, kind style.Kind) (style.Expansion, error) {
	suggester := s.services.Suggester
	if suggester == nil {
		suggester = noSuggestions{}
	}
	return s.catalog.RequestMore(ctx, kind, suggester)
}

// Catalog exposes the style catalog.
func (s *Session) Catalog() *style.Catalog {
	return s.catalog
}

// Subscribe resets the usage quota and hides the paywall.
func (s *Session) Subscribe(ctx context.Context) error {
	err := s.gate.Reset(ctx)

	s.mu.Lock()
	s.paywall = false
	s.mu.Unlock()

	recordSubscription()
	return err
}

// DismissPaywall hides the paywall without resetting the quota.
func (s *Session) DismissPaywall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paywall = false
}

type noSuggestions struct{}

func (noSuggestions) SuggestMoreStyles(ctx context.Context, existing []string, kind style.Kind) ([]string, error) {
	return nil, errors.New("style suggestions are not configured")
}

func recordGeneration(kind style.Kind, result string, d time.Duration) {
	m := metrics.New(metrics.Namespace).
		Dimension("Kind", string(kind)).
		Dimension("Result", result).
		Count("GenerationResult")
	if d > 0 {
		m.Duration("GenerationLatencyMs", d)
	}
	m.Flush()
}

func recordSubscription() {
	metrics.New(metrics.Namespace).Count("Subscription").Flush()
}
