package style

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeSuggester returns a fixed batch, optionally blocking until released.
type fakeSuggester struct {
	calls   atomic.Int32
	batch   []string
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeSuggester) SuggestMoreStyles(ctx context.Context, existing []string, kind Kind) ([]string, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	return f.batch, f.err
}

func TestCatalog_InitialVisible(t *testing.T) {
	c := NewCatalog()
	if got := len(c.Visible(KindHair)); got != PageSize {
		t.Errorf("expected %d visible hair styles, got %d", PageSize, got)
	}
	if got := len(c.All(KindFashion)); got != len(DefaultFashionStyles) {
		t.Errorf("expected %d fashion styles, got %d", len(DefaultFashionStyles), got)
	}
}

func TestCatalog_RevealDoesNotCallSuggester(t *testing.T) {
	c := NewCatalog()
	s := &fakeSuggester{batch: []string{"New"}}

	exp, err := c.RequestMore(context.Background(), KindHair, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp != ExpansionRevealed {
		t.Errorf("expected revealed, got %s", exp)
	}
	if got := len(c.Visible(KindHair)); got != 8 {
		t.Errorf("expected 8 visible, got %d", got)
	}
	if s.calls.Load() != 0 {
		t.Errorf("expected no suggester calls, got %d", s.calls.Load())
	}

	// 10 styles: second reveal is capped at the list length.
	c.RequestMore(context.Background(), KindHair, s)
	if got := len(c.Visible(KindHair)); got != 10 {
		t.Errorf("expected 10 visible, got %d", got)
	}
	if s.calls.Load() != 0 {
		t.Errorf("expected no suggester calls, got %d", s.calls.Load())
	}
	if c.CanReveal(KindHair) {
		t.Error("expected hair catalog to be exhausted")
	}
}

func TestCatalog_FetchAppendsWhenExhausted(t *testing.T) {
	c := NewCatalogWith([]string{"A", "B"}, []string{"F"}, 2)
	s := &fakeSuggester{batch: []string{"C", "D", "E"}}

	exp, err := c.RequestMore(context.Background(), KindHair, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp != ExpansionFetched {
		t.Errorf("expected fetched, got %s", exp)
	}
	visible := c.Visible(KindHair)
	if len(visible) != 5 || visible[4] != "E" {
		t.Errorf("expected [A B C D E], got %v", visible)
	}
	if c.Loading(KindHair) {
		t.Error("busy flag should be cleared")
	}
	if got := c.Visible(KindFashion); len(got) != 1 {
		t.Errorf("fashion should be untouched, got %v", got)
	}
}

func TestCatalog_FailureLeavesStateUnchanged(t *testing.T) {
	c := NewCatalogWith([]string{"A"}, nil, 1)

	for _, s := range []*fakeSuggester{
		{err: errors.New("boom")},
		{batch: nil},
	} {
		exp, err := c.RequestMore(context.Background(), KindHair, s)
		if err != nil {
			t.Fatalf("failures should not surface, got %v", err)
		}
		if exp != ExpansionUnchanged {
			t.Errorf("expected unchanged, got %s", exp)
		}
		if got := c.All(KindHair); len(got) != 1 {
			t.Errorf("expected list unchanged, got %v", got)
		}
		if c.Loading(KindHair) {
			t.Error("busy flag must be released after failure")
		}
	}

	// A later call still reaches the suggester.
	ok := &fakeSuggester{batch: []string{"B"}}
	if exp, _ := c.RequestMore(context.Background(), KindHair, ok); exp != ExpansionFetched {
		t.Errorf("expected fetched after failures, got %s", exp)
	}
}

func TestCatalog_ConcurrentFetchIsGated(t *testing.T) {
	c := NewCatalogWith([]string{"A"}, []string{"F"}, 1)
	s := &fakeSuggester{
		batch:   []string{"B", "C"},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	var first Expansion
	go func() {
		defer wg.Done()
		first, _ = c.RequestMore(context.Background(), KindHair, s)
	}()

	select {
	case <-s.started:
	case <-time.After(2 * time.Second):
		t.Fatal("suggester was not called")
	}

	if !c.Loading(KindHair) {
		t.Error("expected hair to be loading")
	}
	second, err := c.RequestMore(context.Background(), KindHair, s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != ExpansionBusy {
		t.Errorf("expected busy for overlapping call, got %s", second)
	}

	close(s.release)
	wg.Wait()

	if first != ExpansionFetched {
		t.Errorf("expected first call to fetch, got %s", first)
	}
	if n := s.calls.Load(); n != 1 {
		t.Errorf("expected exactly one suggester call, got %d", n)
	}
	if got := c.All(KindHair); len(got) != 3 {
		t.Errorf("expected one appended batch, got %v", got)
	}
}

func TestCatalog_KindsAreIndependent(t *testing.T) {
	c := NewCatalogWith([]string{"A"}, []string{"F"}, 1)
	hair := &fakeSuggester{
		batch:   []string{"B"},
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	go c.RequestMore(context.Background(), KindHair, hair)
	<-hair.started

	fashion := &fakeSuggester{batch: []string{"G"}}
	exp, _ := c.RequestMore(context.Background(), KindFashion, fashion)
	if exp != ExpansionFetched {
		t.Errorf("fashion expansion should not wait for hair, got %s", exp)
	}
	close(hair.release)
}

func TestCatalog_MixHasNoCatalog(t *testing.T) {
	c := NewCatalog()
	_, err := c.RequestMore(context.Background(), KindMix, &fakeSuggester{})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if c.Visible(KindMix) != nil {
		t.Error("expected no visible mix styles")
	}
}
