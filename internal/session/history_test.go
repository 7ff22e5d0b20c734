package session

import (
	"errors"
	"testing"
)

func art(id string) Artifact { return Artifact{ID: id} }

func TestHistory_ZeroValueIsEmpty(t *testing.T) {
	var h History
	if h.Len() != 0 || h.Cursor() != -1 || h.State() != StateEmpty {
		t.Errorf("expected empty history, got len=%d cursor=%d state=%s", h.Len(), h.Cursor(), h.State())
	}
	if _, ok := h.Current(); ok {
		t.Error("expected no current artifact")
	}
	if _, err := h.Append(art("A")); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("expected ErrEmptyHistory, got %v", err)
	}
	if _, changed := h.Navigate(1); changed {
		t.Error("navigating an empty history should not change it")
	}
}

func TestHistory_BranchTruncation(t *testing.T) {
	h := Seed(art(OriginalID))
	if h.Cursor() != 0 || h.Len() != 1 || h.State() != StateViewing {
		t.Fatalf("unexpected seeded history: len=%d cursor=%d", h.Len(), h.Cursor())
	}

	h, _ = h.Append(art("A"))
	if h.Cursor() != 1 || h.Len() != 2 {
		t.Fatalf("after append A: len=%d cursor=%d", h.Len(), h.Cursor())
	}

	h, changed := h.Navigate(-1)
	if !changed || h.Cursor() != 0 || h.Len() != 2 {
		t.Fatalf("after navigate(-1): changed=%v len=%d cursor=%d", changed, h.Len(), h.Cursor())
	}

	h, _ = h.Append(art("B"))
	items := h.Items()
	if len(items) != 2 || items[0].ID != OriginalID || items[1].ID != "B" {
		t.Errorf("expected [original B], got %v", items)
	}
	if h.Cursor() != 1 {
		t.Errorf("expected cursor 1, got %d", h.Cursor())
	}
}

func TestHistory_AppendLengthIsCursorPlusTwo(t *testing.T) {
	h := Seed(art(OriginalID))
	for _, id := range []string{"A", "B", "C", "D"} {
		h, _ = h.Append(art(id))
	}
	for _, delta := range []int{-1, -2, -3} {
		at, _ := h.Navigate(delta)
		next, err := at.Append(art("X"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next.Len() != at.Cursor()+2 {
			t.Errorf("delta %d: expected len %d, got %d", delta, at.Cursor()+2, next.Len())
		}
		if cur, _ := next.Current(); cur.ID != "X" {
			t.Errorf("expected cursor on new artifact, got %s", cur.ID)
		}
	}
}

func TestHistory_IsImmutable(t *testing.T) {
	h := Seed(art(OriginalID))
	h, _ = h.Append(art("A"))
	h, _ = h.Append(art("B"))

	back, _ := h.Navigate(-1)
	branched, _ := back.Append(art("C"))

	if ids := idsOf(h.Items()); ids != "original,A,B" {
		t.Errorf("original history changed: %s", ids)
	}
	if ids := idsOf(back.Items()); ids != "original,A,B" {
		t.Errorf("navigated history changed: %s", ids)
	}
	if ids := idsOf(branched.Items()); ids != "original,A,C" {
		t.Errorf("unexpected branch: %s", ids)
	}
}

func TestHistory_NavigateClamps(t *testing.T) {
	h := Seed(art(OriginalID))
	h, _ = h.Append(art("A"))

	if _, changed := h.Navigate(1); changed {
		t.Error("expected no change at the end")
	}
	h, _ = h.Navigate(-5)
	if h.Cursor() != 0 {
		t.Errorf("expected clamp to 0, got %d", h.Cursor())
	}
	if h.CanBack() || !h.CanForward() {
		t.Errorf("expected canBack=false canForward=true, got %v %v", h.CanBack(), h.CanForward())
	}
	if _, changed := h.Navigate(-1); changed {
		t.Error("expected no change at the start")
	}
}

func TestHistory_Reset(t *testing.T) {
	h := Seed(art(OriginalID))
	h = h.Reset()
	if h.Len() != 0 || h.Cursor() != -1 {
		t.Errorf("expected empty after reset, got len=%d cursor=%d", h.Len(), h.Cursor())
	}
}

func idsOf(items []Artifact) string {
	s := ""
	for i, a := range items {
		if i > 0 {
			s += ","
		}
		s += a.ID
	}
	return s
}
