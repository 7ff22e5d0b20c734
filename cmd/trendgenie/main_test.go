package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fpang/trendgenie/internal/cli"
	"github.com/fpang/trendgenie/internal/quota"
	"github.com/fpang/trendgenie/internal/style"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRequestFor(t *testing.T) {
	tests := []struct {
		name     string
		opts     generateOptions
		wantKind style.Kind
		wantBase string
	}{
		{"hair", generateOptions{hair: " Pixie Cut "}, style.KindHair, "Change hair to Pixie Cut"},
		{"outfit", generateOptions{outfit: "Athleisure Wear"}, style.KindFashion, "Change outfit to Athleisure Wear"},
		{"prompt", generateOptions{prompt: "Red gown with bun"}, style.KindMix, "Red gown with bun"},
		{"nothing", generateOptions{}, style.KindMix, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, base := requestFor(tt.opts)
			if kind != tt.wantKind || base != tt.wantBase {
				t.Errorf("got (%s, %q), want (%s, %q)", kind, base, tt.wantKind, tt.wantBase)
			}
		})
	}
}

func TestResolveColors(t *testing.T) {
	sel, err := resolveColors("Copper", "#0d47a1", "Charcoal Grey")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := style.Selection{Hair: "#bf360c", Top: "#0d47a1", Bottom: "#424242"}
	if sel != want {
		t.Errorf("got %+v, want %+v", sel, want)
	}

	if _, err := resolveColors("", "Copper", ""); err == nil || !strings.Contains(err.Error(), "top") {
		t.Errorf("expected hair color rejected for top slot, got %v", err)
	}
	if sel, err := resolveColors("", "", ""); err != nil || sel != (style.Selection{}) {
		t.Errorf("expected empty selection, got %+v (%v)", sel, err)
	}
}

func TestSaveCurrent(t *testing.T) {
	ctx := context.Background()
	sess := cli.NewSession(ctx, nil, quota.NewMemoryStore(), cli.Config{})

	if _, err := saveCurrent(sess, filepath.Join(t.TempDir(), "x.png")); err == nil {
		t.Fatal("expected error without a photo")
	}

	var buf bytes.Buffer
	png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if _, err := cli.LoadPhoto(sess, buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	sess.SelectColor(style.SlotHair, "#bf360c")

	path := filepath.Join(t.TempDir(), "out", "look.png")
	got, err := saveCurrent(sess, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}
	data, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(data, buf.Bytes()) {
		t.Errorf("saved file differs from the original photo (%v)", err)
	}
}

func TestApplyColors(t *testing.T) {
	sess := cli.NewSession(context.Background(), nil, quota.NewMemoryStore(), cli.Config{})
	want := style.Selection{Hair: "#bf360c", Bottom: "#424242"}
	applyColors(sess, want)
	if got := sess.Colors(); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestColorsCommand(t *testing.T) {
	out, err := execute(t, "colors")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Golden Blonde", "#fdd835", "Navy Blue", "Clothing colors"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestStylesCommand(t *testing.T) {
	out, err := execute(t, "styles", "--kind", "fashion")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(style.DefaultFashionStyles) {
		t.Errorf("expected every built-in style listed, got %d lines", len(lines))
	}
	if !strings.Contains(out, "Athleisure Wear") {
		t.Errorf("expected Athleisure Wear in output, got %q", out)
	}

	if _, err := execute(t, "styles", "--kind", "mix"); err == nil {
		t.Error("expected error for mix kind")
	}
}

func TestUsageAndSubscribe(t *testing.T) {
	db := filepath.Join(t.TempDir(), "usage.db")
	store, err := quota.OpenSQLite(db)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	store.Close()

	out, err := execute(t, "usage", "--db", db)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Generations used: 9/15 (6 remaining)") {
		t.Errorf("unexpected usage output %q", out)
	}

	if _, err := execute(t, "subscribe", "--db", db); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, _ = execute(t, "usage", "--db", db)
	if !strings.Contains(out, "Generations used: 0/15") {
		t.Errorf("expected reset count, got %q", out)
	}
}
