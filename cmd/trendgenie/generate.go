package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fpang/trendgenie/internal/auth"
	"github.com/fpang/trendgenie/internal/cli"
	"github.com/fpang/trendgenie/internal/logging"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/fpang/trendgenie/internal/style"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	photo  string
	pick   bool
	hair   string
	outfit string
	prompt string

	hairColor   string
	topColor    string
	bottomColor string

	lat float64
	lon float64
	out string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one new look from a photo",
		Long: `Generate edits a photo with one hairstyle (--hair), outfit (--outfit) or
free-text request (--prompt). Without any of them you are asked for a
request, with a random combination offered as the default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.photo, "photo", "p", "", "Photo to edit")
	f.BoolVar(&opts.pick, "pick", false, "Choose the photo with the native file dialog")
	f.StringVar(&opts.hair, "hair", "", `Hairstyle, e.g. "Pixie Cut"`)
	f.StringVar(&opts.outfit, "outfit", "", `Outfit, e.g. "Athleisure Wear"`)
	f.StringVar(&opts.prompt, "prompt", "", "Free-text request that may change hair and outfit")
	f.StringVar(&opts.hairColor, "hair-color", "", "Hair color name or hex value")
	f.StringVar(&opts.topColor, "top-color", "", "Top/dress color name or hex value")
	f.StringVar(&opts.bottomColor, "bottom-color", "", "Bottoms color name or hex value")
	f.Float64Var(&opts.lat, "lat", 0, "Latitude for salon search (default: photo GPS)")
	f.Float64Var(&opts.lon, "lon", 0, "Longitude for salon search (default: photo GPS)")
	f.StringVarP(&opts.out, "out", "o", "", "Output file (default: trendgenie-<kind>-<id>.<ext>)")

	cmd.MarkFlagsMutuallyExclusive("photo", "pick")
	cmd.MarkFlagsOneRequired("photo", "pick")
	cmd.MarkFlagsMutuallyExclusive("hair", "outfit", "prompt")
	cmd.MarkFlagsRequiredTogether("lat", "lon")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	start := time.Now()
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	sel, err := resolveColors(opts.hairColor, opts.topColor, opts.bottomColor)
	if err != nil {
		return err
	}

	path := opts.photo
	if opts.pick {
		path, err = cli.PickPhoto()
		if errors.Is(err, zenity.ErrCanceled) {
			fmt.Fprintln(out, "No photo selected.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("photo picker failed: %w", err)
		}
	}
	data, err := cli.ReadPhoto(path)
	if err != nil {
		return err
	}

	kind, base := requestFor(opts)
	if base == "" {
		rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
		base = cli.PromptForRequest(cmd.InOrStdin(), out, style.ComboSuggestions(rng, 1)[0])
	}

	store, storePath, closeStore, err := cli.OpenUsageStore(cfg.DBPath, cfg.Ephemeral)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := cli.InitGeminiService(ctx, cfg)
	sess := cli.NewSession(ctx, svc, store, cfg)
	if cmd.Flags().Changed("lat") {
		sess.SetLocation(session.Location{Latitude: opts.lat, Longitude: opts.lon})
	}
	if _, err := cli.LoadPhoto(sess, data); err != nil {
		return err
	}
	applyColors(sess, sel)

	logging.NewStartupLogger("trendgenie").
		CommitHash(commitHash).
		BuildTime(buildTime).
		Model("text", svc.TextModel()).
		Model("image", svc.ImageModel()).
		Storage("usageDB", storePath).
		Feature("skipValidation", cfg.SkipValidation).
		Config("kind", string(kind)).
		InitDuration(time.Since(start)).
		Log()

	fmt.Fprintf(out, "Generating %s look: %s\n", kind, base)
	outcome, err := sess.Generate(ctx, kind, base)
	if err != nil {
		if errors.Is(err, session.ErrGenerationFailed) {
			return errors.New(auth.Classify(err).Message)
		}
		return err
	}
	if outcome == session.OutcomePaywall {
		cli.PrintUsage(out, sess.Snapshot())
		return errors.New(`free generations used up; run "trendgenie subscribe" to continue`)
	}

	saved, err := saveCurrent(sess, opts.out)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %s\n", saved)

	if kind.WantsSalons() || kind.WantsShopping() {
		fmt.Fprintln(out, "Looking up salons and shops...")
	}
	sess.Wait()
	printLookups(out, sess.Snapshot())
	cli.PrintUsage(out, sess.Snapshot())
	return nil
}

// requestFor maps the style flags to a kind and base instruction. An empty
// base means the user gave no request.
func requestFor(opts generateOptions) (style.Kind, string) {
	switch {
	case strings.TrimSpace(opts.hair) != "":
		return style.KindHair, style.Instruction(style.KindHair, strings.TrimSpace(opts.hair))
	case strings.TrimSpace(opts.outfit) != "":
		return style.KindFashion, style.Instruction(style.KindFashion, strings.TrimSpace(opts.outfit))
	default:
		return style.KindMix, strings.TrimSpace(opts.prompt)
	}
}

// resolveColors turns color names or hex values into a selection. Each
// slot only accepts its own palette.
func resolveColors(hair, top, bottom string) (style.Selection, error) {
	var sel style.Selection
	for _, c := range []struct {
		slot  style.Slot
		input string
	}{
		{style.SlotHair, hair},
		{style.SlotTop, top},
		{style.SlotBottom, bottom},
	} {
		if c.input == "" {
			continue
		}
		value, ok := style.PaletteFor(c.slot).Resolve(c.input)
		if !ok {
			return style.Selection{}, fmt.Errorf("unknown %s color %q (see \"trendgenie colors\")", c.slot, c.input)
		}
		sel = sel.Select(c.slot, value)
	}
	return sel, nil
}

func applyColors(sess *session.Session, sel style.Selection) {
	for _, slot := range []style.Slot{style.SlotHair, style.SlotTop, style.SlotBottom} {
		if v := sel.Get(slot); v != "" {
			sess.SelectColor(slot, v)
		}
	}
}

// saveCurrent writes the viewed artifact to path, or to its download name
// in the working directory when path is empty.
func saveCurrent(sess *session.Session, path string) (string, error) {
	name, img, err := sess.Download()
	if err != nil {
		return "", err
	}
	if path == "" {
		path = name
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, img.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	log.Info().Str("path", path).Int("size_bytes", len(img.Data)).Msg("Saved generated look")
	return path, nil
}

func printLookups(w io.Writer, v session.View) {
	cli.PrintResults(w, "Salons nearby:", v.Salons)
	cli.PrintResults(w, "Shop the look:", v.Shopping)
	fmt.Fprintln(w)
}
