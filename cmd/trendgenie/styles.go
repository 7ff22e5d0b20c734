package main

import (
	"fmt"

	"github.com/fpang/trendgenie/internal/cli"
	"github.com/fpang/trendgenie/internal/quota"
	"github.com/fpang/trendgenie/internal/session"
	"github.com/fpang/trendgenie/internal/style"
	"github.com/spf13/cobra"
)

func newStylesCmd() *cobra.Command {
	var (
		kindFlag string
		more     bool
	)
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List hairstyles or outfits to try",
		Long: `Styles lists the built-in hairstyles or outfits. With --more, Gemini is
asked for new ideas that are not in the list yet.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := style.ParseKind(kindFlag)
			if err != nil || kind == style.KindMix {
				return fmt.Errorf("--kind must be hair or fashion")
			}

			// Listing styles never touches the usage count.
			ctx := commandContext(cmd)
			store := quota.NewMemoryStore()

			var sess *session.Session
			if more {
				sess = cli.NewSession(ctx, cli.InitGeminiService(ctx, cfg), store, cfg)
			} else {
				sess = cli.NewSession(ctx, nil, store, cfg)
			}

			exp, err := expandCatalog(cmd, sess, kind, more)
			if err != nil {
				return err
			}
			printStyles(cmd, sess.Catalog().Visible(kind))
			if more && exp != style.ExpansionFetched {
				fmt.Fprintln(cmd.OutOrStdout(), "No new styles could be suggested right now.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", string(style.KindHair), "hair or fashion")
	cmd.Flags().BoolVar(&more, "more", false, "Ask Gemini for more styles")
	return cmd
}

// expandCatalog reveals every built-in style and, when fetch is set, asks
// for one batch of new ones.
func expandCatalog(cmd *cobra.Command, sess *session.Session, kind style.Kind, fetch bool) (style.Expansion, error) {
	ctx := commandContext(cmd)
	for sess.Catalog().CanReveal(kind) {
		if _, err := sess.RequestMore(ctx, kind); err != nil {
			return style.ExpansionUnchanged, err
		}
	}
	if !fetch {
		return style.ExpansionUnchanged, nil
	}
	return sess.RequestMore(ctx, kind)
}

func printStyles(cmd *cobra.Command, styles []string) {
	out := cmd.OutOrStdout()
	for i, s := range styles {
		fmt.Fprintf(out, "%2d. %s\n", i+1, s)
	}
}

func newColorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "colors",
		Short: "List the hair and clothing colors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Hair colors (--hair-color):")
			for _, c := range style.HairPalette.Colors() {
				fmt.Fprintf(out, "  %-14s %s\n", c.Name, c.Value)
			}
			fmt.Fprintln(out, "Clothing colors (--top-color, --bottom-color):")
			for _, c := range style.ClothingPalette.Colors() {
				fmt.Fprintf(out, "  %-14s %s\n", c.Name, c.Value)
			}
			return nil
		},
	}
}
