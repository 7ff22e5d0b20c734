package main

import (
	"context"
	"fmt"

	"github.com/fpang/trendgenie/internal/cli"
	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show how many free generations are left",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, closeStore, err := cli.OpenUsageStore(cfg.DBPath, cfg.Ephemeral)
			if err != nil {
				return err
			}
			defer closeStore()

			sess := cli.NewSession(commandContext(cmd), nil, store, cfg)
			cli.PrintUsage(cmd.OutOrStdout(), sess.Snapshot())
			return nil
		},
	}
}

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Reset the generation counter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			store, _, closeStore, err := cli.OpenUsageStore(cfg.DBPath, cfg.Ephemeral)
			if err != nil {
				return err
			}
			defer closeStore()

			sess := cli.NewSession(ctx, nil, store, cfg)
			if err := sess.Subscribe(ctx); err != nil {
				return fmt.Errorf("failed to reset usage: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Subscribed. Your generation counter has been reset.")
			cli.PrintUsage(cmd.OutOrStdout(), sess.Snapshot())
			return nil
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
