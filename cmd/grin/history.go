package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheshdao/grinterm/internal/config"
	"github.com/cheshdao/grinterm/internal/history"
)

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent terminal commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			store, err := history.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history db: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}

			for _, e := range entries {
				fmt.Printf("%s\t%s\t%s\n", e.Ts, e.Verb, e.Line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Max entries (0 = all)")

	return cmd
}
