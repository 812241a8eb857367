package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cheshdao/grinterm/internal/config"
	"github.com/cheshdao/grinterm/internal/history"
	"github.com/cheshdao/grinterm/internal/market"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify config, gateway reachability, and history DB",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Config ===")
			fmt.Printf("  Gateway: %s\n", cfg.GatewayURL)
			fmt.Printf("  RPC:     %s\n", cfg.RPCURL)
			fmt.Printf("  Feed:    %s\n", cfg.FeedURL)
			if cfg.WalletAddress == "" {
				fmt.Println("  Wallet:  NOT CONFIGURED (set wallet_address in config.toml)")
			} else {
				fmt.Printf("  Wallet:  %s\n", cfg.WalletAddress)
			}
			if cfg.APIKey == "" {
				fmt.Println("  API key: NOT SET (run 'setkey <key>' in the terminal)")
			} else {
				fmt.Println("  API key: set")
			}

			fmt.Println("\n=== Gateway ===")
			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			tokens := market.NewClient(cfg.GatewayURL, zap.NewNop()).TrendingTokens(ctx)
			if len(tokens) == 0 {
				fmt.Println("  Status: UNREACHABLE or empty trending list")
			} else {
				fmt.Printf("  Status: OK (%d trending tokens)\n", len(tokens))
			}

			fmt.Println("\n=== History DB ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (created on first 'grin run')")
				return nil
			}

			store, err := history.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history db: %w", err)
			}
			defer store.Close()

			n, err := store.Count()
			if err != nil {
				return fmt.Errorf("count history: %w", err)
			}
			fmt.Printf("  Commands recorded: %d\n", n)

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("  Size: %.1f KB\n", float64(info.Size())/1024)
			}

			return nil
		},
	}
}
