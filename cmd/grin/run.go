package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cheshdao/grinterm/internal/ai"
	"github.com/cheshdao/grinterm/internal/config"
	"github.com/cheshdao/grinterm/internal/history"
	"github.com/cheshdao/grinterm/internal/market"
	"github.com/cheshdao/grinterm/internal/stream"
	"github.com/cheshdao/grinterm/internal/terminal"
	"github.com/cheshdao/grinterm/internal/tui"
	"github.com/cheshdao/grinterm/internal/wallet"
)

func runCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the interactive terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			logger, err := newLogger(cfg.LogPath, debug)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer logger.Sync()

			store, err := history.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open history db: %w", err)
			}
			defer store.Close()

			mkt := market.NewClient(cfg.GatewayURL, logger)
			feed := stream.NewFeed(cfg.FeedURL, cfg.APIKey, logger)

			session := terminal.NewSession(terminal.Options{
				Wallet:  wallet.NewRPC(cfg.RPCURL, cfg.WalletAddress),
				Market:  mkt,
				AI:      ai.NewClient(cfg.GatewayURL),
				Feed:    terminal.WrapFeed(feed),
				History: store,
				Config:  cfg,
				Logger:  logger,
			})

			return tui.Run(session, mkt)
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Write operator logs to the config dir")

	return cmd
}
