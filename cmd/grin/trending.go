package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cheshdao/grinterm/internal/config"
	"github.com/cheshdao/grinterm/internal/market"
)

const (
	tColorReset = "\033[0m"
	tColorBold  = "\033[1m"
	tColorGreen = "\033[1;32m"
	tColorRed   = "\033[1;31m"
	tColorDim   = "\033[2m"
)

func trendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List trending tokens ranked by the market-data feed",
		Long: `Fetches the ranked trending-token list once and prints it.
Output is colorized rows on a terminal and plain TSV when piped:
  rank, symbol, name, price, 24h change, 24h volume, address`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			tokens := market.NewClient(cfg.GatewayURL, zap.NewNop()).TrendingTokens(ctx)
			if len(tokens) == 0 {
				fmt.Fprintln(os.Stderr, "No trending tokens available.")
				return nil
			}

			tty := term.IsTerminal(int(os.Stdout.Fd()))
			for _, t := range tokens {
				if tty {
					change := tColorGreen
					if t.Price24hChangePercent < 0 {
						change = tColorRed
					}
					fmt.Printf("%2d  %s%-10s%s %-24s %12.6f  %s%+7.2f%%%s  %s%s%s\n",
						t.Rank,
						tColorBold, t.Symbol, tColorReset,
						t.Name,
						t.Price,
						change, t.Price24hChangePercent, tColorReset,
						tColorDim, t.Address, tColorReset,
					)
					continue
				}
				fmt.Printf("%d\t%s\t%s\t%f\t%f\t%f\t%s\n",
					t.Rank, t.Symbol, t.Name, t.Price,
					t.Price24hChangePercent, t.Volume24hUSD, t.Address)
			}
			return nil
		},
	}
}
