package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/cheshdao/grinterm/internal/stream"
	"github.com/cheshdao/grinterm/internal/wallet"
)

// Signal is the dispatcher's return value. Only clear produces a non-none
// sentinel; the caller must wipe the log itself.
type Signal int

const (
	SignalNone Signal = iota
	SignalClear
)

const helpText = `CHESH Terminal Commands:
  help              - Show available commands
  clear             - Clear terminal interface
  connect           - Initialize wallet connection
  balance           - Query SOL balance
  portfolio         - View complete token portfolio
  token <address>   - Check specific token balance
  track <address>   - Track token price in real-time
  trending          - List trending tokens
  art <prompt>      - Generate AI art
  ask <prompt>      - Chat with the AI
  deep <prompt>     - Engage the reasoning engine
  setkey <key>      - Configure API credentials

Trust, but verify.`

// Handle processes one input line: echo, parse, dispatch, render. It never
// lets a failure escape; every failure path ends in exactly one error line.
func (s *Session) Handle(ctx context.Context, line string) (sig Signal) {
	s.setProcessing(true)
	s.addOutput("> "+line, KindInfo)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		s.setProcessing(false)
		return SignalNone
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	if s.history != nil {
		if err := s.history.Append(s.id, verb, line); err != nil {
			s.log.Warn("record command history", zap.Error(err))
		}
	}

	defer func() {
		if r := recover(); r != nil {
			msg := "Unknown error"
			switch v := r.(type) {
			case error:
				if v.Error() != "" {
					msg = v.Error()
				}
			case string:
				if v != "" {
					msg = v
				}
			}
			s.addOutput("Error: "+msg, KindError)
			s.setProcessing(false)
			sig = SignalNone
		}
	}()

	switch verb {
	case "help":
		s.addOutput(helpText, KindInfo)

	case "clear":
		// The caller wipes the log and re-enables input via ClearOutput.
		return SignalClear

	case "connect":
		s.cmdConnect(ctx)

	case "balance":
		s.cmdBalance(ctx)

	case "portfolio":
		s.cmdPortfolio(ctx)

	case "token":
		s.cmdToken(ctx, args)

	case "track":
		s.cmdTrack(args)

	case "trending":
		s.cmdTrending(ctx)

	case "art":
		s.cmdArt(ctx, args)

	case "ask":
		s.cmdAsk(ctx, args)

	case "deep":
		s.cmdDeep(ctx, args)

	case "setkey":
		s.cmdSetKey(args)

	default:
		s.addOutput(fmt.Sprintf("Unknown command: %s. Type 'help' for available operations.", verb), KindError)
	}

	s.setProcessing(false)
	return SignalNone
}

func (s *Session) walletConnected() bool {
	return s.wallet != nil && s.wallet.Connected()
}

func (s *Session) cmdConnect(ctx context.Context) {
	if s.wallet == nil {
		s.addOutput("Please select a wallet for secure interaction", KindError)
		return
	}
	if s.wallet.Connected() {
		s.addOutput("Wallet already connected and verified", KindInfo)
		return
	}
	if err := s.wallet.Connect(ctx); err != nil {
		switch {
		case errors.Is(err, wallet.ErrNoWallet):
			s.addOutput("Please select a wallet for secure interaction", KindError)
		case errors.Is(err, wallet.ErrNotConnected):
			s.addOutput("Please select a wallet using the interface controls", KindError)
		default:
			s.addOutput("Connection failed: "+err.Error(), KindError)
		}
		return
	}
	s.addOutput("Wallet connection established successfully", KindSuccess)
}

func (s *Session) cmdBalance(ctx context.Context) {
	if !s.walletConnected() {
		s.addOutput("Please connect your wallet first for balance verification", KindError)
		return
	}
	lamports, err := s.wallet.Balance(ctx)
	if err != nil {
		s.addOutput("Balance fetch failed: "+err.Error(), KindError)
		return
	}
	s.addOutput(fmt.Sprintf("Verified Balance: %s SOL", humanize.CommafWithDigits(wallet.ToSol(lamports), 9)), KindSuccess)
}

func (s *Session) cmdPortfolio(ctx context.Context) {
	if !s.walletConnected() {
		s.addOutput("Please connect your wallet first using the connect command", KindError)
		return
	}
	portfolio, err := s.market.WalletPortfolio(ctx, s.wallet.PublicKey())
	if err != nil {
		s.addOutput("Failed to fetch portfolio: "+err.Error(), KindError)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio Overview for %s:\n", s.wallet.PublicKey())
	fmt.Fprintf(&b, "Total Value: %s\n\nToken Balances:\n", formatUSD(portfolio.TotalUsd))
	for _, t := range portfolio.Items {
		name := t.Name
		if name == "" {
			name = "Unknown Token"
		}
		label := t.Symbol
		if label == "" {
			label = t.Address
		}
		fmt.Fprintf(&b, "\n%s (%s)\n", name, label)
		fmt.Fprintf(&b, "Balance: %s %s\n", humanize.Commaf(t.UIAmount), t.Symbol)
		fmt.Fprintf(&b, "Value: %s\n", usdOrNA(t.ValueUsd))
	}
	s.addOutput(b.String(), KindSuccess)
}

func (s *Session) cmdToken(ctx context.Context, args []string) {
	if !s.walletConnected() {
		s.addOutput("Please connect your wallet first using the connect command", KindError)
		return
	}
	if len(args) == 0 {
		s.addOutput("Please provide a token address", KindError)
		return
	}
	balance, err := s.market.TokenBalance(ctx, s.wallet.PublicKey(), args[0])
	if err != nil {
		s.addOutput("Failed to fetch token balance: "+err.Error(), KindError)
		return
	}
	s.addOutput(fmt.Sprintf("Token Balance:\nAddress: %s\nBalance: %s\nValue: %s\nPrice: %s",
		balance.Address,
		humanize.Commaf(balance.UIAmount),
		usdOrNA(balance.ValueUsd),
		usdOrNA(balance.PriceUsd),
	), KindSuccess)
}

func (s *Session) cmdTrack(args []string) {
	if len(args) == 0 {
		s.addOutput("Please provide a token address to track", KindError)
		return
	}
	if s.feed == nil {
		s.addOutput("Price feed is not configured", KindError)
		return
	}
	address := args[0]

	sub := s.feed.Open(address, func(u stream.PriceUpdate) {
		s.addOutput(fmt.Sprintf("Price Update for %s:\nPrice: %s\nTime: %s",
			u.Address, formatUSD(u.Price), time.Now().Format("3:04:05 PM")), KindInfo)
	})
	s.replaceTracker(sub)

	// Reported before the connection is confirmed open; the handshake is
	// fire-and-forget relative to the command itself.
	s.addOutput("Started tracking price for token: "+address, KindSuccess)
}

func (s *Session) cmdTrending(ctx context.Context) {
	tokens := s.market.TrendingTokens(ctx)
	if len(tokens) == 0 {
		s.addOutput("No trending tokens available right now", KindInfo)
		return
	}
	payload, err := json.Marshal(tokens)
	if err != nil {
		s.addOutput("Failed to render trending tokens: "+err.Error(), KindError)
		return
	}
	s.addOutput(string(payload), KindJSON)
}

func (s *Session) cmdArt(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.addOutput("Please provide a prompt for art generation", KindError)
		return
	}
	url, err := s.ai.GenerateImage(ctx, strings.Join(args, " "))
	if err != nil {
		s.addOutput("Art generation failed: "+err.Error(), KindError)
		return
	}
	s.addOutput("Generated Art URL: "+url, KindSuccess)
}

func (s *Session) cmdAsk(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.addOutput("Please provide a prompt for the AI", KindError)
		return
	}
	reply, err := s.ai.Chat(ctx, strings.Join(args, " "))
	if err != nil {
		s.addOutput("AI chat failed: "+err.Error(), KindError)
		return
	}
	s.addOutput("AI Response: "+reply, KindSuccess)
}

func (s *Session) cmdDeep(ctx context.Context, args []string) {
	if len(args) == 0 {
		s.addOutput("Please provide a prompt for reasoning", KindError)
		return
	}
	reply, err := s.ai.Reason(ctx, strings.Join(args, " "))
	if err != nil {
		s.addOutput("Reasoning failed: "+err.Error(), KindError)
		return
	}
	s.addOutput(reply, KindSuccess)
}

func (s *Session) cmdSetKey(args []string) {
	if len(args) == 0 {
		s.addOutput("Please provide an API key", KindError)
		return
	}
	if s.cfg == nil {
		s.addOutput("Configuration is not writable in this session", KindError)
		return
	}
	s.cfg.APIKey = args[0]
	if err := s.cfg.Save(); err != nil {
		s.addOutput("Failed to save API key: "+err.Error(), KindError)
		return
	}
	s.addOutput("API credentials updated", KindSuccess)
}

func formatUSD(v float64) string {
	if v < 1 && v > -1 && v != 0 {
		return "$" + humanize.CommafWithDigits(v, 6)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

func usdOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatUSD(*v)
}
