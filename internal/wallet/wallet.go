package wallet

import (
	"context"
	"errors"
)

// LamportsPerSol is the divisor between the chain's smallest unit and the
// display unit.
const LamportsPerSol = 1_000_000_000

var (
	// ErrNoWallet means no wallet address has been configured at all.
	ErrNoWallet = errors.New("no wallet configured")
	// ErrNotConnected means a wallet exists but Connect has not succeeded yet.
	ErrNotConnected = errors.New("wallet not connected")
)

// Provider is the narrow surface the terminal consumes from a wallet.
// Connect validates the configured address against the chain; Balance
// returns lamports.
type Provider interface {
	Connect(ctx context.Context) error
	Connected() bool
	PublicKey() string
	Balance(ctx context.Context) (uint64, error)
}

// ToSol converts lamports to SOL.
func ToSol(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSol
}
