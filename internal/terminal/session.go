// Package terminal implements the command terminal core: the append-only
// output log, the per-view session state, and the command dispatcher.
package terminal

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cheshdao/grinterm/internal/ai"
	"github.com/cheshdao/grinterm/internal/config"
	"github.com/cheshdao/grinterm/internal/history"
	"github.com/cheshdao/grinterm/internal/market"
	"github.com/cheshdao/grinterm/internal/stream"
	"github.com/cheshdao/grinterm/internal/wallet"
)

// PriceSubscription is a live streaming subscription owned by a session.
type PriceSubscription interface {
	Address() string
	Close() error
}

// PriceFeed opens streaming price subscriptions. The session guarantees at
// most one is live at a time.
type PriceFeed interface {
	Open(address string, onPrice func(stream.PriceUpdate)) PriceSubscription
}

// WrapFeed adapts a stream.Feed to the PriceFeed interface.
func WrapFeed(f *stream.Feed) PriceFeed {
	return feedAdapter{f}
}

type feedAdapter struct {
	feed *stream.Feed
}

func (a feedAdapter) Open(address string, onPrice func(stream.PriceUpdate)) PriceSubscription {
	return a.feed.Open(address, onPrice)
}

// Options wires a session's collaborators. Wallet, Feed, History and Config
// may be nil; the affected commands degrade to error output.
type Options struct {
	Wallet  wallet.Provider
	Market  *market.Client
	AI      *ai.Client
	Feed    PriceFeed
	History *history.Store
	Config  *config.Config
	Logger  *zap.Logger
}

// Session is the state scoped to one open terminal view: the output log, the
// advisory processing flag, and the at-most-one live price subscription.
type Session struct {
	id      string
	out     *Log
	wallet  wallet.Provider
	market  *market.Client
	ai      *ai.Client
	feed    PriceFeed
	history *history.Store
	cfg     *config.Config
	log     *zap.Logger

	mu         sync.Mutex
	processing bool
	tracker    PriceSubscription

	updates chan struct{}
}

func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		id:      uuid.NewString(),
		out:     NewLog(),
		wallet:  opts.Wallet,
		market:  opts.Market,
		ai:      opts.AI,
		feed:    opts.Feed,
		history: opts.History,
		cfg:     opts.Config,
		log:     logger,
		updates: make(chan struct{}, 1),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Output returns the session's log.
func (s *Session) Output() *Log {
	return s.out
}

// Updates signals whenever a line is appended, so a renderer can wake up for
// asynchronous streaming output. Signals coalesce.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

// Processing reports whether a dispatched command's async work is still
// outstanding. Advisory: it gates new input submission, nothing more.
func (s *Session) Processing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processing
}

func (s *Session) setProcessing(v bool) {
	s.mu.Lock()
	s.processing = v
	s.mu.Unlock()
}

func (s *Session) addOutput(content string, kind Kind) {
	s.out.Append(content, kind)
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Greet appends the welcome banner shown when the terminal view mounts.
func (s *Session) Greet() {
	s.addOutput(
		"CHESH Terminal v1.0.0 - Grin DAO Interface\n\n"+
			"Type 'help' for available commands.\n\n"+
			"Trust, but verify.",
		KindInfo,
	)
}

// ClearOutput wipes the log after the dispatcher returns the clear sentinel
// and re-enables input.
func (s *Session) ClearOutput() {
	s.out.Clear()
	s.setProcessing(false)
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Tracking returns the address of the live price subscription, if any.
func (s *Session) Tracking() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracker == nil {
		return "", false
	}
	return s.tracker.Address(), true
}

// replaceTracker installs a new subscription, tearing down any previous one
// first. sub may be nil to just disconnect.
func (s *Session) replaceTracker(sub PriceSubscription) {
	s.mu.Lock()
	old := s.tracker
	s.tracker = sub
	s.mu.Unlock()
	if old != nil {
		if err := old.Close(); err != nil {
			s.log.Warn("close price subscription", zap.Error(err))
		}
	}
}

// Close tears the session down, closing any live subscription. Called on
// view unmount; no dangling connections.
func (s *Session) Close() {
	s.replaceTracker(nil)
}
