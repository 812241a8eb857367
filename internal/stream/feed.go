// Package stream owns the persistent websocket connection used to push live
// price updates. A Feed opens Subscriptions; the at-most-one-live-handle
// rule is the owning session's job, not enforced here.
package stream

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// PriceUpdate is one inbound price event, consumed once by the callback and
// never buffered.
type PriceUpdate struct {
	Address string
	Price   float64
}

type subscribeMsg struct {
	Type string        `json:"type"`
	Data subscribeData `json:"data"`
}

type subscribeData struct {
	ChartType string `json:"chartType"`
	Currency  string `json:"currency"`
	Address   string `json:"address"`
}

type unsubscribeMsg struct {
	Type string `json:"type"`
}

// inboundMsg is the defensive view of a feed frame. Frames without a
// well-formed data payload are dropped, not surfaced.
type inboundMsg struct {
	Type string `json:"type"`
	Data *struct {
		Address string   `json:"address"`
		Price   *float64 `json:"price"`
	} `json:"data"`
}

type Feed struct {
	url    string
	apiKey string
	log    *zap.Logger
}

func NewFeed(url, apiKey string, log *zap.Logger) *Feed {
	if log == nil {
		log = zap.NewNop()
	}
	return &Feed{url: url, apiKey: apiKey, log: log}
}

// Open starts a subscription for one token address and returns immediately;
// the dial and subscribe handshake run in the background. Connection-level
// errors are logged, never returned: by the time they can occur the caller
// has already moved on.
func (f *Feed) Open(address string, onPrice func(PriceUpdate)) *Subscription {
	sub := &Subscription{
		address: address,
		log:     f.log,
	}
	go sub.run(f.dialURL(), onPrice)
	return sub
}

func (f *Feed) dialURL() string {
	if f.apiKey == "" {
		return f.url
	}
	return f.url + "?x-api-key=" + f.apiKey
}

// Subscription is one live price-feed connection for one token address.
type Subscription struct {
	address string
	log     *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
}

func (s *Subscription) Address() string {
	return s.address
}

func (s *Subscription) run(url string, onPrice func(PriceUpdate)) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		s.log.Warn("price feed dial failed", zap.String("address", s.address), zap.Error(err))
		return
	}

	s.mu.Lock()
	if s.closed {
		// Close raced the dial; tear the fresh connection down.
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	msg := subscribeMsg{
		Type: "SUBSCRIBE_PRICE",
		Data: subscribeData{
			ChartType: "1m",
			Currency:  "usd",
			Address:   s.address,
		},
	}
	if err := conn.WriteJSON(msg); err != nil {
		s.log.Warn("price feed subscribe failed", zap.String("address", s.address), zap.Error(err))
		s.Close()
		return
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				s.log.Warn("price feed read failed", zap.String("address", s.address), zap.Error(err))
			}
			return
		}

		var in inboundMsg
		if err := json.Unmarshal(raw, &in); err != nil {
			continue
		}
		if in.Data == nil || in.Data.Price == nil {
			continue
		}

		addr := in.Data.Address
		if addr == "" {
			addr = s.address
		}
		onPrice(PriceUpdate{Address: addr, Price: *in.Data.Price})
	}
}

// Close sends the unsubscribe control message and closes the transport.
// Safe to call more than once and before the dial has finished.
func (s *Subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		s.conn.WriteJSON(unsubscribeMsg{Type: "UNSUBSCRIBE_PRICE"})
		return s.conn.Close()
	}
	return nil
}
