package terminal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cheshdao/grinterm/internal/ai"
	"github.com/cheshdao/grinterm/internal/market"
	"github.com/cheshdao/grinterm/internal/stream"
	"github.com/cheshdao/grinterm/internal/wallet"
)

// fakes

type fakeWallet struct {
	connected    bool
	pubkey       string
	lamports     uint64
	connectErr   error
	balanceErr   error
	connectCalls int
	balanceCalls int
}

func (w *fakeWallet) Connect(ctx context.Context) error {
	w.connectCalls++
	if w.connectErr != nil {
		return w.connectErr
	}
	w.connected = true
	return nil
}

func (w *fakeWallet) Connected() bool   { return w.connected }
func (w *fakeWallet) PublicKey() string { return w.pubkey }

func (w *fakeWallet) Balance(ctx context.Context) (uint64, error) {
	w.balanceCalls++
	if w.balanceErr != nil {
		return 0, w.balanceErr
	}
	return w.lamports, nil
}

type fakeSub struct {
	address string
	closed  bool
}

func (s *fakeSub) Address() string { return s.address }
func (s *fakeSub) Close() error    { s.closed = true; return nil }

type fakeFeed struct {
	subs      []*fakeSub
	callbacks []func(stream.PriceUpdate)
}

func (f *fakeFeed) Open(address string, onPrice func(stream.PriceUpdate)) PriceSubscription {
	sub := &fakeSub{address: address}
	f.subs = append(f.subs, sub)
	f.callbacks = append(f.callbacks, onPrice)
	return sub
}

// gateway stub

type gatewayStub struct {
	server   *httptest.Server
	requests atomic.Int64
	respond  func(operation string, w http.ResponseWriter)
}

func newGatewayStub(t *testing.T) *gatewayStub {
	t.Helper()
	g := &gatewayStub{}
	g.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.requests.Add(1)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		op, _ := body["operation"].(string)
		g.respond(op, w)
	}))
	t.Cleanup(g.server.Close)
	return g
}

func (g *gatewayStub) respondJSON(payload string) {
	g.respond = func(_ string, w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}
}

func newTestSession(t *testing.T, g *gatewayStub, w wallet.Provider, feed PriceFeed) *Session {
	t.Helper()
	opts := Options{Wallet: w, Feed: feed}
	if g != nil {
		opts.Market = market.NewClient(g.server.URL, nil)
		opts.AI = ai.NewClient(g.server.URL)
	}
	return NewSession(opts)
}

// contents returns the rendered log contents in order.
func contents(s *Session) []string {
	var out []string
	for _, l := range s.Output().Lines() {
		out = append(out, l.Content)
	}
	return out
}

func TestHandleEchoesInputAsInfo(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	s.Handle(context.Background(), "help")

	lines := s.Output().Lines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "> help", lines[0].Content)
	assert.Equal(t, KindInfo, lines[0].Kind)
}

func TestHandleUnknownVerb(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	sig := s.Handle(context.Background(), "frobnicate now")

	assert.Equal(t, SignalNone, sig)
	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindInfo, lines[0].Kind)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "frobnicate")
	assert.False(t, s.Processing())
}

func TestHandleHelp(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	sig := s.Handle(context.Background(), "help")

	assert.Equal(t, SignalNone, sig)
	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindInfo, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "track <address>")
	assert.False(t, s.Processing())
}

func TestHandleVerbIsCaseInsensitive(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	s.Handle(context.Background(), "HELP")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindInfo, lines[1].Kind)
}

func TestHandleClearReturnsSentinel(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	sig := s.Handle(context.Background(), "clear")

	assert.Equal(t, SignalClear, sig)
	// Only the echo line; the caller wipes the log.
	require.Len(t, s.Output().Lines(), 1)

	s.ClearOutput()
	assert.Equal(t, 0, s.Output().Len())
	assert.False(t, s.Processing())
}

func TestConnectNoWalletSelected(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	s.Handle(context.Background(), "connect")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "select a wallet")
}

func TestConnectAlreadyConnected(t *testing.T) {
	w := &fakeWallet{connected: true}
	s := newTestSession(t, nil, w, nil)
	s.Handle(context.Background(), "connect")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindInfo, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "already connected")
	assert.Zero(t, w.connectCalls)
}

func TestConnectSuccess(t *testing.T) {
	w := &fakeWallet{}
	s := newTestSession(t, nil, w, nil)
	s.Handle(context.Background(), "connect")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	assert.Equal(t, 1, w.connectCalls)
}

func TestConnectNotConnectedFailure(t *testing.T) {
	w := &fakeWallet{connectErr: wallet.ErrNotConnected}
	s := newTestSession(t, nil, w, nil)
	s.Handle(context.Background(), "connect")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "interface controls")
}

func TestBalanceRequiresConnectedWallet(t *testing.T) {
	w := &fakeWallet{}
	s := newTestSession(t, nil, w, nil)
	s.Handle(context.Background(), "balance")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "connect your wallet first")
	assert.Zero(t, w.balanceCalls)
}

func TestBalanceConvertsLamports(t *testing.T) {
	w := &fakeWallet{connected: true, lamports: 2_500_000_000}
	s := newTestSession(t, nil, w, nil)
	s.Handle(context.Background(), "balance")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "2.5")
	assert.Contains(t, lines[1].Content, "SOL")
}

func TestTokenMissingAddress(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":true,"data":{}}`)
	w := &fakeWallet{connected: true, pubkey: "Wal1et"}
	s := newTestSession(t, g, w, nil)
	s.Handle(context.Background(), "token")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "Please provide a token address")
	assert.Zero(t, g.requests.Load(), "no network call should be made")
}

func TestTokenAdapterFailureRoundTrip(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":false,"error":"x"}`)
	w := &fakeWallet{connected: true, pubkey: "Wal1et"}
	s := newTestSession(t, g, w, nil)
	s.Handle(context.Background(), "token So11111111111111111111111111111111111111112")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "x")
}

func TestTokenSuccess(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":true,"data":{"address":"Mint111","uiAmount":1500,"valueUsd":42.5,"priceUsd":0.02833}}`)
	w := &fakeWallet{connected: true, pubkey: "Wal1et"}
	s := newTestSession(t, g, w, nil)
	s.Handle(context.Background(), "token Mint111")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "Mint111")
	assert.Contains(t, lines[1].Content, "1,500")
	assert.Contains(t, lines[1].Content, "$42.5")
}

func TestTokenMissingPriceRendersNA(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":true,"data":{"address":"Mint111","uiAmount":3}}`)
	w := &fakeWallet{connected: true, pubkey: "Wal1et"}
	s := newTestSession(t, g, w, nil)
	s.Handle(context.Background(), "token Mint111")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1].Content, "Value: N/A")
	assert.Contains(t, lines[1].Content, "Price: N/A")
}

func TestPortfolioRequiresConnectedWallet(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":true,"data":{}}`)
	s := newTestSession(t, g, &fakeWallet{}, nil)
	s.Handle(context.Background(), "portfolio")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Zero(t, g.requests.Load())
}

func TestPortfolioRendersHoldings(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":true,"data":{"totalUsd":1234.56,"items":[
		{"address":"Mint1","uiAmount":10,"valueUsd":1000,"priceUsd":100,"name":"Chesh","symbol":"CHESH"},
		{"address":"Mint2","uiAmount":5}
	]}}`)
	w := &fakeWallet{connected: true, pubkey: "Wal1et"}
	s := newTestSession(t, g, w, nil)
	s.Handle(context.Background(), "portfolio")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	body := lines[1].Content
	assert.Contains(t, body, "Wal1et")
	assert.Contains(t, body, "$1,234.56")
	assert.Contains(t, body, "Chesh (CHESH)")
	assert.Contains(t, body, "Unknown Token (Mint2)")
	assert.Contains(t, body, "Value: N/A")
}

func TestTrackMissingAddress(t *testing.T) {
	feed := &fakeFeed{}
	s := newTestSession(t, nil, nil, feed)
	s.Handle(context.Background(), "track")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "token address to track")
	assert.Empty(t, feed.subs)
}

func TestTrackReportsSuccessImmediately(t *testing.T) {
	feed := &fakeFeed{}
	s := newTestSession(t, nil, nil, feed)
	s.Handle(context.Background(), "track MintA")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "MintA")

	addr, ok := s.Tracking()
	require.True(t, ok)
	assert.Equal(t, "MintA", addr)
}

func TestTrackReplacementClosesPrevious(t *testing.T) {
	feed := &fakeFeed{}
	s := newTestSession(t, nil, nil, feed)
	s.Handle(context.Background(), "track MintA")
	s.Handle(context.Background(), "track MintB")

	require.Len(t, feed.subs, 2)
	assert.True(t, feed.subs[0].closed, "first subscription must be torn down")
	assert.False(t, feed.subs[1].closed)

	addr, ok := s.Tracking()
	require.True(t, ok)
	assert.Equal(t, "MintB", addr)
}

func TestTrackCallbackRendersPriceUpdate(t *testing.T) {
	feed := &fakeFeed{}
	s := newTestSession(t, nil, nil, feed)
	s.Handle(context.Background(), "track MintA")

	before := s.Output().Len()
	feed.callbacks[0](stream.PriceUpdate{Address: "MintA", Price: 0.5})

	lines := s.Output().Lines()
	require.Len(t, lines, before+1)
	last := lines[len(lines)-1]
	assert.Equal(t, KindInfo, last.Kind)
	assert.Contains(t, last.Content, "Price Update for MintA")
	assert.Contains(t, last.Content, "$0.5")
}

func TestSessionCloseTearsDownSubscription(t *testing.T) {
	feed := &fakeFeed{}
	s := newTestSession(t, nil, nil, feed)
	s.Handle(context.Background(), "track MintA")

	s.Close()
	require.Len(t, feed.subs, 1)
	assert.True(t, feed.subs[0].closed)
	_, ok := s.Tracking()
	assert.False(t, ok)
}

func TestTrendingRendersJSON(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":true,"data":{"tokens":[{"address":"Mint1","symbol":"CHESH","rank":1,"price":0.1}]}}`)
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "trending")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindJSON, lines[1].Kind)
	assert.NotEqual(t, "Invalid JSON", Render(lines[1]))
	assert.Contains(t, lines[1].Content, "CHESH")
}

func TestTrendingSwallowsUpstreamFailure(t *testing.T) {
	g := newGatewayStub(t)
	g.respond = func(_ string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "trending")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	// Failure collapses to the empty-list path, not an error line.
	assert.Equal(t, KindInfo, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "No trending tokens")
}

func TestArtMissingPrompt(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{}`)
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "art")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Zero(t, g.requests.Load())
}

func TestArtSuccess(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"data":[{"url":"https://img.example/cat.png"}]}`)
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "art grinning cat in a tree")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "https://img.example/cat.png")
}

func TestArtNestedErrorInOKResponse(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"error":{"message":"content policy violation"}}`)
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "art something forbidden")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "content policy violation")
}

func TestAskRendersFirstChoice(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"choices":[{"message":{"content":"we are all mad here"}}]}`)
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "ask   why   is a raven like a writing desk")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindSuccess, lines[1].Kind)
	assert.Contains(t, lines[1].Content, "we are all mad here")
}

func TestDeepMissingPrompt(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{}`)
	s := newTestSession(t, g, nil, nil)
	s.Handle(context.Background(), "deep")

	lines := s.Output().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, KindError, lines[1].Kind)
	assert.Zero(t, g.requests.Load())
}

func TestProcessingEndsFalseOnEveryNonClearPath(t *testing.T) {
	g := newGatewayStub(t)
	g.respondJSON(`{"success":false,"error":"boom"}`)
	w := &fakeWallet{connected: true, pubkey: "Wal1et"}
	s := newTestSession(t, g, w, &fakeFeed{})

	for _, line := range []string{"help", "nonsense", "balance", "token Mint1", "track Mint1", "ask hi"} {
		s.Handle(context.Background(), line)
		assert.False(t, s.Processing(), "after %q", line)
	}
}

func TestContentsHelperOrdering(t *testing.T) {
	s := newTestSession(t, nil, nil, nil)
	s.Handle(context.Background(), "help")
	got := contents(s)
	require.Len(t, got, 2)
	assert.Equal(t, "> help", got[0])
}
