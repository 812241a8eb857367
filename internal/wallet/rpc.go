package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RPCWallet implements Provider over a Solana JSON-RPC endpoint for a fixed,
// pre-configured address. It never signs anything.
type RPCWallet struct {
	url       string
	address   string
	client    *http.Client
	connected bool
}

func NewRPC(url, address string) *RPCWallet {
	return &RPCWallet{
		url:     url,
		address: address,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result *struct {
		Value uint64 `json:"value"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Connect verifies the configured address by querying its balance once.
func (w *RPCWallet) Connect(ctx context.Context) error {
	if w.address == "" {
		return ErrNoWallet
	}
	if _, err := w.getBalance(ctx); err != nil {
		return err
	}
	w.connected = true
	return nil
}

func (w *RPCWallet) Connected() bool {
	return w.connected
}

func (w *RPCWallet) PublicKey() string {
	return w.address
}

// Balance returns the native balance in lamports.
func (w *RPCWallet) Balance(ctx context.Context) (uint64, error) {
	if !w.connected {
		return 0, ErrNotConnected
	}
	return w.getBalance(ctx)
}

func (w *RPCWallet) getBalance(ctx context.Context) (uint64, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getBalance",
		Params:  []any{w.address},
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rpc: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rpc: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var out rpcResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("rpc: decode response: %w", err)
	}
	if out.Error != nil {
		return 0, fmt.Errorf("rpc: %s", out.Error.Message)
	}
	if out.Result == nil {
		return 0, fmt.Errorf("rpc: empty result")
	}
	return out.Result.Value, nil
}
