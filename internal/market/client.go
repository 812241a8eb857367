// Package market wraps the DAO function gateway's birdeye proxy. Every call
// posts a small JSON body naming an operation and gets back a
// {success, data|error} envelope; transport and envelope failures are
// normalized into a single returned error.
package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const functionName = "birdeye-operations"

type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

type request struct {
	Operation     string `json:"operation"`
	Address       string `json:"address,omitempty"`
	WalletAddress string `json:"walletAddress,omitempty"`
	TokenAddress  string `json:"tokenAddress,omitempty"`
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// TrendingTokens returns the ranked trending list. Failures are swallowed
// into an empty list and logged, matching the upstream contract; all sibling
// operations propagate their errors.
func (c *Client) TrendingTokens(ctx context.Context) []TrendingToken {
	var out struct {
		Tokens []TrendingToken `json:"tokens"`
	}
	if err := c.invoke(ctx, request{Operation: "trending-tokens"}, &out); err != nil {
		c.log.Warn("trending tokens fetch failed", zap.Error(err))
		return nil
	}
	return out.Tokens
}

// TokenMetadata fetches descriptive metadata for one token address.
func (c *Client) TokenMetadata(ctx context.Context, address string) (*TokenMetadata, error) {
	var out TokenMetadata
	if err := c.invoke(ctx, request{Operation: "token-metadata", Address: address}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WalletPortfolio fetches a wallet's full token holdings and total USD value.
func (c *Client) WalletPortfolio(ctx context.Context, walletAddress string) (*WalletPortfolio, error) {
	var out WalletPortfolio
	if err := c.invoke(ctx, request{Operation: "wallet-portfolio", WalletAddress: walletAddress}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TokenBalance fetches a single token's balance/value/price for a wallet.
func (c *Client) TokenBalance(ctx context.Context, walletAddress, tokenAddress string) (*TokenBalance, error) {
	var out TokenBalance
	req := request{
		Operation:     "token-balance",
		WalletAddress: walletAddress,
		TokenAddress:  tokenAddress,
	}
	if err := c.invoke(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) invoke(ctx context.Context, r request, out any) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}

	url := c.baseURL + "/" + functionName
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", r.Operation, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d", r.Operation, resp.StatusCode)
		}
		return fmt.Errorf("%s: decode response: %w", r.Operation, err)
	}

	// The gateway reports application failures as a non-success envelope,
	// usually alongside a non-2xx status.
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("%s: %s", r.Operation, env.Error)
		}
		return fmt.Errorf("%s: request failed", r.Operation)
	}

	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: decode data: %w", r.Operation, err)
	}
	return nil
}
