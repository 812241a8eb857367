// Package ai wraps the gateway's AI operations. Unlike the market proxy,
// these endpoints relay the provider payload as-is, so a 200 response can
// still carry an embedded error object that must be surfaced to the caller.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// apiError tolerates both provider-style {"message": "..."} objects and the
// bare string the gateway emits from its own failure path.
type apiError struct {
	Message string
}

func (e *apiError) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Message = s
		return nil
	}
	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Message = obj.Message
	return nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *apiError `json:"error"`
}

// Chat sends a free-text prompt to the chat completion operation and returns
// the first choice's text content.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	return c.completion(ctx, "chat", prompt)
}

// Reason sends a prompt to the reasoning model. Same wire shape as Chat.
func (c *Client) Reason(ctx context.Context, prompt string) (string, error) {
	return c.completion(ctx, "reason", prompt)
}

func (c *Client) completion(ctx context.Context, operation, prompt string) (string, error) {
	data, err := c.invoke(ctx, operation, prompt)
	if err != nil {
		return "", err
	}

	var out chatResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", operation, err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("%s: %s", operation, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: no completion returned", operation)
	}
	return out.Choices[0].Message.Content, nil
}

// GenerateImage sends a prompt to the image generation operation and returns
// the resulting image URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (string, error) {
	data, err := c.invoke(ctx, "generate-image", prompt)
	if err != nil {
		return "", err
	}

	var out imageResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("generate-image: decode response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("generate-image: %s", out.Error.Message)
	}
	if len(out.Data) == 0 {
		return "", fmt.Errorf("generate-image: no image returned")
	}
	return out.Data[0].URL, nil
}

func (c *Client) invoke(ctx context.Context, operation, prompt string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{
		"operation": operation,
		"prompt":    prompt,
	})
	if err != nil {
		return nil, err
	}

	url := c.baseURL + "/ai-operations"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		// The gateway's own failure path is {"error": "..."} with a 500.
		var failure struct {
			Error *apiError `json:"error"`
		}
		if json.Unmarshal(data, &failure) == nil && failure.Error != nil {
			return nil, fmt.Errorf("%s: %s", operation, failure.Error.Message)
		}
		return nil, fmt.Errorf("%s: unexpected status %d", operation, resp.StatusCode)
	}
	return data, nil
}
