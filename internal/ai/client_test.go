package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestChatReturnsFirstChoice(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "chat", body["operation"])
		assert.Equal(t, "hello there", body["prompt"])
		w.Write([]byte(`{"choices":[{"message":{"content":"first"}},{"message":{"content":"second"}}]}`))
	})

	got, err := c.Chat(context.Background(), "hello there")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestChatNestedErrorInOKResponse(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := c.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestChatEmptyChoices(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no completion")
}

func TestGatewayStringErrorOn500(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"OPENAI_API_KEY is not configured"}`))
	})

	_, err := c.Chat(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is not configured")
}

func TestReasonUsesReasonOperation(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reason", body["operation"])
		w.Write([]byte(`{"choices":[{"message":{"content":"step 1: think"}}]}`))
	})

	got, err := c.Reason(context.Background(), "plan a heist")
	require.NoError(t, err)
	assert.Equal(t, "step 1: think", got)
}

func TestGenerateImageReturnsURL(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "generate-image", body["operation"])
		w.Write([]byte(`{"data":[{"url":"https://img.example/1.png"}]}`))
	})

	url, err := c.GenerateImage(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/1.png", url)
}

func TestGenerateImageEmptyData(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := c.GenerateImage(context.Background(), "a cat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no image")
}

func TestGenerateImageNestedErrorObject(t *testing.T) {
	c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"billing hard limit reached"}}`))
	})

	_, err := c.GenerateImage(context.Background(), "a cat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "billing hard limit reached")
}

func TestAPIErrorUnmarshalBothShapes(t *testing.T) {
	var e apiError
	require.NoError(t, json.Unmarshal([]byte(`"plain string"`), &e))
	assert.Equal(t, "plain string", e.Message)

	require.NoError(t, json.Unmarshal([]byte(`{"message":"object form"}`), &e))
	assert.Equal(t, "object form", e.Message)
}
