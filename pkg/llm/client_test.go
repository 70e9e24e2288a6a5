package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	System    []struct {
		Text string `json:"text"`
	} `json:"system"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"messages"`
}

func messageResponse(texts ...string) (body map[string]any) {
	content := make([]map[string]any, 0, len(texts))
	for _, t := range texts {
		content = append(content, map[string]any{"type": "text", "text": t})
	}
	body = map[string]any{
		"id":            "msg_test",
		"type":          "message",
		"role":          "assistant",
		"model":         DefaultGradingModel,
		"content":       content,
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage":         map[string]any{"input_tokens": 10, "output_tokens": 20},
	}
	return body
}

// newTestServer answers every messages request with reply and records the
// last request body.
func newTestServer(t *testing.T, status int, reply any, captured *capturedRequest) (server *httptest.Server) {
	t.Helper()

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(server.Close)

	return server
}

func testClient(server *httptest.Server, model string) (client *Client) {
	client = NewClient("test-key", model, option.WithBaseURL(server.URL), option.WithMaxRetries(0))
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("k", "")
	assert.Equal(t, DefaultGradingModel, client.Model())
	assert.Equal(t, int64(DefaultMaxTokens), client.maxTokens)

	bigger := client.WithMaxTokens(16000)
	assert.Equal(t, int64(16000), bigger.maxTokens)
	assert.Equal(t, int64(DefaultMaxTokens), client.maxTokens, "original is unchanged")
}

func TestCompleteSendsConversation(t *testing.T) {
	var captured capturedRequest
	server := newTestServer(t, http.StatusOK, messageResponse("Hello ", "there."), &captured)

	client := testClient(server, DefaultRoleplayModel)
	text, err := client.Complete(context.Background(), "You are a prospect.", []Message{
		{Role: RoleUser, Content: "Hi, thanks for joining."},
		{Role: RoleAssistant, Content: "Sure."},
		{Role: RoleUser, Content: "What made you book the call?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", text)

	assert.Equal(t, DefaultRoleplayModel, captured.Model)
	assert.Equal(t, DefaultMaxTokens, captured.MaxTokens)
	require.Len(t, captured.System, 1)
	assert.Equal(t, "You are a prospect.", captured.System[0].Text)

	require.Len(t, captured.Messages, 3)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "assistant", captured.Messages[1].Role)
	require.Len(t, captured.Messages[2].Content, 1)
	assert.Equal(t, "What made you book the call?", captured.Messages[2].Content[0].Text)
}

func TestCompleteRejectsBadInput(t *testing.T) {
	client := NewClient("k", "")

	_, err := client.Complete(context.Background(), "", nil)
	assert.Error(t, err)

	_, err = client.Complete(context.Background(), "", []Message{{Role: "system", Content: "x"}})
	assert.ErrorContains(t, err, "unsupported message role")
}

func TestCompleteAPIError(t *testing.T) {
	server := newTestServer(t, http.StatusBadRequest, map[string]any{
		"type":  "error",
		"error": map[string]any{"type": "invalid_request_error", "message": "bad request"},
	}, nil)

	_, err := testClient(server, "").Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Claude request failed")
}

func TestCompleteEmptyContent(t *testing.T) {
	server := newTestServer(t, http.StatusOK, messageResponse(), nil)

	_, err := testClient(server, "").Complete(context.Background(), "", []Message{{Role: RoleUser, Content: "hi"}})
	assert.ErrorContains(t, err, "no text content")
}

func TestCompleteContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := testClient(server, "").Complete(ctx, "", []Message{{Role: RoleUser, Content: "hi"}})
	assert.Error(t, err)
}
