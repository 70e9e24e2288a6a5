package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

const (
	// DefaultGradingModel grades transcripts.
	DefaultGradingModel = "claude-sonnet-4-5-20250929"
	// DefaultRoleplayModel plays the simulated prospect.
	DefaultRoleplayModel = "claude-sonnet-4-20250514"
	// DefaultMaxTokens bounds a single completion.
	DefaultMaxTokens = 4096
)

// Completer sends a conversation to a model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, system string, messages []Message) (text string, err error)
}

// Client is a Claude API client.
type Client struct {
	api       anthropic.Client
	model     string
	maxTokens int64
}

// NewClient creates a Claude client. Extra request options are passed to the
// SDK, e.g. option.WithBaseURL in tests.
func NewClient(apiKey, model string, opts ...option.RequestOption) (client *Client) {
	if model == "" {
		model = DefaultGradingModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)

	client = &Client{
		api:       anthropic.NewClient(opts...),
		model:     model,
		maxTokens: DefaultMaxTokens,
	}
	return client
}

// WithMaxTokens returns a copy of the client with a different token ceiling.
func (c *Client) WithMaxTokens(n int64) (client *Client) {
	clone := *c
	clone.maxTokens = n
	client = &clone
	return client
}

// Model is the model the client sends requests to.
func (c *Client) Model() (model string) {
	model = c.model
	return model
}

// Complete sends the conversation and concatenates the text blocks of the reply.
func (c *Client) Complete(ctx context.Context, system string, messages []Message) (text string, err error) {
	if len(messages) == 0 {
		err = errors.New("no messages to send")
		return text, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages:  make([]anthropic.MessageParam, 0, len(messages)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		switch m.Role {
		case RoleUser:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		default:
			err = errors.Errorf("unsupported message role %q", m.Role)
			return text, err
		}
	}

	var resp *anthropic.Message
	resp, err = c.api.Messages.New(ctx, params)
	if err != nil {
		err = errors.Wrap(err, "Claude request failed")
		return text, err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text = sb.String()
	if text == "" {
		err = errors.New("no text content in Claude response")
		return text, err
	}

	return text, err
}
