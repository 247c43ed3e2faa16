package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeClient calls the Anthropic Messages API.
type ClaudeClient struct {
	client *anthropic.Client
}

func NewClaudeClient(apiKey string) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	cli := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeClient{client: &cli}, nil
}

func (c *ClaudeClient) Complete(ctx context.Context, req Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   req.maxTokens(),
		Temperature: anthropic.Float(req.temperature()),
		Messages:    make([]anthropic.MessageParam, 0, len(req.Turns)),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	for _, t := range req.Turns {
		block := anthropic.NewTextBlock(t.Content)
		if t.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return orNoResponse(text.String()), nil
}
