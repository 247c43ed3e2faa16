package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient calls Google's Gemini API as a multi-turn chat.
type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	cs, last := newGeminiChat(c.client.GenerativeModel(req.Model), req)
	resp, err := cs.SendMessage(ctx, last)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return orNoResponse(extractText(resp)), nil
}

// newGeminiChat applies the generation settings of req to model and returns a
// chat seeded with the earlier turns, plus the part to send.
func newGeminiChat(model *genai.GenerativeModel, req Request) (*genai.ChatSession, genai.Part) {
	model.SetTemperature(float32(req.temperature()))
	model.SetMaxOutputTokens(int32(req.maxTokens()))
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	history, last := req.split()
	cs := model.StartChat()
	for _, t := range history {
		role := "user"
		if t.Role == RoleAssistant {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Content)}})
	}
	return cs, genai.Text(last.Content)
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
