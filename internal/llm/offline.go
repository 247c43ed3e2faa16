package llm

import (
	"context"
	"fmt"
	"strings"
)

const attachmentPreviewRunes = 500

// OfflineClient answers with a canned reply quoting the user's message. It
// stands in for Gemini and Claude when no API key is configured.
type OfflineClient struct {
	provider string
}

func NewOfflineClient(provider string) *OfflineClient {
	return &OfflineClient{provider: NormalizeProvider(provider)}
}

func (c *OfflineClient) Complete(_ context.Context, req Request) (string, error) {
	content := req.Latest
	if len(req.Attachments) > 0 {
		previews := make([]string, 0, len(req.Attachments))
		for _, a := range req.Attachments {
			previews = append(previews, fmt.Sprintf("Content from %s: %s...", a.Name, firstRunes(a.Content, attachmentPreviewRunes)))
		}
		content += "\n\nFiles uploaded: " + strings.Join(previews, "\n")
	}

	switch c.provider {
	case ProviderGemini:
		return fmt.Sprintf("[Gemini Pro Response] I understand you're asking: \"%s\". This is a mock response as Gemini API integration requires additional setup with Google AI Studio credentials.", content), nil
	case ProviderClaude:
		return fmt.Sprintf("[Claude 3 Response] Thank you for your question: \"%s\". This is a mock response as Claude API integration requires Anthropic API credentials.", content), nil
	default:
		return fmt.Sprintf("[%s Response] I received your message: \"%s\". This is a mock response as no API credentials are configured.", req.Model, content), nil
	}
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// UnconfiguredClient fails every call; it holds the place of a provider whose
// credentials are missing so the error names the variable to set.
type UnconfiguredClient struct {
	envVar string
}

func NewUnconfiguredClient(envVar string) *UnconfiguredClient {
	return &UnconfiguredClient{envVar: envVar}
}

func (c *UnconfiguredClient) Complete(context.Context, Request) (string, error) {
	return "", fmt.Errorf("%s is not set", c.envVar)
}
