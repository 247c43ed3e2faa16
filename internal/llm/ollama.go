package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OllamaClient talks to a local Ollama server through its OpenAI-compatible
// endpoint. When the server cannot be reached it answers with a canned reply
// instead of failing the request.
type OllamaClient struct {
	log    *slog.Logger
	client Client
}

// NewOllamaClient points an OpenAI client at baseURL (e.g. http://localhost:11434).
func NewOllamaClient(log *slog.Logger, baseURL string) *OllamaClient {
	cli := openai.NewClient(
		option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/v1/"),
		option.WithAPIKey("ollama"),
		option.WithMaxRetries(0),
	)
	return &OllamaClient{log: log, client: &OpenAIClient{client: &cli}}
}

func (c *OllamaClient) Complete(ctx context.Context, req Request) (string, error) {
	out, err := c.client.Complete(ctx, req)
	if err != nil {
		c.log.Warn("ollama unavailable, using offline reply", "model", req.Model, "err", err)
		return OllamaOfflineReply(req.Model, req.Latest), nil
	}
	return out, nil
}

// OllamaOfflineReply is the canned answer used when Ollama is not running.
func OllamaOfflineReply(model, content string) string {
	return fmt.Sprintf("[%s Response] I received your message: \"%s\". This is a mock response as Ollama server is not running locally. To use Ollama models, please install and run Ollama locally.", model, content)
}
