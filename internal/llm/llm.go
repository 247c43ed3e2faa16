package llm

import (
	"context"
	"errors"
	"strings"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultMaxTokens   = 2000
	DefaultTemperature = 0.7

	// NoResponse is returned when a provider answers with empty content.
	NoResponse = "No response generated"
)

var (
	ErrUnsupportedModel    = errors.New("unsupported model")
	ErrUnsupportedProvider = errors.New("unsupported model provider")
)

// Turn is one provider-facing message with file and search context already folded in.
type Turn struct {
	Role    string
	Content string
}

// Attachment is a file on the newest message.
type Attachment struct {
	Name    string
	Content string
}

type Request struct {
	Model       string
	System      string
	Turns       []Turn
	MaxTokens   int64
	Temperature float64

	// Latest is the newest message as the user typed it, used by offline replies.
	Latest      string
	Attachments []Attachment
}

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

func (r Request) maxTokens() int64 {
	if r.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return r.MaxTokens
}

func (r Request) temperature() float64 {
	if r.Temperature <= 0 {
		return DefaultTemperature
	}
	return r.Temperature
}

// split returns the turns before the last one and the last one.
func (r Request) split() ([]Turn, Turn) {
	if len(r.Turns) == 0 {
		return nil, Turn{Role: RoleUser, Content: r.Latest}
	}
	return r.Turns[:len(r.Turns)-1], r.Turns[len(r.Turns)-1]
}

func orNoResponse(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoResponse
	}
	return s
}
