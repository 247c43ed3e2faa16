package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/generative-ai-go/genai"
)

func TestClaudeClientComplete(t *testing.T) {
	var captured struct {
		Model       string  `json:"model"`
		MaxTokens   int64   `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		System      []struct {
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

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-haiku-20240307","content":[{"type":"text","text":"Ciao"},{"type":"text","text":"!"}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":2}}`))
	}))
	defer srv.Close()

	cli := anthropic.NewClient(
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithAPIKey("test"),
		anthropicoption.WithMaxRetries(0),
	)
	c := &ClaudeClient{client: &cli}

	got, err := c.Complete(context.Background(), Request{
		Model:  "claude-3-haiku-20240307",
		System: "Be brief",
		Turns: []Turn{
			{Role: RoleUser, Content: "Hi"},
			{Role: RoleAssistant, Content: "Hello"},
			{Role: RoleUser, Content: "Translate"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Ciao!" {
		t.Errorf("expected 'Ciao!', got %q", got)
	}
	if captured.Model != "claude-3-haiku-20240307" || captured.MaxTokens != DefaultMaxTokens || captured.Temperature != DefaultTemperature {
		t.Errorf("unexpected request params: %+v", captured)
	}
	if len(captured.System) != 1 || captured.System[0].Text != "Be brief" {
		t.Errorf("unexpected system prompt %+v", captured.System)
	}
	roles := make([]string, 0, len(captured.Messages))
	for _, m := range captured.Messages {
		roles = append(roles, m.Role)
	}
	if strings.Join(roles, ",") != "user,assistant,user" {
		t.Errorf("unexpected roles %v", roles)
	}
	if last := captured.Messages[len(captured.Messages)-1]; len(last.Content) != 1 || last.Content[0].Text != "Translate" {
		t.Errorf("unexpected last message %+v", last)
	}
}

func TestClaudeClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	cli := anthropic.NewClient(
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithAPIKey("bad"),
		anthropicoption.WithMaxRetries(0),
	)
	c := &ClaudeClient{client: &cli}

	_, err := c.Complete(context.Background(), Request{Model: "claude-3-haiku-20240307", Turns: []Turn{{Role: RoleUser, Content: "Hi"}}})
	if err == nil || !strings.Contains(err.Error(), "Claude API error") {
		t.Errorf("expected wrapped API error, got %v", err)
	}
}

func TestNewGeminiChat(t *testing.T) {
	model := &genai.GenerativeModel{}
	cs, last := newGeminiChat(model, Request{
		Model:  "gemini-pro",
		System: "Be brief",
		Turns: []Turn{
			{Role: RoleUser, Content: "Hi"},
			{Role: RoleAssistant, Content: "Hello"},
			{Role: RoleUser, Content: "Translate"},
		},
	})

	if last != genai.Text("Translate") {
		t.Errorf("expected last turn to be sent, got %v", last)
	}
	if model.Temperature == nil || *model.Temperature != float32(DefaultTemperature) {
		t.Errorf("unexpected temperature %v", model.Temperature)
	}
	if model.MaxOutputTokens == nil || *model.MaxOutputTokens != DefaultMaxTokens {
		t.Errorf("unexpected max output tokens %v", model.MaxOutputTokens)
	}
	if model.SystemInstruction == nil || len(model.SystemInstruction.Parts) != 1 || model.SystemInstruction.Parts[0] != genai.Text("Be brief") {
		t.Errorf("unexpected system instruction %+v", model.SystemInstruction)
	}

	if len(cs.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(cs.History))
	}
	wantRoles := []string{"user", "model"}
	wantText := []genai.Text{"Hi", "Hello"}
	for i, c := range cs.History {
		if c.Role != wantRoles[i] || len(c.Parts) != 1 || c.Parts[0] != wantText[i] {
			t.Errorf("history %d = %+v", i, c)
		}
	}
}

func TestNewGeminiChatWithoutTurns(t *testing.T) {
	model := &genai.GenerativeModel{}
	cs, last := newGeminiChat(model, Request{Model: "gemini-pro", Latest: "Plan Rome"})

	if last != genai.Text("Plan Rome") {
		t.Errorf("expected latest text to be sent, got %v", last)
	}
	if len(cs.History) != 0 {
		t.Errorf("expected empty history, got %d", len(cs.History))
	}
	if model.SystemInstruction != nil {
		t.Errorf("expected no system instruction, got %+v", model.SystemInstruction)
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hola"), genai.Text(" amigo")}}},
			{Content: nil},
		},
	}
	if got := extractText(resp); got != "Hola amigo" {
		t.Errorf("expected 'Hola amigo', got %q", got)
	}
	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}
