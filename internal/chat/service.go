package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"aio-chat/internal/llm"
	"aio-chat/internal/render"
	"aio-chat/internal/search"
	"aio-chat/internal/store"
)

// maxParallelSearches bounds the web searches run for one request.
const maxParallelSearches = 4

var ErrNoMessages = errors.New("messages array is required")

type Request struct {
	Messages  []store.Message
	Model     string
	SessionID string
	Settings  Settings
}

type Reply struct {
	Content   string    `json:"content"`
	HTML      string    `json:"html"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// Service composes a conversation with file and search context and sends it
// to the model's provider.
type Service struct {
	log      *slog.Logger
	store    store.Store
	llm      llm.Client
	searcher search.Searcher
	now      func() time.Time
}

func NewService(log *slog.Logger, st store.Store, client llm.Client, searcher search.Searcher) *Service {
	return &Service{
		log:      log,
		store:    st,
		llm:      client,
		searcher: searcher,
		now:      time.Now,
	}
}

func (s *Service) Reply(ctx context.Context, req Request) (Reply, error) {
	if len(req.Messages) == 0 {
		return Reply{}, ErrNoMessages
	}
	if _, ok := llm.Lookup(req.Model); !ok {
		return Reply{}, llm.ErrUnsupportedModel
	}

	history := s.history(ctx, req.SessionID, req.Messages)
	turns, err := s.composeTurns(ctx, history, req.Settings)
	if err != nil {
		return Reply{}, err
	}

	latest := history[len(history)-1]
	llmReq := llm.Request{
		Model:       req.Model,
		Turns:       turns,
		MaxTokens:   llm.DefaultMaxTokens,
		Temperature: llm.DefaultTemperature,
		Latest:      latest.Content,
	}
	if prompt := strings.TrimSpace(req.Settings.SystemPrompt); prompt != "" {
		llmReq.System = prompt
	}
	for _, f := range latest.Files {
		llmReq.Attachments = append(llmReq.Attachments, llm.Attachment{Name: f.Name, Content: f.Content})
	}

	start := s.now()
	content, err := s.llm.Complete(ctx, llmReq)
	if err != nil {
		return Reply{}, err
	}
	s.log.Info("chat reply generated", "model", req.Model, "turns", len(turns), "duration", s.now().Sub(start))

	return Reply{
		Content:   content,
		HTML:      render.Markdown(content),
		Model:     req.Model,
		Timestamp: s.now(),
	}, nil
}

// history returns the stored conversation followed by the newest provided
// message. Without a usable session the provided messages are used as is.
func (s *Service) history(ctx context.Context, sessionID string, provided []store.Message) []store.Message {
	if sessionID == "" || s.store == nil {
		return provided
	}
	data, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			s.log.Warn("load session history failed", "session_id", sessionID, "err", err)
		}
		return provided
	}

	last := provided[len(provided)-1]
	stored := data.Messages
	if n := len(stored); n > 0 && last.ID != "" && stored[n-1].ID == last.ID {
		return stored
	}
	return append(stored, last)
}

func (s *Service) composeTurns(ctx context.Context, msgs []store.Message, settings Settings) ([]llm.Turn, error) {
	turns := make([]llm.Turn, len(msgs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelSearches)

	for i, msg := range msgs {
		content := msg.Content + fileBlocks(msg.Files, settings.FileContentLimit)
		turns[i] = llm.Turn{Role: string(msg.Role), Content: content}

		if !settings.EnableWebSearch || msg.Role != store.RoleUser || s.searcher == nil {
			continue
		}
		g.Go(func() error {
			results := s.searcher.Search(gctx, msg.Content, settings.WebSearchResultsLimit)
			turns[i].Content += search.FormatForPrompt(msg.Content, results)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compose turns: %w", err)
	}
	return turns, nil
}

func fileBlocks(files []store.UploadedFile, limit int) string {
	if len(files) == 0 {
		return ""
	}
	blocks := make([]string, 0, len(files))
	for _, f := range files {
		blocks = append(blocks, fmt.Sprintf("\n\n--- Content from %s ---\n%s", f.Name, Clip(f.Content, limit)))
	}
	return strings.Join(blocks, "\n")
}
