package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultTitle names sessions created without a title or first message.
const DefaultTitle = "New Chat"

const titleMaxRunes = 50

var ErrSessionNotFound = errors.New("session not found")

// UploadedFile is a file attached to a message; Content holds the extracted text.
type UploadedFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
	Content string `json:"content"`
}

type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Files     []UploadedFile `json:"files,omitempty"`
}

// Session is the summary shown in the sidebar. MessageCount always equals
// the number of stored messages.
type Session struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	MessageCount int       `json:"messageCount"`
}

type SessionData struct {
	Session  Session   `json:"session"`
	Messages []Message `json:"messages"`
}

// Store defines the session persistence contract.
type Store interface {
	CreateSession(ctx context.Context, title, firstMessage string) (Session, error)
	ListSessions(ctx context.Context) ([]Session, error)
	GetSession(ctx context.Context, id string) (SessionData, error)
	// AppendMessage adds msg to the session. A message whose ID is already
	// stored replaces that message and drops everything after it.
	AppendMessage(ctx context.Context, id string, msg Message) (Session, error)
	RenameSession(ctx context.Context, id, title string) (Session, error)
	DeleteSession(ctx context.Context, id string) error
	// PurgeIdle deletes sessions not updated since before and returns their ids.
	PurgeIdle(ctx context.Context, before time.Time) ([]string, error)
	Close() error
}

// GenerateTitle derives a session title from message text.
func GenerateTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes]) + "..."
	}
	return trimmed
}

// ResolveTitle picks the explicit title, then one generated from firstMessage, then DefaultTitle.
func ResolveTitle(title, firstMessage string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if t := GenerateTitle(firstMessage); t != "" {
		return t
	}
	return DefaultTitle
}

// NewSessionID returns an id of the form session_<unix-millis>_<9 chars>.
func NewSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), suffix)
}

// prepareMessage fills a missing id or timestamp.
func prepareMessage(msg Message, now time.Time) Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}
	return msg
}

func cloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	for i, m := range msgs {
		if m.Files != nil {
			m.Files = append([]UploadedFile(nil), m.Files...)
		}
		out[i] = m
	}
	return out
}
