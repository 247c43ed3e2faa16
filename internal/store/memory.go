package store

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memSession struct {
	session  Session
	messages []Message
}

// MemoryStore keeps sessions in process memory; they are lost on restart.
// Sessions are listed in creation order.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	sessions map[string]*memSession
	now      func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memSession),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateSession(_ context.Context, title, firstMessage string) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        NewSessionID(now),
		Title:     ResolveTitle(title, firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = &memSession{session: sess}
	s.order = append(s.order, sess.ID)
	return sess, nil
}

func (s *MemoryStore) ListSessions(_ context.Context) ([]Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id].session)
	}
	return out, nil
}

func (s *MemoryStore) GetSession(_ context.Context, id string) (SessionData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ms, ok := s.sessions[id]
	if !ok {
		return SessionData{}, ErrSessionNotFound
	}
	return SessionData{Session: ms.session, Messages: cloneMessages(ms.messages)}, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, id string, msg Message) (Session, error) {
	now := s.now().UTC()
	msg = prepareMessage(msg, now)
	if msg.Files != nil {
		msg.Files = append([]UploadedFile(nil), msg.Files...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}

	if i := slices.IndexFunc(ms.messages, func(m Message) bool { return m.ID == msg.ID }); i >= 0 {
		ms.messages = append(ms.messages[:i], msg)
	} else {
		ms.messages = append(ms.messages, msg)
	}

	ms.session.MessageCount = len(ms.messages)
	ms.session.UpdatedAt = now
	if ms.session.MessageCount == 1 && msg.Role == RoleUser {
		if t := GenerateTitle(msg.Content); t != "" {
			ms.session.Title = t
		}
	}
	return ms.session, nil
}

func (s *MemoryStore) RenameSession(_ context.Context, id, title string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	ms.session.Title = title
	ms.session.UpdatedAt = s.now().UTC()
	return ms.session, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	s.remove(id)
	return nil
}

func (s *MemoryStore) PurgeIdle(_ context.Context, before time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var purged []string
	for _, id := range s.order {
		if s.sessions[id].session.UpdatedAt.Before(before) {
			purged = append(purged, id)
		}
	}
	for _, id := range purged {
		s.remove(id)
	}
	return purged, nil
}

func (s *MemoryStore) Close() error { return nil }

// remove must be called with mu held.
func (s *MemoryStore) remove(id string) {
	delete(s.sessions, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
