package main

import (
	"errors"
	"net/http"
	"time"

	"aio-chat/internal/app"
	"aio-chat/internal/events"
	"aio-chat/internal/httputil"
	"aio-chat/internal/store"
)

const sessionNotFound = "Session not found"

type createSessionRequest struct {
	Title        string `json:"title"`
	FirstMessage string `json:"firstMessage"`
}

type messagePayload struct {
	ID        string               `json:"id"`
	Role      string               `json:"role" validate:"required,oneof=user assistant"`
	Content   string               `json:"content"`
	Timestamp time.Time            `json:"timestamp"`
	Files     []store.UploadedFile `json:"files"`
}

func (m messagePayload) toMessage() store.Message {
	return store.Message{
		ID:        m.ID,
		Role:      store.Role(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Files:     m.Files,
	}
}

type updateSessionRequest struct {
	SessionID string          `json:"sessionId"`
	Message   *messagePayload `json:"message"`
	NewTitle  string          `json:"newTitle"`
}

type sessionResponse struct {
	Session store.Session `json:"session"`
}

func sessionsHandler(deps app.Deps) http.HandlerFunc {
	deny := httputil.MethodNotAllowed(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)

	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getSessions(deps, w, r)
		case http.MethodPost:
			createSession(deps, w, r)
		case http.MethodPut:
			updateSession(deps, w, r)
		case http.MethodDelete:
			deleteSession(deps, w, r)
		default:
			deny(w, r)
		}
	}
}

func getSessions(deps app.Deps, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if id := r.URL.Query().Get("sessionId"); id != "" {
		data, err := deps.Store.GetSession(ctx, id)
		if errors.Is(err, store.ErrSessionNotFound) {
			httputil.WriteError(w, http.StatusNotFound, sessionNotFound, nil)
			return
		}
		if err != nil {
			httputil.Fail(deps.Log, w, "Failed to load session", err, http.StatusInternalServerError)
			return
		}
		if data.Messages == nil {
			data.Messages = []store.Message{}
		}
		httputil.WriteJSON(w, http.StatusOK, data)
		return
	}

	sessions, err := deps.Store.ListSessions(ctx)
	if err != nil {
		httputil.Fail(deps.Log, w, "Failed to list sessions", err, http.StatusInternalServerError)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func createSession(deps app.Deps, w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		httputil.Fail(deps.Log, w, "Invalid request body", err, http.StatusBadRequest)
		return
	}

	session, err := deps.Store.CreateSession(r.Context(), req.Title, req.FirstMessage)
	if err != nil {
		httputil.Fail(deps.Log, w, "Failed to create session", err, http.StatusInternalServerError)
		return
	}
	publish(r.Context(), deps, events.New(events.TypeSessionCreated, session.ID, &session))
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{Session: session})
}

func updateSession(deps app.Deps, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateSessionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		httputil.Fail(deps.Log, w, "Invalid request body", err, http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		httputil.WriteError(w, http.StatusNotFound, sessionNotFound, nil)
		return
	}
	if req.Message != nil {
		if err := httputil.Validator.Struct(req.Message); err != nil {
			httputil.ValidationError(deps.Log, w, "Invalid message", err)
			return
		}
	}

	var (
		session store.Session
		err     error
	)
	switch {
	case req.Message != nil:
		session, err = deps.Store.AppendMessage(ctx, req.SessionID, req.Message.toMessage())
	default:
		var data store.SessionData
		data, err = deps.Store.GetSession(ctx, req.SessionID)
		session = data.Session
	}
	if err == nil && req.NewTitle != "" {
		session, err = deps.Store.RenameSession(ctx, req.SessionID, req.NewTitle)
	}
	if errors.Is(err, store.ErrSessionNotFound) {
		httputil.WriteError(w, http.StatusNotFound, sessionNotFound, nil)
		return
	}
	if err != nil {
		httputil.Fail(deps.Log.With("session_id", req.SessionID), w, "Failed to update session", err, http.StatusInternalServerError)
		return
	}

	if req.Message != nil || req.NewTitle != "" {
		publish(ctx, deps, events.New(events.TypeSessionUpdated, session.ID, &session))
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{Session: session})
}

func deleteSession(deps app.Deps, w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("sessionId")
	if id == "" {
		httputil.WriteError(w, http.StatusNotFound, sessionNotFound, nil)
		return
	}

	err := deps.Store.DeleteSession(r.Context(), id)
	if errors.Is(err, store.ErrSessionNotFound) {
		httputil.WriteError(w, http.StatusNotFound, sessionNotFound, nil)
		return
	}
	if err != nil {
		httputil.Fail(deps.Log.With("session_id", id), w, "Failed to delete session", err, http.StatusInternalServerError)
		return
	}
	publish(r.Context(), deps, events.New(events.TypeSessionDeleted, id, nil))
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "Session deleted successfully"})
}
