package main

import (
	"errors"
	"net/http"

	"aio-chat/internal/app"
	"aio-chat/internal/chat"
	"aio-chat/internal/httputil"
	"aio-chat/internal/llm"
	"aio-chat/internal/store"
)

type chatRequest struct {
	Messages  []store.Message     `json:"messages"`
	Model     string              `json:"model"`
	SessionID string              `json:"sessionId"`
	Settings  *chat.SettingsInput `json:"settings"`
}

func chatHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
			httputil.Fail(deps.Log, w, "Invalid request body", err, http.StatusBadRequest)
			return
		}

		settings := deps.Defaults
		if req.Settings != nil {
			settings = req.Settings.Normalize(deps.Defaults)
		}

		reply, err := deps.Chat.Reply(r.Context(), chat.Request{
			Messages:  req.Messages,
			Model:     req.Model,
			SessionID: req.SessionID,
			Settings:  settings,
		})
		switch {
		case errors.Is(err, chat.ErrNoMessages):
			httputil.WriteError(w, http.StatusBadRequest, "Messages array is required", nil)
		case errors.Is(err, llm.ErrUnsupportedModel):
			httputil.WriteError(w, http.StatusBadRequest, "Unsupported model", nil)
		case errors.Is(err, llm.ErrUnsupportedProvider):
			httputil.WriteError(w, http.StatusBadRequest, "Unsupported model provider", nil)
		case err != nil:
			httputil.Fail(deps.Log.With("model", req.Model), w, "Failed to process chat request", err, http.StatusInternalServerError)
		default:
			httputil.WriteJSON(w, http.StatusOK, reply)
		}
	}
}
