package main

import (
	"net/http"

	"aio-chat/internal/app"
	"aio-chat/internal/chat"
	"aio-chat/internal/extract"
	"aio-chat/internal/httputil"
	"aio-chat/internal/llm"
)

func modelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"models": llm.Models()})
	}
}

type defaultsResponse struct {
	Settings           chat.Settings `json:"settings"`
	Limits             chat.Limits   `json:"limits"`
	PredefinedPrompts  []string      `json:"predefinedPrompts"`
	SupportedFileTypes []string      `json:"supportedFileTypes"`
	MaxFileSize        int64         `json:"maxFileSize"`
}

func defaultsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, defaultsResponse{
			Settings:           deps.Defaults,
			Limits:             chat.SettingsLimits(),
			PredefinedPrompts:  chat.PredefinedPrompts,
			SupportedFileTypes: extract.SupportedExtensions,
			MaxFileSize:        deps.Config.MaxUploadSize,
		})
	}
}
