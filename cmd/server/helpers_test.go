package main

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"

	"aio-chat/internal/app"
	"aio-chat/internal/chat"
	"aio-chat/internal/config"
	"aio-chat/internal/events"
	"aio-chat/internal/llm"
	"aio-chat/internal/search"
	"aio-chat/internal/store"
	"aio-chat/internal/translate"
)

func newTestDeps(st store.Store, client llm.Client, bus events.Bus, searcher search.Searcher) app.Deps {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := app.Deps{
		Store:  st,
		LLM:    client,
		Events: bus,
		Config: config.Config{
			MaxUploadSize: 1024 * 1024, // 1MB for tests
		},
		Log:        log,
		Searcher:   searcher,
		Translator: translate.NewPhraseTranslator(log, nil, 0),
		Defaults: chat.DefaultSettings(config.Defaults{
			FileContentLimit:      5000,
			TranslationLimit:      5000,
			EnableTranslation:     true,
			WebSearchResultsLimit: 5,
			SystemPrompt:          chat.DefaultSystemPrompt,
		}),
	}
	deps.Wire()
	return deps
}

func createMultipartRequest(filename, contentType string, content []byte, settings string) (*http.Request, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if filename != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(content); err != nil {
			return nil, err
		}
	}
	if settings != "" {
		if err := writer.WriteField("settings", settings); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}
