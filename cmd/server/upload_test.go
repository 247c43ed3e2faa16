package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadHandler(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		contentType   string
		content       []byte
		settings      string
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "plain text",
			filename:    "notes.txt",
			contentType: "text/plain",
			content:     []byte("Day 1: Rome"),
			wantStatus:  http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var result map[string]any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if result["success"] != true || result["content"] != "Day 1: Rome" ||
					result["originalName"] != "notes.txt" || result["type"] != "text/plain" || result["size"] != float64(11) {
					t.Errorf("Unexpected response %v", result)
				}
			},
		},
		{
			name:        "content clipped by settings",
			filename:    "long.txt",
			contentType: "text/plain",
			content:     []byte(strings.Repeat("x", 150)),
			settings:    `{"fileContentLimit":100,"enableTranslation":false}`,
			wantStatus:  http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var result map[string]any
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				if result["content"] != strings.Repeat("x", 100)+"..." {
					t.Errorf("Unexpected content %v", result["content"])
				}
			},
		},
		{
			name:        "translated with defaults",
			filename:    "hola.txt",
			contentType: "text/plain",
			content:     []byte("Olá, como está?"),
			wantStatus:  http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), "[Translated from") && !strings.Contains(w.Body.String(), "[Detected:") {
					t.Errorf("Expected translated content, got %s", w.Body.String())
				}
			},
		},
		{
			name:        "missing Content-Type detected from extension",
			filename:    "page.html",
			contentType: "",
			content:     []byte("<html><body><p>Hotel Roma</p></body></html>"),
			settings:    `{"enableTranslation":false}`,
			wantStatus:  http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), `"content": "Hotel Roma"`) {
					t.Errorf("Unexpected body %s", w.Body.String())
				}
			},
		},
		{
			name:        "unsupported type",
			filename:    "photo.png",
			contentType: "image/png",
			content:     []byte{0x89, 'P', 'N', 'G'},
			wantStatus:  http.StatusUnsupportedMediaType,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				if !strings.Contains(w.Body.String(), "Unsupported file type: image/png") {
					t.Errorf("Unexpected body %s", w.Body.String())
				}
			},
		},
		{
			name:        "broken pdf",
			filename:    "broken.pdf",
			contentType: "application/pdf",
			content:     []byte("not a pdf"),
			wantStatus:  http.StatusInternalServerError,
			checkResponse: expectError("Failed to process file"),
		},
		{
			name:        "invalid settings",
			filename:    "notes.txt",
			contentType: "text/plain",
			content:     []byte("hi"),
			settings:    `{bad`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "file too large",
			filename:    "large.txt",
			contentType: "text/plain",
			content:     make([]byte, 2*1024*1024), // 2MB
			wantStatus:  http.StatusRequestEntityTooLarge,
		},
		{
			name:        "file at the size limit",
			filename:    "exact.txt",
			contentType: "text/plain",
			content:     bytes.Repeat([]byte("a"), 1024*1024),
			settings:    `{"enableTranslation":false}`,
			wantStatus:  http.StatusOK,
		},
		{
			name:          "file one byte over the limit",
			filename:      "over.txt",
			contentType:   "text/plain",
			content:       bytes.Repeat([]byte("a"), 1024*1024+1),
			settings:      `{"enableTranslation":false}`,
			wantStatus:    http.StatusRequestEntityTooLarge,
			checkResponse: expectError("File too large"),
		},
		{
			name:          "no file",
			settings:      `{}`,
			wantStatus:    http.StatusBadRequest,
			checkResponse: expectError("No file uploaded"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(nil, nil, nil, nil)
			handler := uploadHandler(deps)

			req, err := createMultipartRequest(tt.filename, tt.contentType, tt.content, tt.settings)
			if err != nil {
				t.Fatalf("Failed to create request: %v", err)
			}

			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}

	t.Run("not multipart", func(t *testing.T) {
		deps := newTestDeps(nil, nil, nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		uploadHandler(deps)(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
