package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"aio-chat/internal/app"
	"aio-chat/internal/chat"
	"aio-chat/internal/extract"
	"aio-chat/internal/httputil"
)

// multipartOverhead is the room left for boundaries and the settings field
// on top of the file itself.
const multipartOverhead = 1 << 20

type uploadResponse struct {
	Success bool `json:"success"`
	chat.Document
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)
		// maxFileSize as the memory budget keeps every part off disk.
		if err := r.ParseMultipartForm(maxFileSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				httputil.Fail(deps.Log, w, "File too large", fmt.Errorf("maximum upload size is %d bytes", maxFileSize), http.StatusRequestEntityTooLarge)
				return
			}
			httputil.Fail(deps.Log, w, "No file uploaded", err, http.StatusBadRequest)
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "No file uploaded", err, http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, "File too large", fmt.Errorf("maximum upload size is %d bytes", maxFileSize), http.StatusRequestEntityTooLarge)
			return
		}

		settings := deps.Defaults
		if raw := r.FormValue("settings"); raw != "" {
			var in chat.SettingsInput
			if err := json.Unmarshal([]byte(raw), &in); err != nil {
				httputil.Fail(deps.Log, w, "Invalid settings", err, http.StatusBadRequest)
				return
			}
			settings = in.Normalize(deps.Defaults)
		}

		data, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "Failed to process file", err, http.StatusInternalServerError)
			return
		}

		declared := header.Header.Get("Content-Type")
		doc, err := deps.Uploads.Process(r.Context(), header.Filename, declared, data, settings)
		if errors.Is(err, extract.ErrUnsupportedType) {
			contentType := extract.DetectType(header.Filename, declared, data)
			deps.Log.Warn("unsupported upload type", "file", header.Filename, "type", contentType)
			httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorBody{
				Error:   "Failed to process file",
				Details: "Unsupported file type: " + contentType,
			})
			return
		}
		if err != nil {
			httputil.Fail(deps.Log.With("file", header.Filename), w, "Failed to process file", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, uploadResponse{Success: true, Document: doc})
	}
}
