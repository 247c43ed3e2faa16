package main

import (
	"net/http"

	"aio-chat/internal/app"
	"aio-chat/internal/httputil"
	"aio-chat/internal/search"
	"aio-chat/internal/translate"
)

type translateRequest struct {
	Text           string `json:"text" validate:"required"`
	TargetLanguage string `json:"targetLanguage"`
}

func translateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(deps.Log, w, "Text is required", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(req); err != nil {
			httputil.ValidationError(deps.Log, w, "Text is required", err)
			return
		}
		if req.TargetLanguage == "" {
			req.TargetLanguage = translate.DefaultTarget
		}

		res, err := deps.Translator.Translate(r.Context(), req.Text, req.TargetLanguage)
		if err != nil {
			httputil.Fail(deps.Log, w, "Translation failed", err, http.StatusInternalServerError)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit"`
}

type searchResponse struct {
	Results []search.Result `json:"results"`
	Query   string          `json:"query"`
}

func searchHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.Fail(deps.Log, w, "Query parameter is required", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(req); err != nil {
			httputil.ValidationError(deps.Log, w, "Query parameter is required", err)
			return
		}

		results := deps.Searcher.Search(r.Context(), req.Query, search.ClampLimit(req.Limit))
		httputil.WriteJSON(w, http.StatusOK, searchResponse{Results: results, Query: req.Query})
	}
}
