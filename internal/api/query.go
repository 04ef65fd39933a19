package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lenzenc/convo/internal/nl2sql"
	"github.com/lenzenc/convo/internal/observability"
	"github.com/lenzenc/convo/internal/query"
)

type queryRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit"`
	Debug    bool   `json:"debug"`
}

type queryResponse struct {
	Question        string         `json:"question"`
	SQLQuery        string         `json:"sql_query,omitempty"`
	UsedView        string         `json:"used_view,omitempty"`
	Provider        string         `json:"provider"`
	Model           string         `json:"model"`
	Columns         []string       `json:"columns"`
	Data            []query.Record `json:"data"`
	RowCount        int            `json:"row_count"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
}

type translateRequest struct {
	Question string `json:"question"`
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Translator == nil || deps.Sessions == nil || deps.Executor == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query dependencies are not configured", false, nil)
		return
	}

	var request queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	limit := request.Limit
	if limit <= 0 || (deps.MaxRows > 0 && limit > deps.MaxRows) {
		limit = deps.MaxRows
	}

	translation, err := translate(deps, w, r, request.Question)
	if err != nil {
		return
	}

	session, err := deps.Sessions()
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "ENGINE_INIT_FAILED", err.Error(), true, nil)
		return
	}
	defer func() { _ = session.Close() }()

	start := time.Now()
	result, err := deps.Executor.Run(r.Context(), session, translation.SQL, query.Options{Limit: limit})
	if err != nil {
		observability.ObserveQuery("error", time.Since(start))
		writeQueryError(w, r, err)
		return
	}
	observability.ObserveQuery("ok", time.Since(start))
	if translation.UsedView != "" {
		observability.ObserveViewExecution(translation.UsedView)
	}

	response := queryResponse{
		Question:        request.Question,
		UsedView:        translation.UsedView,
		Provider:        translation.Provider,
		Model:           translation.Model,
		Columns:         result.Columns,
		Data:            result.Data,
		RowCount:        result.RowCount,
		ExecutionTimeMs: result.ExecutionTimeMs,
	}
	if request.Debug {
		response.SQLQuery = result.Query
	}
	writeJSON(w, http.StatusOK, response)
}

func handleTranslate(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Translator == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "TRANSLATOR_NOT_CONFIGURED", "translator is not configured", false, nil)
		return
	}

	var request translateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid translate request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	translation, err := translate(deps, w, r, request.Question)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"question":  request.Question,
		"sql":       translation.SQL,
		"used_view": translation.UsedView,
		"provider":  translation.Provider,
		"model":     translation.Model,
	})
}

// translate runs the translator and writes the error response itself
// on failure so both endpoints map provider failures identically.
func translate(deps Dependencies, w http.ResponseWriter, r *http.Request, question string) (nl2sql.Result, error) {
	translation, err := deps.Translator.Translate(r.Context(), question)
	if err != nil {
		writeTranslationError(w, r, err)
		return nl2sql.Result{}, err
	}
	observability.ObserveTranslation(translation.Provider, "ok", translation.UsedView != "")
	return translation, nil
}

func writeTranslationError(w http.ResponseWriter, r *http.Request, err error) {
	var providerErr *nl2sql.ProviderError
	if errors.As(err, &providerErr) {
		observability.ObserveTranslation(providerErr.Provider, string(providerErr.Kind), false)
		retryable := providerErr.Kind == nl2sql.KindRateLimited || providerErr.Kind == nl2sql.KindTransport || providerErr.Kind == nl2sql.KindTimeout
		writeError(r.Context(), w, http.StatusBadGateway, "PROVIDER_ERROR", err.Error(), retryable, map[string]any{
			"provider": providerErr.Provider,
			"kind":     string(providerErr.Kind),
		})
		return
	}
	var translationErr *nl2sql.TranslationError
	if errors.As(err, &translationErr) {
		observability.ObserveTranslation("", "rejected", false)
		writeError(r.Context(), w, http.StatusBadGateway, "TRANSLATION_REJECTED", "model response is not a SQL statement", false, map[string]any{
			"raw_response": translationErr.Raw,
		})
		return
	}
	writeError(r.Context(), w, http.StatusInternalServerError, "TRANSLATION_FAILED", err.Error(), false, nil)
}

func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	var sqlErr *query.SQLError
	if errors.As(err, &sqlErr) {
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", sqlErr.Message, false, map[string]any{
			"sql": sqlErr.SQL,
		})
		return
	}
	var initErr *query.InitError
	if errors.As(err, &initErr) {
		writeError(r.Context(), w, http.StatusInternalServerError, "ENGINE_INIT_FAILED", err.Error(), true, nil)
		return
	}
	writeError(r.Context(), w, http.StatusInternalServerError, "QUERY_FAILED", err.Error(), true, nil)
}
