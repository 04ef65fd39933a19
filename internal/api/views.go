package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lenzenc/convo/internal/observability"
	"github.com/lenzenc/convo/internal/query"
	"github.com/lenzenc/convo/internal/views"
)

type createViewRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SQLQuery    string   `json:"sql_query"`
	Tags        []string `json:"tags"`
}

type patchViewRequest struct {
	Description *string  `json:"description"`
	SQLQuery    *string  `json:"sql_query"`
	Tags        []string `json:"tags"`
}

type viewExecutionResponse struct {
	ViewName        string         `json:"view_name"`
	Columns         []string       `json:"columns"`
	Data            []query.Record `json:"data"`
	RowCount        int            `json:"row_count"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
}

func handleListViews(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Views == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VIEWS_NOT_CONFIGURED", "view catalog is not configured", false, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"views": deps.Views.List()})
}

func handleGetView(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Views == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VIEWS_NOT_CONFIGURED", "view catalog is not configured", false, nil)
		return
	}
	def, err := deps.Views.Get(r.PathValue("view"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func handleCreateView(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Views == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VIEWS_NOT_CONFIGURED", "view catalog is not configured", false, nil)
		return
	}

	var request createViewRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid view request body", false, map[string]any{"details": err.Error()})
		return
	}

	def, err := deps.Views.Create(request.Name, request.Description, request.SQLQuery, request.Tags)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

func handlePatchView(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Views == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VIEWS_NOT_CONFIGURED", "view catalog is not configured", false, nil)
		return
	}

	var request patchViewRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid view request body", false, map[string]any{"details": err.Error()})
		return
	}

	def, err := deps.Views.Update(r.PathValue("view"), views.Patch{
		Description: request.Description,
		SQLQuery:    request.SQLQuery,
		Tags:        request.Tags,
	})
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func handleDeleteView(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Views == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VIEWS_NOT_CONFIGURED", "view catalog is not configured", false, nil)
		return
	}
	if err := deps.Views.Delete(r.PathValue("view")); err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": r.PathValue("view")})
}

func handleExecuteView(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Views == nil || deps.Sessions == nil || deps.Executor == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "VIEWS_NOT_CONFIGURED", "view execution is not configured", false, nil)
		return
	}

	name := r.PathValue("view")
	def, err := deps.Views.Get(name)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	limit, err := limitFromQuery(r, deps.MaxRows)
	if err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_LIMIT", err.Error(), false, nil)
		return
	}

	session, err := deps.Sessions()
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "ENGINE_INIT_FAILED", err.Error(), true, nil)
		return
	}
	defer func() { _ = session.Close() }()

	start := time.Now()
	result, err := deps.Executor.Run(r.Context(), session, def.SQLQuery, query.Options{Limit: limit})
	if err != nil {
		observability.ObserveQuery("error", time.Since(start))
		writeQueryError(w, r, err)
		return
	}
	observability.ObserveQuery("ok", time.Since(start))
	observability.ObserveViewExecution(name)

	writeJSON(w, http.StatusOK, viewExecutionResponse{
		ViewName:        name,
		Columns:         result.Columns,
		Data:            result.Data,
		RowCount:        result.RowCount,
		ExecutionTimeMs: result.ExecutionTimeMs,
	})
}

func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, views.ErrNotFound):
		writeError(r.Context(), w, http.StatusNotFound, "VIEW_NOT_FOUND", err.Error(), false, nil)
	case errors.Is(err, views.ErrNameExists):
		writeError(r.Context(), w, http.StatusConflict, "VIEW_NAME_EXISTS", err.Error(), false, nil)
	case errors.Is(err, views.ErrInvalidName):
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_VIEW_NAME", err.Error(), false, nil)
	case errors.Is(err, views.ErrInvalidSQL):
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_VIEW_SQL", err.Error(), false, nil)
	default:
		writeError(r.Context(), w, http.StatusInternalServerError, "CATALOG_ERROR", err.Error(), true, nil)
	}
}

// limitFromQuery reads the optional limit query parameter and clamps
// it to the configured cap. A missing limit falls back to the cap.
func limitFromQuery(r *http.Request, max int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return max, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	if max > 0 && limit > max {
		return max, nil
	}
	return limit, nil
}
