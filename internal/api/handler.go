// Package api exposes the HTTP surface: view catalog CRUD, view
// execution, natural-language query, translation, and health.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lenzenc/convo/internal/config"
	"github.com/lenzenc/convo/internal/health"
	"github.com/lenzenc/convo/internal/nl2sql"
	"github.com/lenzenc/convo/internal/observability"
	"github.com/lenzenc/convo/internal/query"
	"github.com/lenzenc/convo/internal/views"
)

type ReadinessCheck func(ctx context.Context) error

// EngineSession is the scoped engine handle a request acquires and
// releases on every exit path.
type EngineSession interface {
	query.Session
	Close() error
}

// SessionFactory opens a fresh engine session for one request.
type SessionFactory func() (EngineSession, error)

type ViewStore interface {
	List() []views.Definition
	Get(name string) (views.Definition, error)
	Create(name, description, sqlQuery string, tags []string) (views.Definition, error)
	Update(name string, patch views.Patch) (views.Definition, error)
	Delete(name string) error
}

type Translator interface {
	Translate(ctx context.Context, question string) (nl2sql.Result, error)
}

type HealthProber interface {
	Probe(ctx context.Context) health.Report
}

type Dependencies struct {
	Logger     *slog.Logger
	Readiness  ReadinessCheck
	Sessions   SessionFactory
	Views      ViewStore
	Translator Translator
	Executor   *query.Executor
	Prober     HealthProber
	MaxRows    int
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	if deps.MaxRows <= 0 {
		deps.MaxRows = cfg.Query.MaxRows
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Prober == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
			return
		}
		writeJSON(w, http.StatusOK, deps.Prober.Probe(r.Context()))
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/views", func(w http.ResponseWriter, r *http.Request) {
		handleListViews(deps, w, r)
	})
	mux.HandleFunc("POST /v1/views", func(w http.ResponseWriter, r *http.Request) {
		handleCreateView(deps, w, r)
	})
	mux.HandleFunc("GET /v1/views/{view}", func(w http.ResponseWriter, r *http.Request) {
		handleGetView(deps, w, r)
	})
	mux.HandleFunc("PATCH /v1/views/{view}", func(w http.ResponseWriter, r *http.Request) {
		handlePatchView(deps, w, r)
	})
	mux.HandleFunc("DELETE /v1/views/{view}", func(w http.ResponseWriter, r *http.Request) {
		handleDeleteView(deps, w, r)
	})
	mux.HandleFunc("GET /v1/views/{view}/execute", func(w http.ResponseWriter, r *http.Request) {
		handleExecuteView(deps, w, r)
	})

	mux.HandleFunc("POST /v1/query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(deps, w, r)
	})
	mux.HandleFunc("POST /v1/query/translate", func(w http.ResponseWriter, r *http.Request) {
		handleTranslate(deps, w, r)
	})

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

func CheckObjectStoreConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		if cfg.ObjectStore.Endpoint == "" {
			return errors.New("object store endpoint is not configured")
		}
		if cfg.ObjectStore.Bucket == "" {
			return errors.New("object store bucket is not configured")
		}
		return nil
	}
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
