package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lenzenc/convo/internal/nl2sql"
	"github.com/lenzenc/convo/internal/query"
)

func TestQueryEndpointTranslatesAndExecutes(t *testing.T) {
	session := &fakeSession{rows: query.Rows{
		Columns: []string{"x", "y"},
		Types:   []string{"INTEGER", "INTEGER"},
		Values:  [][]any{{int32(1), int32(2)}},
	}}
	translator := &fakeTranslator{result: nl2sql.Result{
		SQL:      "SELECT 1 AS x, 2 AS y",
		Provider: "openai",
		Model:    "gpt-4",
	}}
	handler := NewHandler(testConfig(t), Dependencies{
		Sessions:   sessionFactory(session),
		Translator: translator,
		Executor:   query.NewExecutor(),
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question":"give me one and two","debug":true}`)))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	var payload queryResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode query response: %v", err)
	}
	if payload.RowCount != 1 {
		t.Fatalf("row_count = %d", payload.RowCount)
	}
	if got := payload.Data[0]["x"]; got != float64(1) {
		t.Fatalf("data[0][x] = %#v", got)
	}
	if payload.SQLQuery != "SELECT 1 AS x, 2 AS y" {
		t.Fatalf("sql_query = %q", payload.SQLQuery)
	}
	if payload.ExecutionTimeMs < 0 {
		t.Fatalf("execution_time_ms = %d", payload.ExecutionTimeMs)
	}
	if payload.Provider != "openai" || payload.Model != "gpt-4" {
		t.Fatalf("attribution = %q/%q", payload.Provider, payload.Model)
	}
	if session.lastQ != "SELECT 1 AS x, 2 AS y" {
		t.Fatalf("executed sql = %q", session.lastQ)
	}
	if !session.closed {
		t.Fatal("session was not closed")
	}
}

func TestQueryEndpointOmitsSQLWithoutDebug(t *testing.T) {
	session := &fakeSession{rows: query.Rows{Columns: []string{"x"}, Types: []string{"INTEGER"}, Values: [][]any{{int32(1)}}}}
	handler := NewHandler(testConfig(t), Dependencies{
		Sessions:   sessionFactory(session),
		Translator: &fakeTranslator{result: nl2sql.Result{SQL: "SELECT 1 AS x", Provider: "openai", Model: "gpt-4"}},
		Executor:   query.NewExecutor(),
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question":"one"}`)))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	var raw map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, present := raw["sql_query"]; present {
		t.Fatal("sql_query should be omitted without debug")
	}
}

func TestQueryEndpointRequiresQuestion(t *testing.T) {
	handler := NewHandler(testConfig(t), Dependencies{
		Sessions:   sessionFactory(&fakeSession{}),
		Translator: &fakeTranslator{},
		Executor:   query.NewExecutor(),
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question":"  "}`)))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestQueryEndpointMapsProviderFailures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{
			name:      "rate limited",
			err:       &nl2sql.ProviderError{Provider: "openai", Kind: nl2sql.KindRateLimited},
			status:    http.StatusBadGateway,
			code:      "PROVIDER_ERROR",
			retryable: true,
		},
		{
			name:      "auth",
			err:       &nl2sql.ProviderError{Provider: "openai", Kind: nl2sql.KindAuth},
			status:    http.StatusBadGateway,
			code:      "PROVIDER_ERROR",
			retryable: false,
		},
		{
			name:      "rejected response",
			err:       &nl2sql.TranslationError{Raw: "I cannot help with that"},
			status:    http.StatusBadGateway,
			code:      "TRANSLATION_REJECTED",
			retryable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(testConfig(t), Dependencies{
				Sessions:   sessionFactory(&fakeSession{}),
				Translator: &fakeTranslator{err: tt.err},
				Executor:   query.NewExecutor(),
			})

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question":"q"}`)))
			if recorder.Code != tt.status {
				t.Fatalf("status = %d, want %d", recorder.Code, tt.status)
			}
			var payload map[string]any
			if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error payload: %v", err)
			}
			if payload["error_code"] != tt.code {
				t.Fatalf("error_code = %v", payload["error_code"])
			}
			if payload["retryable"] != tt.retryable {
				t.Fatalf("retryable = %v, want %v", payload["retryable"], tt.retryable)
			}
		})
	}
}

func TestQueryEndpointSurfacesSQLErrors(t *testing.T) {
	session := &fakeSession{err: &query.SQLError{Message: "Parser Error", SQL: "SELECT FROM"}}
	handler := NewHandler(testConfig(t), Dependencies{
		Sessions:   sessionFactory(session),
		Translator: &fakeTranslator{result: nl2sql.Result{SQL: "SELECT FROM", Provider: "openai", Model: "gpt-4"}},
		Executor:   query.NewExecutor(),
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"question":"broken"}`)))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", recorder.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload["error_code"] != "QUERY_EXECUTION_FAILED" {
		t.Fatalf("error_code = %v", payload["error_code"])
	}
	extra, _ := payload["context"].(map[string]any)
	if extra["sql"] != "SELECT FROM" {
		t.Fatalf("context.sql = %v", extra["sql"])
	}
}

func TestTranslateEndpointReturnsAttribution(t *testing.T) {
	handler := NewHandler(testConfig(t), Dependencies{
		Translator: &fakeTranslator{result: nl2sql.Result{
			SQL:      "SELECT action FROM t",
			UsedView: "popular_actions",
			Provider: "google",
			Model:    "gemini-pro",
		}},
	})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/query/translate", strings.NewReader(`{"question":"popular actions?"}`)))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["used_view"] != "popular_actions" || payload["provider"] != "google" {
		t.Fatalf("payload = %v", payload)
	}
}
