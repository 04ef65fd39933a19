package convoctl

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRunHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/health" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"overall":"healthy"}`))
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"health"}, Options{
		BaseURL: server.URL,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `"overall": "healthy"`) {
		t.Fatalf("expected pretty printed report, got %q", stdout.String())
	}
}

func TestRunViewRunWithLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/views/popular_actions/execute" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "25" {
			t.Fatalf("limit query = %q", got)
		}
		_, _ = w.Write([]byte(`{"view_name":"popular_actions","row_count":0}`))
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-limit", "25", "view-run", "popular_actions"}, Options{
		BaseURL: server.URL,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
}

func TestRunAskSendsJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/query" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("content type = %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["question"] != "how many sessions today?" {
			t.Fatalf("question = %v", body["question"])
		}
		if body["debug"] != true {
			t.Fatalf("debug = %v", body["debug"])
		}
		if body["limit"] != float64(10) {
			t.Fatalf("limit = %v", body["limit"])
		}
		_, _ = w.Write([]byte(`{"row_count":1}`))
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"-debug", "-limit", "10", "ask", "how many sessions today?"}, Options{
		BaseURL: server.URL,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
}

func TestRunViewCreate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/views" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["name"] != "daily_volume" {
			t.Fatalf("name = %v", body["name"])
		}
		if body["sql_query"] != "SELECT 1" {
			t.Fatalf("sql_query = %v", body["sql_query"])
		}
		tags, ok := body["tags"].([]any)
		if !ok || len(tags) != 2 || tags[0] != "volume" || tags[1] != "daily" {
			t.Fatalf("tags = %v", body["tags"])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"daily_volume"}`))
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{
		"-sql", "SELECT 1",
		"-description", "daily entry counts",
		"-tags", "volume, daily",
		"view-create", "daily_volume",
	}, Options{BaseURL: server.URL, Stdout: &stdout, Stderr: &stderr})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
}

func TestRunViewDelete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v1/views/stale" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"view-delete", "stale"}, Options{
		BaseURL: server.URL,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, stderr.String())
	}
}

func TestRunServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error_code":"PROVIDER_ERROR"}`))
	}))
	defer server.Close()

	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"translate", "whatever"}, Options{
		BaseURL: server.URL,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "http 502") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"bogus"}, Options{
		BaseURL: "http://localhost:1",
		Stdout:  &stdout,
		Stderr:  &stderr,
	})
	if code != 2 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "unknown command") {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "usage: convoctl") {
		t.Fatalf("expected usage text, got %q", stderr.String())
	}
}

func TestRunMissingArguments(t *testing.T) {
	cases := [][]string{
		{},
		{"view"},
		{"view-run"},
		{"view-create", "name_without_sql"},
		{"ask"},
	}
	for _, args := range cases {
		var stdout, stderr bytes.Buffer
		code := Run(context.Background(), args, Options{
			BaseURL: "http://localhost:1",
			Stdout:  &stdout,
			Stderr:  &stderr,
		})
		if code != 2 {
			t.Fatalf("args %v: exit code = %d", args, code)
		}
	}
}

func TestRunUnreachableServer(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(context.Background(), []string{"health"}, Options{
		BaseURL:    "http://127.0.0.1:1",
		Timeout:    200 * time.Millisecond,
		HTTPClient: &http.Client{Timeout: 200 * time.Millisecond},
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	if code != 1 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stderr.String(), "request failed") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

func TestSplitTags(t *testing.T) {
	if got := splitTags(""); len(got) != 0 {
		t.Fatalf("splitTags(\"\") = %v", got)
	}
	got := splitTags(" a ,, b ")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("splitTags = %v", got)
	}
}
