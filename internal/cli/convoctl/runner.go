// Package convoctl implements the command line client for the
// conversation analytics API.
package convoctl

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Stdout     io.Writer
	Stderr     io.Writer
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

func Run(ctx context.Context, args []string, defaults Options) int {
	stdout := defaults.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	stderr := defaults.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("convoctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	baseURL := fs.String("base-url", firstNonEmpty(defaults.BaseURL, "http://localhost:8000"), "convo API base URL")
	timeout := fs.Duration("timeout", durationOr(defaults.Timeout, 30*time.Second), "HTTP timeout (e.g. 30s)")
	limit := fs.Int("limit", 0, "maximum rows to return (view-run, ask)")
	debug := fs.Bool("debug", false, "include the generated SQL in ask output")
	description := fs.String("description", "", "view description (view-create)")
	sqlQuery := fs.String("sql", "", "view SQL body (view-create)")
	tags := fs.String("tags", "", "comma-separated view tags (view-create)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		writeUsage(stderr)
		return 2
	}

	client := defaults.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: *timeout}
	}

	command := strings.TrimSpace(fs.Arg(0))
	req, err := buildRequest(command, fs.Args()[1:], commandFlags{
		limit:       *limit,
		debug:       *debug,
		description: *description,
		sqlQuery:    *sqlQuery,
		tags:        *tags,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "%v\n\n", err)
		writeUsage(stderr)
		return 2
	}

	endpoint := strings.TrimRight(*baseURL, "/") + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}
	code, responseBody, err := doRequest(ctx, client, req.method, endpoint, req.body)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "request failed: %v\n", err)
		return 1
	}

	if code >= 400 {
		_, _ = fmt.Fprintf(stderr, "http %d: %s\n", code, strings.TrimSpace(string(responseBody)))
		return 1
	}

	if pretty, ok := prettyJSON(responseBody); ok {
		_, _ = fmt.Fprintln(stdout, pretty)
		return 0
	}
	if len(responseBody) > 0 {
		_, _ = fmt.Fprintln(stdout, string(responseBody))
	}
	return 0
}

type commandFlags struct {
	limit       int
	debug       bool
	description string
	sqlQuery    string
	tags        string
}

func buildRequest(command string, args []string, flags commandFlags) (request, error) {
	switch command {
	case "health":
		return request{method: http.MethodGet, path: "/v1/health"}, nil
	case "ready":
		return request{method: http.MethodGet, path: "/v1/ready"}, nil
	case "views":
		return request{method: http.MethodGet, path: "/v1/views"}, nil
	case "view":
		if len(args) != 1 {
			return request{}, fmt.Errorf("view requires exactly one name argument")
		}
		return request{method: http.MethodGet, path: "/v1/views/" + url.PathEscape(args[0])}, nil
	case "view-run":
		if len(args) != 1 {
			return request{}, fmt.Errorf("view-run requires exactly one name argument")
		}
		query := url.Values{}
		if flags.limit > 0 {
			query.Set("limit", strconv.Itoa(flags.limit))
		}
		return request{method: http.MethodGet, path: "/v1/views/" + url.PathEscape(args[0]) + "/execute", query: query}, nil
	case "view-create":
		if len(args) != 1 {
			return request{}, fmt.Errorf("view-create requires exactly one name argument")
		}
		if strings.TrimSpace(flags.sqlQuery) == "" {
			return request{}, fmt.Errorf("view-create requires -sql")
		}
		return request{method: http.MethodPost, path: "/v1/views", body: map[string]any{
			"name":        args[0],
			"description": flags.description,
			"sql_query":   flags.sqlQuery,
			"tags":        splitTags(flags.tags),
		}}, nil
	case "view-delete":
		if len(args) != 1 {
			return request{}, fmt.Errorf("view-delete requires exactly one name argument")
		}
		return request{method: http.MethodDelete, path: "/v1/views/" + url.PathEscape(args[0])}, nil
	case "ask":
		if len(args) != 1 {
			return request{}, fmt.Errorf("ask requires exactly one question argument")
		}
		body := map[string]any{"question": args[0], "debug": flags.debug}
		if flags.limit > 0 {
			body["limit"] = flags.limit
		}
		return request{method: http.MethodPost, path: "/v1/query", body: body}, nil
	case "translate":
		if len(args) != 1 {
			return request{}, fmt.Errorf("translate requires exactly one question argument")
		}
		return request{method: http.MethodPost, path: "/v1/query/translate", body: map[string]any{"question": args[0]}}, nil
	default:
		return request{}, fmt.Errorf("unknown command %q", command)
	}
}

func doRequest(ctx context.Context, client *http.Client, method, endpoint string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, responseBody, nil
}

func prettyJSON(raw []byte) (string, bool) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "", false
	}
	var anyValue any
	if err := json.Unmarshal(raw, &anyValue); err != nil {
		return "", false
	}
	formatted, err := json.MarshalIndent(anyValue, "", "  ")
	if err != nil {
		return "", false
	}
	return string(formatted), true
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}

func writeUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: convoctl [flags] <command> [args]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "commands:")
	_, _ = fmt.Fprintln(w, "  health                   GET /v1/health")
	_, _ = fmt.Fprintln(w, "  ready                    GET /v1/ready")
	_, _ = fmt.Fprintln(w, "  views                    GET /v1/views")
	_, _ = fmt.Fprintln(w, "  view <name>              GET /v1/views/{name}")
	_, _ = fmt.Fprintln(w, "  view-run <name>          GET /v1/views/{name}/execute")
	_, _ = fmt.Fprintln(w, "  view-create <name>       POST /v1/views (requires -sql)")
	_, _ = fmt.Fprintln(w, "  view-delete <name>       DELETE /v1/views/{name}")
	_, _ = fmt.Fprintln(w, "  ask <question>           POST /v1/query")
	_, _ = fmt.Fprintln(w, "  translate <question>     POST /v1/query/translate")
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return strings.TrimSpace(a)
	}
	return b
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
