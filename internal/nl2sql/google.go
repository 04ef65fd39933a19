package nl2sql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const googleDefaultBaseURL = "https://generativelanguage.googleapis.com"

type GoogleConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GoogleProvider calls the Gemini generateContent endpoint.
type GoogleProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewGoogleProvider(cfg GoogleConfig) (*GoogleProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("google api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("google model is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = googleDefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (p *GoogleProvider) Name() string  { return "google" }
func (p *GoogleProvider) Model() string { return p.model }

func (p *GoogleProvider) Complete(ctx context.Context, prompt string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", p.fail(KindMalformed, fmt.Errorf("marshal generate payload: %w", err))
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, p.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", p.fail(KindTransport, fmt.Errorf("build generate request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", p.fail(classifyTransport(err), fmt.Errorf("request generate content: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", p.fail(KindTransport, fmt.Errorf("read generate response: %w", err))
	}
	if kind, ok := classifyStatus(resp.StatusCode); ok {
		return "", p.fail(kind, fmt.Errorf("generate content status=%d", resp.StatusCode))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", p.fail(KindMalformed, fmt.Errorf("decode generate response: %w", err))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", p.fail(KindMalformed, errors.New("generate response has no candidates"))
	}

	var parts []string
	for _, part := range parsed.Candidates[0].Content.Parts {
		parts = append(parts, part.Text)
	}
	text := strings.Join(parts, "")
	if strings.TrimSpace(text) == "" {
		return "", p.fail(KindMalformed, errors.New("generate response has empty text"))
	}
	return text, nil
}

func (p *GoogleProvider) fail(kind ProviderErrorKind, cause error) error {
	return &ProviderError{Provider: p.Name(), Kind: kind, Cause: cause}
}
