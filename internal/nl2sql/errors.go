package nl2sql

import "fmt"

// ProviderErrorKind classifies why a language-model call failed.
type ProviderErrorKind string

const (
	KindTimeout     ProviderErrorKind = "timeout"
	KindAuth        ProviderErrorKind = "auth"
	KindRateLimited ProviderErrorKind = "rate_limited"
	KindTransport   ProviderErrorKind = "transport"
	KindMalformed   ProviderErrorKind = "malformed"
)

// ProviderError reports a failed call to a language-model service.
// Kinds rate_limited and transport are safe for callers to retry with
// backoff; the translator itself never retries.
type ProviderError struct {
	Provider string
	Kind     ProviderErrorKind
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("provider %s: %s", e.Provider, e.Kind)
	}
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Cause)
}

func (e *ProviderError) Unwrap() error { return e.Cause }

// TranslationError reports a model response that did not sanitize into
// a recognizable SQL statement. Raw carries the rejected text.
type TranslationError struct {
	Raw string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("model response is not a SQL statement: %q", e.Raw)
}
