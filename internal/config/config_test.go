package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("convo-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8000" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.ObjectStore.Endpoint != "http://localhost:9000" {
		t.Fatalf("ObjectStore.Endpoint = %q", cfg.ObjectStore.Endpoint)
	}
	if cfg.ObjectStore.Bucket != "convo" {
		t.Fatalf("ObjectStore.Bucket = %q", cfg.ObjectStore.Bucket)
	}
	if cfg.ObjectStore.AccessKeyID != "minioadmin" {
		t.Fatalf("ObjectStore.AccessKeyID = %q", cfg.ObjectStore.AccessKeyID)
	}
	if cfg.ObjectStore.SecretAccessKey != "minioadmin123" {
		t.Fatalf("ObjectStore.SecretAccessKey = %q", cfg.ObjectStore.SecretAccessKey)
	}
	if cfg.ObjectStore.UseSSL() {
		t.Fatal("UseSSL() = true for http endpoint")
	}
	if cfg.AI.Provider != ProviderOpenAI {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gpt-4" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.Views.Path != "data/views_config.json" {
		t.Fatalf("Views.Path = %q", cfg.Views.Path)
	}
	if cfg.Query.MaxRows != 10000 {
		t.Fatalf("Query.MaxRows = %d", cfg.Query.MaxRows)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadGoogleProviderDefaultsModel(t *testing.T) {
	cfg, err := Load("convo-api", mapLookup(map[string]string{
		"CONVO_AI_PROVIDER":       "google",
		"CONVO_AI_GOOGLE_API_KEY": "g-key",
	}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Model != "gemini-pro" {
		t.Fatalf("AI.Model = %q, want gemini-pro", cfg.AI.Model)
	}
	if cfg.ProviderAPIKey() != "g-key" {
		t.Fatalf("ProviderAPIKey() = %q", cfg.ProviderAPIKey())
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	cfg, err := Load("convo-api", mapLookup(map[string]string{"CONVO_PROFILE": "prod"}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.ObjectStore.AutoCreateBucket {
		t.Fatal("AutoCreateBucket should default to false in prod")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"CONVO_PROFILE":                        "test",
		"CONVO_SERVICE_NAME":                   "convo-custom",
		"CONVO_HTTP_ADDR":                      ":9999",
		"CONVO_HTTP_READ_TIMEOUT":              "2s",
		"CONVO_OBJECTSTORE_ENDPOINT":           "https://s3.example.com",
		"CONVO_OBJECTSTORE_BUCKET":             "convo-prod",
		"CONVO_OBJECTSTORE_ACCESS_KEY":         "abc",
		"CONVO_OBJECTSTORE_SECRET_KEY":         "def",
		"CONVO_OBJECTSTORE_AUTO_CREATE_BUCKET": "false",
		"CONVO_VIEWS_PATH":                     "/var/lib/convo/views.json",
		"CONVO_AI_PROVIDER":                    "google",
		"CONVO_AI_MODEL":                       "gemini-1.5-pro",
		"CONVO_AI_BASE_URL":                    "https://llm.example.com",
		"CONVO_AI_GOOGLE_API_KEY":              "secret",
		"CONVO_AI_TEMPERATURE":                 "0.3",
		"CONVO_AI_TIMEOUT":                     "12s",
		"CONVO_QUERY_MAX_ROWS":                 "500",
		"CONVO_LOG_LEVEL":                      "error",
		"CONVO_LOG_JSON":                       "false",
	})
	cfg, err := Load("convo-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "convo-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %s", cfg.HTTP.ReadTimeout)
	}
	if !cfg.ObjectStore.UseSSL() {
		t.Fatal("UseSSL() = false for https endpoint")
	}
	if cfg.ObjectStore.Bucket != "convo-prod" {
		t.Fatalf("ObjectStore.Bucket = %q", cfg.ObjectStore.Bucket)
	}
	if cfg.ObjectStore.AutoCreateBucket {
		t.Fatal("AutoCreateBucket = true, want false")
	}
	if cfg.Views.Path != "/var/lib/convo/views.json" {
		t.Fatalf("Views.Path = %q", cfg.Views.Path)
	}
	if cfg.AI.Provider != ProviderGoogle {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Model != "gemini-1.5-pro" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.BaseURL != "https://llm.example.com" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Fatalf("AI.Temperature = %f", cfg.AI.Temperature)
	}
	if cfg.AI.Timeout != 12*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.Query.MaxRows != 500 {
		t.Fatalf("Query.MaxRows = %d", cfg.Query.MaxRows)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogJSON {
		t.Fatal("LogJSON = true, want false")
	}
}

func TestLoadErrorsOnInvalidValues(t *testing.T) {
	tests := []map[string]string{
		{"CONVO_PROFILE": "oops"},
		{"CONVO_HTTP_READ_TIMEOUT": "NaN"},
		{"CONVO_OBJECTSTORE_AUTO_CREATE_BUCKET": "not-bool"},
		{"CONVO_AI_PROVIDER": "anthropic"},
		{"CONVO_AI_TEMPERATURE": "bad"},
		{"CONVO_QUERY_MAX_ROWS": "oops"},
		{"CONVO_LOG_LEVEL": "verbose"},
	}
	for _, env := range tests {
		_, err := Load("convo-api", mapLookup(env))
		if err == nil {
			t.Fatalf("Load() expected error for env %#v", env)
		}
	}
}

func TestObjectStoreUseSSLFromEndpointScheme(t *testing.T) {
	tests := []struct {
		endpoint string
		want     bool
	}{
		{"http://localhost:9000", false},
		{"https://minio.internal:9000", true},
		{"  https://minio.internal:9000  ", true},
		{"localhost:9000", false},
	}
	for _, tc := range tests {
		cfg, err := Load("convo-api", mapLookup(map[string]string{
			"CONVO_OBJECTSTORE_ENDPOINT": tc.endpoint,
		}))
		if err != nil {
			t.Fatalf("Load() error = %v for endpoint %q", err, tc.endpoint)
		}
		if got := cfg.ObjectStore.UseSSL(); got != tc.want {
			t.Fatalf("UseSSL() = %t for endpoint %q, want %t", got, tc.endpoint, tc.want)
		}
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
