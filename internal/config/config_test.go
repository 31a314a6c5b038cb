package config

import (
	"testing"
	"time"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
		{"uses default for negative", "TEST_INT_4", "-5", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.envValue)

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "GEMINI_TRANSPORT", "GEMINI_MODEL", "UPSTREAM_TIMEOUT_SECONDS", "CORS_ORIGIN"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %q", cfg.Port)
	}
	if cfg.GeminiTransport != "rest" {
		t.Errorf("Expected rest transport, got %q", cfg.GeminiTransport)
	}
	if cfg.GeminiModel != "gemini-3-flash-preview" {
		t.Errorf("Unexpected model %q", cfg.GeminiModel)
	}
	if cfg.UpstreamTimeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.UpstreamTimeout)
	}
	if cfg.CORSOrigin != "*" {
		t.Errorf("Expected permissive origin, got %q", cfg.CORSOrigin)
	}
}

func TestLoad_DoesNotRequireAPIKey(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Load panicked without an API key: %v", r)
		}
	}()
	Load()

	if APIKey() != "" {
		t.Errorf("Expected empty API key")
	}
}

func TestAPIKey_ReadAtCallTime(t *testing.T) {
	t.Setenv(APIKeyEnv, "first")
	if got := APIKey(); got != "first" {
		t.Fatalf("Expected 'first', got %q", got)
	}

	t.Setenv(APIKeyEnv, "second")
	if got := APIKey(); got != "second" {
		t.Fatalf("Expected 'second', got %q", got)
	}
}

func TestLoadClient_TrimsTrailingSlash(t *testing.T) {
	t.Setenv("NEXUS_SERVER_URL", "http://example.test:9000/")

	cfg := LoadClient()
	if cfg.ServerURL != "http://example.test:9000" {
		t.Errorf("Expected trimmed URL, got %q", cfg.ServerURL)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Expected 60s timeout, got %v", cfg.Timeout)
	}
}
