package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// APIKeyEnv names the variable holding the upstream credential.
const APIKeyEnv = "GEMINI_API_KEY"

type Config struct {
	// Server
	Port string
	Env  string

	// Gemini AI
	GeminiTransport string
	GeminiBaseURL   string
	GeminiModel     string
	UpstreamTimeout time.Duration

	// CORS
	CORSOrigin string

	// Logging
	LogDir   string
	LogLevel string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Env:             getEnvOrDefault("ENV", "development"),
		GeminiTransport: strings.ToLower(getEnvOrDefault("GEMINI_TRANSPORT", "rest")),
		GeminiBaseURL:   getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		UpstreamTimeout: time.Duration(getEnvAsIntOrDefault("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
		CORSOrigin:      getEnvOrDefault("CORS_ORIGIN", "*"),
		LogDir:          getEnvOrDefault("LOG_DIR", "logs"),
		LogLevel:        getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

// APIKey reads the Gemini credential from the process environment.
// It is looked up on every call so a missing key surfaces per request
// instead of preventing startup.
func APIKey() string {
	return os.Getenv(APIKeyEnv)
}

// ClientConfig holds settings for the terminal chat client.
type ClientConfig struct {
	ServerURL string
	Timeout   time.Duration
}

func LoadClient() *ClientConfig {
	godotenv.Load()

	return &ClientConfig{
		ServerURL: strings.TrimRight(getEnvOrDefault("NEXUS_SERVER_URL", "http://localhost:8080"), "/"),
		Timeout:   time.Duration(getEnvAsIntOrDefault("NEXUS_CLIENT_TIMEOUT_SECONDS", 60)) * time.Second,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}
