package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"nexus-chat/internal/models"
	"nexus-chat/internal/services"
)

const (
	maxBodyBytes           = 1 << 20
	defaultUpstreamTimeout = 30 * time.Second
)

type chatMetrics interface {
	RecordRequest(method string, status int)
	RecordUpstream(outcome string, duration time.Duration)
}

type ChatHandler struct {
	generator services.Generator
	apiKey    func() string
	timeout   time.Duration
	metrics   chatMetrics
	logger    *slog.Logger
}

// NewChatHandler builds the proxy handler. apiKey is called on every POST
// so the credential is never captured at startup.
func NewChatHandler(generator services.Generator, apiKey func() string, timeout time.Duration, metrics chatMetrics, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultUpstreamTimeout
	}
	return &ChatHandler{
		generator: generator,
		apiKey:    apiKey,
		timeout:   timeout,
		metrics:   metrics,
		logger:    logger,
	}
}

// Chat serves /api/chat for every method.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	status := h.serve(w, r)
	if h.metrics != nil {
		h.metrics.RecordRequest(r.Method, status)
	}
}

// MethodNotAllowed answers methods the router cannot dispatch with the same
// JSON 405 that Chat writes.
func (h *ChatHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	status := handleServiceError(w, r, h.logger, &services.MethodNotAllowedError{Method: r.Method})
	if h.metrics != nil {
		h.metrics.RecordRequest(r.Method, status)
	}
}

func (h *ChatHandler) serve(w http.ResponseWriter, r *http.Request) int {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return http.StatusOK
	case http.MethodPost:
	default:
		return handleServiceError(w, r, h.logger, &services.MethodNotAllowedError{Method: r.Method})
	}

	reply, err := h.reply(r)
	if err != nil {
		return handleServiceError(w, r, h.logger, err)
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Message: reply})
	return http.StatusOK
}

func (h *ChatHandler) reply(r *http.Request) (string, error) {
	var req models.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", &services.ClientInputError{Message: "Request body too large"}
		}
		return "", &services.ClientInputError{Message: "Message is required"}
	}

	if strings.TrimSpace(req.Message) == "" {
		return "", &services.ClientInputError{Message: "Message is required"}
	}

	apiKey := h.apiKey()
	if apiKey == "" {
		return "", &services.ConfigurationError{
			Message: "API key not configured. Please add GEMINI_API_KEY to environment variables.",
		}
	}

	prompt := services.BuildPrompt(req.History, req.Message)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	start := time.Now()
	text, err := h.generator.Generate(ctx, apiKey, prompt)
	if h.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		h.metrics.RecordUpstream(outcome, time.Since(start))
	}
	if err != nil {
		return "", err
	}

	h.logger.Debug("chat reply generated", "history_turns", len(req.History), "reply_chars", len(text))
	return text, nil
}
