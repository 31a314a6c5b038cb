package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nexus-chat/internal/models"
)

// Transport delivers one message plus history to the proxy.
type Transport interface {
	Send(ctx context.Context, message string, history []models.ChatMessage) (string, error)
}

// ServerError is a non-2xx answer from the proxy.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string { return e.Message }

// HTTPTransport posts to the proxy's /api/chat endpoint.
type HTTPTransport struct {
	endpoint   string
	httpClient *http.Client
}

func NewHTTPTransport(serverURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		endpoint:   strings.TrimRight(serverURL, "/") + "/api/chat",
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Send(ctx context.Context, message string, history []models.ChatMessage) (string, error) {
	payload, err := json.Marshal(models.ChatRequest{Message: message, History: history})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody models.ErrorResponse
		msg := "API request failed"
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			msg = errBody.Error
		}
		return "", &ServerError{StatusCode: resp.StatusCode, Message: msg}
	}

	var data models.ChatResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return data.Message, nil
}
