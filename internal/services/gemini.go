package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fixed generation settings for this deployment.
const (
	GeminiTemperature     = 0.7
	GeminiMaxOutputTokens = 1000
)

// Generator turns a flattened prompt into model text.
type Generator interface {
	Generate(ctx context.Context, apiKey, prompt string) (string, error)
}

// GeminiREST calls the generateContent endpoint directly, passing the
// credential as the key query parameter.
type GeminiREST struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGeminiREST(baseURL, model string, timeout time.Duration) *GeminiREST {
	return &GeminiREST{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (g *GeminiREST) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	payload, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     GeminiTemperature,
			MaxOutputTokens: GeminiMaxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, g.model, url.QueryEscape(apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", transportError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Message: "Failed to read model response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{Message: upstreamMessage(body), StatusCode: resp.StatusCode}
	}

	var data geminiResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &UpstreamError{Message: "Invalid response from model API", StatusCode: resp.StatusCode, Err: err}
	}

	if len(data.Candidates) == 0 || data.Candidates[0].Content == nil || len(data.Candidates[0].Content.Parts) == 0 {
		return "", &UpstreamError{Message: "Empty response from model", StatusCode: resp.StatusCode, Err: ErrUnhandledShape}
	}

	return data.Candidates[0].Content.Parts[0].Text, nil
}

// upstreamMessage pulls error.message out of a failed response body.
func upstreamMessage(body []byte) string {
	var e geminiErrorBody
	if err := json.Unmarshal(body, &e); err != nil || e.Error == nil || e.Error.Message == "" {
		return "API request failed"
	}
	return e.Error.Message
}

// transportError converts a failed round trip into an UpstreamError. The
// *url.Error wrapper is stripped because its URL carries the API key.
func transportError(ctx context.Context, err error) error {
	timeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)

	var uerr *url.Error
	if errors.As(err, &uerr) {
		timeout = timeout || uerr.Timeout()
		err = uerr.Err
	}

	if timeout {
		return &UpstreamError{Message: "Upstream request timed out", Timeout: true, Err: err}
	}
	return &UpstreamError{Message: fmt.Sprintf("Failed to reach model API: %v", err), Err: err}
}
