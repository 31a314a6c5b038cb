package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiSDK generates through the official Go client. A client is opened
// per call because the credential is only known at request time.
type GeminiSDK struct {
	model string
	opts  []option.ClientOption
}

func NewGeminiSDK(model string, opts ...option.ClientOption) *GeminiSDK {
	return &GeminiSDK{model: model, opts: opts}
}

func (s *GeminiSDK) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, s.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", &UpstreamError{Message: "Failed to create Gemini client", Err: err}
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	model.SetTemperature(GeminiTemperature)
	model.SetMaxOutputTokens(GeminiMaxOutputTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", sdkError(err)
	}

	return firstText(resp)
}

// firstText returns candidates[0].content.parts[0] when it is text.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &UpstreamError{Message: "Empty response from model", Err: ErrUnhandledShape}
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", &UpstreamError{Message: "Empty response from model", Err: ErrUnhandledShape}
	}
	text, ok := cand.Content.Parts[0].(genai.Text)
	if !ok {
		return "", &UpstreamError{Message: "Empty response from model", Err: ErrUnhandledShape}
	}
	return string(text), nil
}

func sdkError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Message: "Upstream request timed out", Timeout: true, Err: err}
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &UpstreamError{Message: fmt.Sprintf("Response blocked: %v", blocked), Err: ErrUnhandledShape}
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = "API request failed"
		}
		return &UpstreamError{Message: msg, StatusCode: gerr.Code, Err: err}
	}

	return &UpstreamError{Message: "API request failed", Err: err}
}
