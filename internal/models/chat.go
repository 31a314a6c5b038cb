package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatResponse is the reply from the AI chat.
type ChatResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed chat call.
type ErrorResponse struct {
	Error string `json:"error"`
}
