package chat

import "nexus-chat/internal/models"

// Event is one step in a conversation's lifecycle.
type Event interface {
	isEvent()
}

// UserSubmitted records a message the user sent.
type UserSubmitted struct{ Content string }

// ReplyReceived records the assistant's answer to the last submission.
type ReplyReceived struct{ Content string }

// ExchangeFailed records that the last submission got no answer. The
// user's turn stays in history; nothing is added for the failure.
type ExchangeFailed struct{ Reason error }

// Cleared empties the conversation.
type Cleared struct{}

func (UserSubmitted) isEvent()  {}
func (ReplyReceived) isEvent()  {}
func (ExchangeFailed) isEvent() {}
func (Cleared) isEvent()        {}

// Apply returns the history that results from ev. The input slice is never
// modified.
func Apply(history []models.ChatMessage, ev Event) []models.ChatMessage {
	switch e := ev.(type) {
	case UserSubmitted:
		return appendTurn(history, models.ChatMessage{Role: models.RoleUser, Content: e.Content})
	case ReplyReceived:
		return appendTurn(history, models.ChatMessage{Role: models.RoleAssistant, Content: e.Content})
	case Cleared:
		return []models.ChatMessage{}
	default:
		return cloneHistory(history)
	}
}

func appendTurn(history []models.ChatMessage, turn models.ChatMessage) []models.ChatMessage {
	next := make([]models.ChatMessage, len(history), len(history)+1)
	copy(next, history)
	return append(next, turn)
}

func cloneHistory(history []models.ChatMessage) []models.ChatMessage {
	next := make([]models.ChatMessage, len(history))
	copy(next, history)
	return next
}
