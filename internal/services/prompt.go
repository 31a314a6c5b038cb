package services

import (
	"strings"

	"nexus-chat/internal/models"
)

// BuildPrompt flattens the conversation into the single text blob sent
// upstream: one "<Label>: <content>" line per turn, then "User: <message>".
func BuildPrompt(history []models.ChatMessage, message string) string {
	var b strings.Builder
	for _, msg := range history {
		b.WriteString(roleLabel(msg.Role))
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	b.WriteString("User: ")
	b.WriteString(message)
	return b.String()
}

func roleLabel(role string) string {
	if role == models.RoleUser {
		return "User"
	}
	return "Assistant"
}
