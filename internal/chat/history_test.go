package chat

import (
	"errors"
	"reflect"
	"testing"

	"nexus-chat/internal/models"
)

func TestApply_Transitions(t *testing.T) {
	var h []models.ChatMessage

	h = Apply(h, UserSubmitted{Content: "Hello"})
	h = Apply(h, ReplyReceived{Content: "Hi there"})
	h = Apply(h, UserSubmitted{Content: "Again"})
	h = Apply(h, ExchangeFailed{Reason: errors.New("timeout")})

	want := []models.ChatMessage{
		{Role: models.RoleUser, Content: "Hello"},
		{Role: models.RoleAssistant, Content: "Hi there"},
		{Role: models.RoleUser, Content: "Again"},
	}
	if !reflect.DeepEqual(h, want) {
		t.Fatalf("Expected %v, got %v", want, h)
	}

	h = Apply(h, Cleared{})
	if h == nil || len(h) != 0 {
		t.Fatalf("Expected empty non-nil history after clear, got %#v", h)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	base := make([]models.ChatMessage, 1, 4)
	base[0] = models.ChatMessage{Role: models.RoleUser, Content: "Hello"}

	a := Apply(base, ReplyReceived{Content: "one"})
	b := Apply(base, ReplyReceived{Content: "two"})

	if len(base) != 1 {
		t.Fatalf("input length changed to %d", len(base))
	}
	if a[1].Content != "one" || b[1].Content != "two" {
		t.Errorf("branches share backing storage: a=%v b=%v", a, b)
	}

	failed := Apply(base, ExchangeFailed{})
	failed[0].Content = "changed"
	if base[0].Content != "Hello" {
		t.Errorf("ExchangeFailed returned an alias of the input")
	}
}
