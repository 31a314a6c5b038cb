package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"

	"nexus-chat/internal/models"
)

const (
	Greeting = "NEXUS initialized. Ready to assist."

	// CharWarnThreshold is where the input counter turns to a warning.
	CharWarnThreshold = 1800
)

// Suggestions are canned prompts offered while the conversation is empty.
var Suggestions = []string{
	"Explain quantum computing in simple terms",
	"Write a Python function to reverse a string",
	"What are the benefits of meditation?",
	"Help me plan a weekend trip",
}

var (
	ErrEmptyInput = errors.New("chat: empty input")
	ErrBusy       = errors.New("chat: an exchange is already in flight")
)

// Renderer displays the session. Implementations must not call back into
// the Session.
type Renderer interface {
	RenderGreeting(text string)
	RenderTurn(turn models.ChatMessage)
	RenderNotice(text string)
	ClearInput()
	SetInputEnabled(enabled bool)
	SetTyping(typing bool)
}

// Exchange reports how one submission went.
type Exchange struct {
	Message string
	Reply   string
	Err     error
}

func (e Exchange) OK() bool { return e.Err == nil }

// Session owns one conversation transcript for the lifetime of a chat.
type Session struct {
	ID string

	transport Transport
	renderer  Renderer
	logger    *slog.Logger

	mu      sync.Mutex
	history []models.ChatMessage
	epoch   uint64

	busy atomic.Bool
}

func NewSession(transport Transport, renderer Renderer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ID:        uuid.NewString(),
		transport: transport,
		renderer:  renderer,
		logger:    logger,
		history:   []models.ChatMessage{},
	}
}

// Start shows the greeting.
func (s *Session) Start() {
	s.renderer.RenderGreeting(Greeting)
	s.renderer.SetInputEnabled(true)
}

// History returns a copy of the transcript.
func (s *Session) History() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHistory(s.history)
}

// Suggestions returns the canned prompts while the transcript is empty and
// nil once it is not.
func (s *Session) Suggestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) > 0 {
		return nil
	}
	return append([]string(nil), Suggestions...)
}

// Busy reports whether an exchange is in flight.
func (s *Session) Busy() bool {
	return s.busy.Load()
}

// Submit sends input as the next user turn and waits for the reply.
// Blank input returns ErrEmptyInput and a concurrent call returns ErrBusy;
// neither sends anything. Transport failures are rendered as a notice and
// reported through Exchange.Err, leaving only the user's turn in history.
func (s *Session) Submit(ctx context.Context, input string) (Exchange, error) {
	message := strings.TrimSpace(input)
	if message == "" {
		return Exchange{}, ErrEmptyInput
	}
	if !s.busy.CompareAndSwap(false, true) {
		return Exchange{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	s.history = Apply(s.history, UserSubmitted{Content: message})
	sent := cloneHistory(s.history)
	epoch := s.epoch
	s.mu.Unlock()

	s.renderer.RenderTurn(sent[len(sent)-1])
	s.renderer.ClearInput()
	s.renderer.SetInputEnabled(false)
	s.renderer.SetTyping(true)

	reply, err := s.transport.Send(ctx, message, sent)

	s.renderer.SetTyping(false)
	defer s.renderer.SetInputEnabled(true)

	// An outcome that lands after Clear belongs to a conversation that no
	// longer exists.
	var event Event = ReplyReceived{Content: reply}
	if err != nil {
		event = ExchangeFailed{Reason: err}
	}
	s.mu.Lock()
	current := s.epoch == epoch
	if current {
		s.history = Apply(s.history, event)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("chat exchange failed", "session_id", s.ID, "error", err)
		if current {
			s.renderer.RenderNotice(fmt.Sprintf("Sorry, I encountered an error: %v", err))
		}
		return Exchange{Message: message, Err: err}, nil
	}

	if !current {
		s.logger.Info("dropping reply for cleared conversation", "session_id", s.ID)
		return Exchange{Message: message, Reply: reply}, nil
	}

	s.renderer.RenderTurn(models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	return Exchange{Message: message, Reply: reply}, nil
}

// Clear resets the conversation when confirm approves it.
func (s *Session) Clear(confirm func() bool) bool {
	if confirm != nil && !confirm() {
		return false
	}

	s.mu.Lock()
	s.history = Apply(s.history, Cleared{})
	s.epoch++
	s.mu.Unlock()

	s.renderer.RenderGreeting(Greeting)
	return true
}

// LastReply returns the newest assistant turn, if any.
func (s *Session) LastReply() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.history) - 1; i >= 0; i-- {
		if s.history[i].Role == models.RoleAssistant {
			return s.history[i].Content, true
		}
	}
	return "", false
}

// CharCount returns the input length in characters and whether it is past
// CharWarnThreshold.
func CharCount(input string) (int, bool) {
	n := utf8.RuneCountInString(input)
	return n, n > CharWarnThreshold
}
