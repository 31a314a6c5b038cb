package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"nexus-chat/internal/models"
)

const typingText = "NEXUS is typing..."

var (
	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	botStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5576c"))

	counterWarnStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f5576c"))
)

// Options configures a Renderer.
type Options struct {
	// Plain disables ANSI styling in markdown output.
	Plain bool
	Width int
	// Copy replaces the system clipboard, mainly for tests.
	Copy func(string) error
	Now  func() time.Time
}

// Renderer draws a chat session onto a terminal.
type Renderer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
	copyFn   func(string) error
	now      func() time.Time

	mu           sync.Mutex
	inputEnabled bool
	typing       bool
}

func NewRenderer(out io.Writer, opts Options) (*Renderer, error) {
	style := "dark"
	if opts.Plain {
		style = "notty"
	}
	width := opts.Width
	if width <= 0 {
		width = 100
	}

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	r := &Renderer{
		out:      out,
		markdown: md,
		copyFn:   opts.Copy,
		now:      opts.Now,
	}
	if r.copyFn == nil {
		r.copyFn = clipboard.WriteAll
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

func (r *Renderer) stamp() string {
	return timeStyle.Render(r.now().Format("3:04 PM"))
}

func (r *Renderer) RenderGreeting(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s\n%s\n\n", botStyle.Render("NEXUS"), r.stamp(), text)
}

func (r *Renderer) RenderTurn(turn models.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if turn.Role == models.RoleUser {
		fmt.Fprintf(r.out, "%s %s\n%s\n\n", userStyle.Render("You"), r.stamp(), turn.Content)
		return
	}

	body, err := r.markdown.Render(turn.Content)
	if err != nil {
		// Fall back to the raw text rather than losing the reply.
		body = turn.Content + "\n"
	}
	fmt.Fprintf(r.out, "%s %s\n%s\n", botStyle.Render("NEXUS"), r.stamp(), strings.TrimRight(body, "\n"))
	if n := len(CodeBlocks(turn.Content)); n > 0 {
		fmt.Fprintf(r.out, "%s\n", timeStyle.Render(fmt.Sprintf("%d code block(s), /copy N to copy one", n)))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) RenderNotice(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s\n%s\n\n", botStyle.Render("NEXUS"), r.stamp(), noticeStyle.Render(text))
}

// ClearInput is a no-op: the terminal consumes the line on Enter.
func (r *Renderer) ClearInput() {}

func (r *Renderer) SetInputEnabled(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputEnabled = enabled
}

func (r *Renderer) InputEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputEnabled
}

func (r *Renderer) SetTyping(typing bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if typing == r.typing {
		return
	}
	r.typing = typing
	if typing {
		fmt.Fprint(r.out, timeStyle.Render(typingText))
		return
	}
	fmt.Fprint(r.out, "\r"+strings.Repeat(" ", len(typingText))+"\r")
}

// RenderSuggestions lists canned prompts. An empty list prints nothing.
func (r *Renderer) RenderSuggestions(items []string) {
	if len(items) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, timeStyle.Render("Try one with /suggest N:"))
	for i, item := range items {
		fmt.Fprintf(r.out, "  %d. %s\n", i+1, item)
	}
	fmt.Fprintln(r.out)
}

// RenderCounter prints the character counter, highlighted past the limit.
func (r *Renderer) RenderCounter(n int, over bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label := fmt.Sprintf("%d chars", n)
	if over {
		label = counterWarnStyle.Render(label)
	} else {
		label = timeStyle.Render(label)
	}
	fmt.Fprintln(r.out, label)
}

// Copy puts text on the clipboard and confirms it.
func (r *Renderer) Copy(text string) error {
	if err := r.copyFn(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, timeStyle.Render("Copied!"))
	return nil
}

// Prompt writes an inline prompt without a trailing newline.
func (r *Renderer) Prompt(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprint(r.out, text)
}

// Info prints a dimmed status line.
func (r *Renderer) Info(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, timeStyle.Render(text))
}
