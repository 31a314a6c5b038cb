package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"nexus-chat/internal/chat"
)

const helpText = `Commands:
  /suggest     list suggested prompts
  /suggest N   send suggested prompt N
  /copy        copy the last reply
  /copy N      copy code block N of the last reply
  /clear       clear the conversation
  /quit        exit`

// lineSource delivers lines from a reader on a channel so callers can stop
// waiting when their context ends.
type lineSource struct {
	lines chan string
	done  chan struct{}
	err   error
}

func readLines(in io.Reader) *lineSource {
	src := &lineSource{lines: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(src.lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1<<20)
		for scanner.Scan() {
			select {
			case src.lines <- scanner.Text():
			case <-src.done:
				return
			}
		}
		src.err = scanner.Err()
	}()
	return src
}

// next blocks until a line arrives, input ends or ctx is done.
func (s *lineSource) next(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-s.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (s *lineSource) stop() { close(s.done) }

// Run drives session from lines read on in until EOF, /quit or ctx ends.
func Run(ctx context.Context, in io.Reader, session *chat.Session, r *Renderer) error {
	src := readLines(in)
	defer src.stop()

	session.Start()
	r.RenderSuggestions(session.Suggestions())

	for {
		r.Prompt("> ")
		line, ok := src.next(ctx)
		if !ok {
			if ctx.Err() != nil {
				return nil
			}
			return src.err
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch cmd {
		case "/quit", "/exit":
			return nil
		case "/help":
			r.Info(helpText)
		case "/clear":
			cleared := session.Clear(func() bool {
				r.Prompt("Are you sure you want to clear the chat? [y/N] ")
				answer, ok := src.next(ctx)
				if !ok {
					return false
				}
				answer = strings.ToLower(strings.TrimSpace(answer))
				return answer == "y" || answer == "yes"
			})
			if cleared {
				r.RenderSuggestions(session.Suggestions())
			}
		case "/copy":
			if err := copyReply(session, r, strings.TrimSpace(arg)); err != nil {
				r.RenderNotice(err.Error())
			}
		case "/suggest":
			prompt, err := pickSuggestion(session, r, strings.TrimSpace(arg))
			if err != nil {
				r.RenderNotice(err.Error())
			} else if prompt != "" {
				submit(ctx, session, r, prompt)
			}
		default:
			if n, over := chat.CharCount(line); over {
				r.RenderCounter(n, over)
			}
			submit(ctx, session, r, line)
		}
	}
}

func submit(ctx context.Context, session *chat.Session, r *Renderer, line string) {
	if _, err := session.Submit(ctx, line); err != nil && !errors.Is(err, chat.ErrEmptyInput) {
		r.RenderNotice(err.Error())
	}
}

// pickSuggestion resolves /suggest N. With no argument it lists the
// suggestions again and returns an empty prompt.
func pickSuggestion(session *chat.Session, r *Renderer, arg string) (string, error) {
	suggestions := session.Suggestions()
	if len(suggestions) == 0 {
		return "", errors.New("suggestions are only offered before the conversation starts; /clear to see them again")
	}
	if arg == "" {
		r.RenderSuggestions(suggestions)
		return "", nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(suggestions) {
		return "", fmt.Errorf("no suggestion %q (there are %d)", arg, len(suggestions))
	}
	return suggestions[n-1], nil
}

func copyReply(session *chat.Session, r *Renderer, arg string) error {
	reply, ok := session.LastReply()
	if !ok {
		return errors.New("nothing to copy yet")
	}
	if arg == "" {
		return r.Copy(reply)
	}

	n, err := strconv.Atoi(arg)
	blocks := CodeBlocks(reply)
	if err != nil || n < 1 || n > len(blocks) {
		return fmt.Errorf("no code block %q in the last reply (it has %d)", arg, len(blocks))
	}
	return r.Copy(blocks[n-1])
}
