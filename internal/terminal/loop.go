package terminal

import (
	"context"
	"errors"
	"io"
	"strings"

	"character-chat/internal/api"
	"character-chat/internal/chat"
)

// Loop is the line-mode conversation loop
type Loop struct {
	ctrl    *chat.Controller
	display *Display
	input   *InputReader
	baseURL string

	resetNext bool
}

// NewLoop creates a loop reading from in and writing through display
func NewLoop(ctrl *chat.Controller, display *Display, in io.Reader, baseURL string) *Loop {
	return &Loop{
		ctrl:    ctrl,
		display: display,
		input:   NewInputReader(in),
		baseURL: baseURL,
	}
}

// Run loads characters and processes input until EOF, /exit or ctx is done
func (l *Loop) Run(ctx context.Context) error {
	l.display.PrintWelcome(l.baseURL)

	l.ctrl.Load(ctx)
	l.display.PrintCharacters(l.ctrl.State())
	if l.ctrl.State().Selected() != nil {
		l.display.PrintSession(l.ctrl.State())
	}

	for {
		if ctx.Err() != nil {
			break
		}

		l.display.PrintPrompt(l.ctrl.State())
		line, err := l.input.ReadMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}

		if quit := l.handle(ctx, line); quit {
			break
		}
	}

	l.display.PrintGoodbye()
	return nil
}

// handle processes one line of input and reports whether to quit
func (l *Loop) handle(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "/") {
		return l.command(trimmed)
	}

	// Blank input is silently ignored
	if trimmed == "" {
		return false
	}

	if l.ctrl.State().Selected() == nil {
		l.display.PrintWarning("Select a character first (see /characters)")
		return false
	}

	l.ctrl.SetInput(line)
	l.display.PrintTyping(l.ctrl.State())
	if !l.ctrl.Send(ctx, l.resetNext) {
		return false
	}
	l.resetNext = false

	s := l.ctrl.State()
	if s.Err != "" {
		l.display.PrintError(s.Err)
		return false
	}
	if n := len(s.Messages); n > 0 && s.Messages[n-1].Role != api.RoleUser {
		l.display.PrintMessage(s, s.Messages[n-1])
	}
	return false
}

func (l *Loop) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		return true
	case "/help":
		l.display.PrintHelp()
	case "/characters":
		l.display.PrintCharacters(l.ctrl.State())
	case "/new":
		l.ctrl.NewChat()
		l.resetNext = false
		l.display.PrintSession(l.ctrl.State())
	case "/use":
		if len(fields) < 2 {
			l.display.PrintWarning("Usage: /use <character id>")
			return false
		}
		if !l.ctrl.Select(fields[1]) {
			l.display.PrintWarning("Unknown character: " + fields[1])
			return false
		}
		l.resetNext = false
		l.display.PrintSession(l.ctrl.State())
	case "/reset":
		l.resetNext = true
		l.display.PrintInfo("The next message will reset this session on the backend")
	case "/history":
		l.display.PrintTranscript(l.ctrl.State())
	default:
		l.display.PrintWarning("Unknown command: " + fields[0] + " (try /help)")
	}
	return false
}
