package terminal

import (
	"fmt"
	"io"
	"strings"

	"character-chat/internal/api"
	"character-chat/internal/chat"
	"character-chat/internal/ui"
)

// Display handles line-mode output with optional colors
type Display struct {
	out      io.Writer
	color    bool
	renderer *ui.Renderer
}

// NewDisplay creates a new display instance
func NewDisplay(out io.Writer, renderer *ui.Renderer, color bool) *Display {
	return &Display{
		out:      out,
		color:    color,
		renderer: renderer,
	}
}

// Color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

func (d *Display) paint(color, s string) string {
	if !d.color {
		return s
	}
	return color + s + colorReset
}

// PrintWelcome displays the welcome message
func (d *Display) PrintWelcome(baseURL string) {
	fmt.Fprintln(d.out, d.paint(colorCyan, ui.Title))
	fmt.Fprintln(d.out, d.paint(colorGray, ui.Subtitle))
	fmt.Fprintln(d.out, d.paint(colorGray, "Backend: "+baseURL))
	fmt.Fprintln(d.out, d.paint(colorGray, "Type /help for commands or /exit to quit"))
	fmt.Fprintln(d.out)
}

// PrintHelp lists the available commands
func (d *Display) PrintHelp() {
	fmt.Fprintln(d.out, "Commands:")
	fmt.Fprintln(d.out, "  /characters   list characters")
	fmt.Fprintln(d.out, "  /use <id>     talk to another character (starts a new chat)")
	fmt.Fprintln(d.out, "  /new          start a new chat")
	fmt.Fprintln(d.out, "  /reset        ask the backend to forget this session before the next message")
	fmt.Fprintln(d.out, "  /history      show the conversation so far")
	fmt.Fprintln(d.out, "  /exit         quit")
	fmt.Fprintln(d.out, "End a line with \\ to continue the message on the next line.")
}

// PrintGoodbye displays the goodbye message
func (d *Display) PrintGoodbye() {
	fmt.Fprintf(d.out, "\n%s\n", d.paint(colorCyan, "Goodbye!"))
}

// PrintError displays an error message
func (d *Display) PrintError(msg string) {
	fmt.Fprintln(d.out, d.paint(colorRed, "✗ "+msg))
}

// PrintInfo displays an info message
func (d *Display) PrintInfo(msg string) {
	fmt.Fprintln(d.out, d.paint(colorCyan, "ℹ "+msg))
}

// PrintWarning displays a warning message
func (d *Display) PrintWarning(msg string) {
	fmt.Fprintln(d.out, d.paint(colorYellow, "⚠ "+msg))
}

// PrintPrompt displays the user input prompt
func (d *Display) PrintPrompt(s chat.State) {
	label := "> "
	if c := s.Selected(); c != nil {
		label = c.Name + " > "
	}
	fmt.Fprint(d.out, "\n"+d.paint(colorGreen, label))
}

// PrintCharacters renders the character list
func (d *Display) PrintCharacters(s chat.State) {
	if s.Err != "" && len(s.Characters) == 0 {
		d.PrintError(s.Err)
		return
	}
	if s.ShowNoCharacters() {
		d.PrintWarning(ui.NoCharacters)
		return
	}
	fmt.Fprintln(d.out, "Characters:")
	for _, c := range s.Characters {
		marker := " "
		if c.ID == s.SelectedID {
			marker = "*"
		}
		line := fmt.Sprintf(" %s %s (%s)", marker, c.Name, c.ID)
		if c.Description != "" {
			line += " " + d.paint(colorGray, "- "+c.Description)
		}
		fmt.Fprintln(d.out, line)
	}
}

// PrintSession shows the active character and session id
func (d *Display) PrintSession(s chat.State) {
	fmt.Fprintln(d.out, d.paint(colorGray, fmt.Sprintf("%s · Session: %s", s.Heading(), s.SessionID)))
}

// PrintTyping shows the typing indicator for the active character
func (d *Display) PrintTyping(s chat.State) {
	fmt.Fprintln(d.out, d.paint(colorGray, s.AssistantLabel()+" is typing"+ui.TypingIndicator))
}

// PrintMessage renders one message
func (d *Display) PrintMessage(s chat.State, msg api.ChatMessage) {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, d.renderer.RenderMessage(s.Label(msg.Role), msg))
}

// PrintTranscript renders the whole conversation
func (d *Display) PrintTranscript(s chat.State) {
	line := strings.Repeat("─", min(d.renderer.Width(), 80))
	fmt.Fprintln(d.out, d.paint(colorGray, line))
	fmt.Fprintln(d.out, d.renderer.RenderTranscript(s, ""))
	fmt.Fprintln(d.out, d.paint(colorGray, line))
}
