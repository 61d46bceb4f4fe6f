package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"character-chat/internal/api"
	"character-chat/internal/chat"
)

// Copy shown across front ends
const (
	Title            = "Character AI Chat"
	Subtitle         = "Multi-persona chatbot powered by your chat backend."
	LoadingNotice    = "Loading characters..."
	NoCharacters     = "No characters found. Check your backend /characters configs."
	SuggestedPrompt  = "Help me design my learning roadmap."
	TypingIndicator  = "..."
	defaultWidth     = 80
	defaultHeight    = 24
	minMarkdownWidth = 20
)

// Styles
var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	activeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	nameStyle      = lipgloss.NewStyle().Bold(true)
)

// Renderer turns chat state into terminal text
type Renderer struct {
	markdown *glamour.TermRenderer
	width    int
}

// NewRenderer creates a renderer wrapping markdown at width columns.
// style is "auto" or one of glamour's standard styles (dark, light, notty, ascii).
func NewRenderer(style string, width int) (*Renderer, error) {
	if width <= 0 {
		width, _ = TerminalSize()
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	md, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(max(width-4, minMarkdownWidth)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	return &Renderer{markdown: md, width: width}, nil
}

// Width returns the wrap width the renderer was built for
func (r *Renderer) Width() int {
	return r.width
}

// Markdown renders content as terminal markdown, falling back to the raw
// text if rendering fails
func (r *Renderer) Markdown(content string) string {
	if r.markdown == nil {
		return content
	}
	rendered, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

// RenderMessage renders a single chat bubble
func (r *Renderer) RenderMessage(label string, msg api.ChatMessage) string {
	var sb strings.Builder
	if msg.Role == api.RoleUser {
		sb.WriteString(userLabelStyle.Render(label))
		sb.WriteString("\n")
		sb.WriteString(indent(msg.Content, "  "))
	} else {
		sb.WriteString(botLabelStyle.Render(label))
		sb.WriteString("\n")
		sb.WriteString(r.Markdown(msg.Content))
	}
	return sb.String()
}

// RenderTranscript renders the chat window: the empty-state hint or the
// messages, followed by the typing indicator while a send is in flight
func (r *Renderer) RenderTranscript(s chat.State, typing string) string {
	var blocks []string

	if len(s.Messages) == 0 {
		name := "a character"
		if c := s.Selected(); c != nil {
			name = c.Name
		}
		blocks = append(blocks,
			fmt.Sprintf("Start the conversation with %s.", nameStyle.Render(name)),
			subtleStyle.Render(fmt.Sprintf("Tip: ask it something like %q", SuggestedPrompt)),
		)
	}

	for _, msg := range s.Messages {
		blocks = append(blocks, r.RenderMessage(s.Label(msg.Role), msg))
	}

	if s.Loading {
		if typing == "" {
			typing = TypingIndicator
		}
		blocks = append(blocks, botLabelStyle.Render(s.AssistantLabel())+"\n  "+typing)
	}

	return strings.Join(blocks, "\n\n")
}

// RenderSidebar renders the character list. cursor marks the highlighted
// row when the list has focus; pass -1 otherwise.
func (r *Renderer) RenderSidebar(s chat.State, cursor int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Characters"))
	sb.WriteString("\n\n")

	if s.ShowLoadingCharacters() {
		sb.WriteString(subtleStyle.Render(LoadingNotice))
		sb.WriteString("\n")
	}
	if s.Err != "" {
		sb.WriteString(errorStyle.Render(s.Err))
		sb.WriteString("\n")
	}

	for i, c := range s.Characters {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		name := c.Name
		if c.ID == s.SelectedID {
			name = activeStyle.Render(name + " ●")
		} else {
			name = nameStyle.Render(name)
		}
		sb.WriteString(marker + name + "\n")
		if c.Description != "" {
			sb.WriteString("  " + subtleStyle.Render(c.Description) + "\n")
		}
	}

	if s.ShowNoCharacters() {
		sb.WriteString(NoCharacters)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// RenderHeader renders the title bar with the active session
func (r *Renderer) RenderHeader(s chat.State) string {
	left := titleStyle.Render(Title) + "\n" + subtleStyle.Render(Subtitle)

	heading := nameStyle.Render(s.Heading())
	if c := s.Selected(); c != nil && c.Description != "" {
		heading += "  " + subtleStyle.Render(c.Description)
	}
	session := subtleStyle.Render("Session: " + s.SessionID)

	return lipgloss.JoinVertical(lipgloss.Left, left, "", heading, session)
}

// TerminalSize returns the size of stdout, or 80x24 when it is not a terminal
func TerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
