// Package tui is the full-screen terminal front end: a character sidebar
// next to the chat panel, driven by the chat reducer.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"character-chat/internal/chat"
	"character-chat/internal/logger"
	"character-chat/internal/ui"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

const (
	sidebarWidth = 36
	inputHeight  = 3
	headerHeight = 5
	footerHeight = 2
)

// Model is the Bubble Tea model for the chat client
type Model struct {
	ctx   context.Context
	api   chat.API
	log   *logger.Logger
	state chat.State
	newID func() string

	style    string
	renderer *ui.Renderer

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	focus  focusArea
	cursor int
	width  int
	height int
}

// Options configures a Model
type Options struct {
	// Style is the markdown style passed to the renderer
	Style string
	// Logger receives diagnostics; it must not write to the terminal
	Logger *logger.Logger
}

// New creates the model. Network calls issued by the model use ctx.
func New(ctx context.Context, client chat.API, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = "┃ "
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.SetHeight(inputHeight)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	width, height := ui.TerminalSize()

	m := Model{
		ctx:      ctx,
		api:      client,
		log:      log,
		state:    chat.NewState(chat.NewSessionID()),
		newID:    chat.NewSessionID,
		style:    opts.Style,
		input:    ta,
		viewport: viewport.New(width, height),
		spinner:  sp,
		focus:    focusInput,
	}
	m.resize(width, height)
	m.syncInput()
	m.refresh()
	return m
}

// State returns the current chat state
func (m Model) State() chat.State {
	return m.state
}

// Init starts loading the character list
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCharacters(), textarea.Blink)
}

// dispatch runs the reducer and turns its command into a tea.Cmd
func (m *Model) dispatch(ev chat.Event) tea.Cmd {
	var cmd chat.Command
	m.state, cmd = chat.Reduce(m.state, ev)

	var teaCmd tea.Cmd
	if send, ok := cmd.(chat.SendCommand); ok {
		teaCmd = tea.Batch(m.send(send.Request), m.spinner.Tick)
	}

	m.syncInput()
	m.refresh()
	return teaCmd
}

// syncInput mirrors the state onto the textarea
func (m *Model) syncInput() {
	m.input.Placeholder = m.state.Placeholder()
	if m.state.Input == "" && m.input.Value() != "" {
		m.input.Reset()
	}
	if m.state.InputEnabled() && m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// refresh re-renders the transcript into the viewport
func (m *Model) refresh() {
	if m.renderer == nil {
		return
	}
	m.viewport.SetContent(m.renderer.RenderTranscript(m.state, m.spinner.View()))
	m.viewport.GotoBottom()
}

// resize lays out the panels for a terminal of width x height
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	chatWidth := max(width-sidebarWidth-3, 20)
	m.viewport.Width = chatWidth
	m.viewport.Height = max(height-headerHeight-inputHeight-footerHeight-2, 3)
	m.input.SetWidth(chatWidth)

	if r, err := ui.NewRenderer(m.style, chatWidth); err == nil {
		m.renderer = r
	} else {
		m.log.LogError(err, "failed to build renderer")
	}
}

// selectedIndex returns the sidebar row of the active character
func (m Model) selectedIndex() int {
	for i, c := range m.state.Characters {
		if c.ID == m.state.SelectedID {
			return i
		}
	}
	return 0
}
