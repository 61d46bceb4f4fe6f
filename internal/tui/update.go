package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"character-chat/internal/chat"
)

// Update handles Bubble Tea messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case charactersMsg:
		var cmd tea.Cmd
		if msg.err != nil {
			cmd = m.dispatch(chat.CharactersFailed{Err: msg.err})
		} else {
			cmd = m.dispatch(chat.CharactersLoaded{Characters: msg.characters})
		}
		m.cursor = m.selectedIndex()
		return m, cmd

	case chatResultMsg:
		if msg.err != nil {
			return m, m.dispatch(chat.SendFailed{DispatchedSession: msg.session, Err: msg.err})
		}
		return m, m.dispatch(chat.SendSucceeded{DispatchedSession: msg.session, Response: msg.response})

	case spinner.TickMsg:
		if !m.state.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refresh()
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+n":
		return m, m.dispatch(chat.NewChat{SessionID: m.newID()})

	case "tab", "shift+tab":
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.cursor = m.selectedIndex()
		} else {
			m.focus = focusInput
		}
		m.syncInput()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Characters)-1 {
			m.cursor++
		}
	case "enter", " ":
		if m.cursor < 0 || m.cursor >= len(m.state.Characters) {
			return m, nil
		}
		id := m.state.Characters[m.cursor].ID
		m.focus = focusInput
		return m, m.dispatch(chat.SelectCharacter{ID: id, SessionID: m.newID()})
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Enter sends; alt+enter and ctrl+j reach the textarea as newlines
	if msg.String() == "enter" {
		return m, m.dispatch(chat.Submit{})
	}

	if !m.state.InputEnabled() {
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state, _ = chat.Reduce(m.state, chat.InputChanged{Text: m.input.Value()})
	return m, cmd
}
