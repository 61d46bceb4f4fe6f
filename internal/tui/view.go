package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

var (
	focusedPanelStyle = panelStyle.Copy().BorderForeground(lipgloss.Color("13"))
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

const helpText = "enter send · alt+enter newline · tab switch panel · ctrl+n new chat · esc quit"

// View renders the whole screen
func (m Model) View() string {
	if m.renderer == nil {
		return ""
	}

	header := m.renderer.RenderHeader(m.state)

	cursor := -1
	sidebar := panelStyle
	if m.focus == focusSidebar {
		cursor = m.cursor
		sidebar = focusedPanelStyle
	}
	sidebarView := sidebar.
		Width(sidebarWidth).
		Height(m.viewport.Height + inputHeight + 1).
		Render(m.renderer.RenderSidebar(m.state, cursor))

	status := m.state.SendLabel()
	if m.state.Loading {
		status = m.spinner.View() + " " + status
	} else if !m.state.CanSend() {
		status = helpStyle.Render(status)
	}

	chatView := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
		statusStyle.Render(status),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebarView, " ", chatView)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		helpStyle.Render(helpText),
	)
}
