package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"character-chat/internal/api"
)

// charactersMsg carries the outcome of the character listing
type charactersMsg struct {
	characters []api.Character
	err        error
}

// chatResultMsg carries the outcome of one turn, tagged with the session
// it was dispatched under
type chatResultMsg struct {
	session  string
	response *api.ChatResponse
	err      error
}

func (m Model) loadCharacters() tea.Cmd {
	ctx, client, log := m.ctx, m.api, m.log
	return func() tea.Msg {
		chars, err := client.FetchCharacters(ctx)
		if err != nil {
			log.LogError(err, "failed to load characters")
			return charactersMsg{err: err}
		}
		log.Info("characters loaded", "count", len(chars))
		return charactersMsg{characters: chars}
	}
}

func (m Model) send(req api.ChatRequest) tea.Cmd {
	ctx, client := m.ctx, m.api
	log := m.log.WithSession(req.SessionID)
	return func() tea.Msg {
		resp, err := client.SendChat(ctx, req)
		if err != nil {
			log.LogError(err, "chat turn failed", "character_id", req.CharacterID)
			return chatResultMsg{session: req.SessionID, err: err}
		}
		log.Debug("chat turn completed", "history_len", len(resp.History))
		return chatResultMsg{session: req.SessionID, response: resp}
	}
}
