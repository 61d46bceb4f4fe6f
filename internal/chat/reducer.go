package chat

import (
	"strings"

	"character-chat/internal/api"
)

// Event is an input to Reduce
type Event interface {
	isEvent()
}

// CharactersLoaded reports a successful character listing
type CharactersLoaded struct {
	Characters []api.Character
}

// CharactersFailed reports a failed character listing
type CharactersFailed struct {
	Err error
}

// InputChanged replaces the pending input text
type InputChanged struct {
	Text string
}

// Submit asks to send the pending input. Reset asks the backend to drop
// the session's history before handling the turn.
type Submit struct {
	Reset bool
}

// SendSucceeded carries the backend's reply to a turn dispatched under
// DispatchedSession
type SendSucceeded struct {
	DispatchedSession string
	Response          *api.ChatResponse
}

// SendFailed reports a failed turn dispatched under DispatchedSession
type SendFailed struct {
	DispatchedSession string
	Err               error
}

// NewChat starts a fresh conversation under SessionID
type NewChat struct {
	SessionID string
}

// SelectCharacter switches the active character and starts a fresh
// conversation under SessionID
type SelectCharacter struct {
	ID        string
	SessionID string
}

func (CharactersLoaded) isEvent() {}
func (CharactersFailed) isEvent() {}
func (InputChanged) isEvent() {}
func (Submit) isEvent() {}
func (SendSucceeded) isEvent() {}
func (SendFailed) isEvent() {}
func (NewChat) isEvent() {}
func (SelectCharacter) isEvent() {}

// Command describes side effects the caller must perform
type Command interface {
	isCommand()
}

// SendCommand asks the caller to post Request and report the outcome as
// SendSucceeded or SendFailed tagged with Request.SessionID
type SendCommand struct {
	Request api.ChatRequest
}

func (SendCommand) isCommand() {}

// Fallback messages when an error carries no text
const (
	defaultLoadError = "Failed to load characters"
	defaultChatError = "Something went wrong."
)

// Reduce applies ev to s and returns the next state plus an optional
// command. It never mutates s.
func Reduce(s State, ev Event) (State, Command) {
	switch ev := ev.(type) {
	case CharactersLoaded:
		s.Characters = cloneCharacters(ev.Characters)
		if len(s.Characters) > 0 {
			s.SelectedID = s.Characters[0].ID
		}
		s.Loaded = true
		return s, nil

	case CharactersFailed:
		s.Err = errorText(ev.Err, defaultLoadError)
		s.Loaded = true
		return s, nil

	case InputChanged:
		if !s.InputEnabled() {
			return s, nil
		}
		s.Input = ev.Text
		return s, nil

	case Submit:
		s.Err = ""
		trimmed := strings.TrimSpace(s.Input)
		if trimmed == "" || s.Selected() == nil || s.Loading {
			return s, nil
		}

		// Optimistic: the turn is visible before the backend confirms it
		s.Messages = appendMessage(s.Messages, api.ChatMessage{Role: api.RoleUser, Content: trimmed})
		s.Input = ""
		s.Loading = true
		s.inFlightSession = s.SessionID
		return s, SendCommand{Request: api.ChatRequest{
			CharacterID: s.SelectedID,
			SessionID:   s.SessionID,
			Message:     trimmed,
			Reset:       ev.Reset,
		}}

	case SendSucceeded:
		s.Loading = false
		s.inFlightSession = ""
		if ev.DispatchedSession != s.SessionID || ev.Response == nil {
			return s, nil
		}
		s.Messages = cloneMessages(ev.Response.History)
		if ev.Response.SessionID != "" {
			s.SessionID = ev.Response.SessionID
		}
		return s, nil

	case SendFailed:
		s.Loading = false
		s.inFlightSession = ""
		if ev.DispatchedSession != s.SessionID {
			return s, nil
		}
		// The optimistic message stays so the user sees what they tried
		s.Err = errorText(ev.Err, defaultChatError)
		return s, nil

	case NewChat:
		return startNewChat(s, ev.SessionID), nil

	case SelectCharacter:
		if !hasCharacter(s.Characters, ev.ID) {
			return s, nil
		}
		s.SelectedID = ev.ID
		return startNewChat(s, ev.SessionID), nil
	}

	return s, nil
}

// InFlightSession returns the session a pending send was dispatched under
func (s State) InFlightSession() string {
	return s.inFlightSession
}

func startNewChat(s State, sessionID string) State {
	s.SessionID = sessionID
	s.Messages = []api.ChatMessage{}
	s.Err = ""
	return s
}

func errorText(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

func hasCharacter(chars []api.Character, id string) bool {
	for _, c := range chars {
		if c.ID == id {
			return true
		}
	}
	return false
}

func appendMessage(msgs []api.ChatMessage, msg api.ChatMessage) []api.ChatMessage {
	out := make([]api.ChatMessage, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, msg)
}

func cloneMessages(msgs []api.ChatMessage) []api.ChatMessage {
	out := make([]api.ChatMessage, len(msgs))
	copy(out, msgs)
	return out
}

func cloneCharacters(chars []api.Character) []api.Character {
	out := make([]api.Character, len(chars))
	copy(out, chars)
	return out
}
