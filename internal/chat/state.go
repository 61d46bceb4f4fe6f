// Package chat holds the client-side conversation state and the reducer
// that drives it. Every transition is a pure function of (State, Event);
// network calls are described by the returned Command and executed by the
// front end, whose results come back as further events.
package chat

import (
	"strings"

	"character-chat/internal/api"
)

// State is everything the chat client renders
type State struct {
	Characters []api.Character
	SelectedID string
	SessionID  string
	Messages   []api.ChatMessage
	Input      string

	// Loading is true while a send is in flight
	Loading bool
	// Err is the inline error text, empty when there is none
	Err string
	// Loaded flips once the initial character listing settles
	Loaded bool

	// inFlightSession is the session a pending send was dispatched under
	inFlightSession string
}

// NewState returns the state before characters are loaded
func NewState(sessionID string) State {
	return State{
		SessionID:  sessionID,
		Characters: []api.Character{},
		Messages:   []api.ChatMessage{},
	}
}

// Selected returns the active character, or nil
func (s State) Selected() *api.Character {
	for i := range s.Characters {
		if s.Characters[i].ID == s.SelectedID {
			return &s.Characters[i]
		}
	}
	return nil
}

// InputEnabled reports whether the text input accepts typing
func (s State) InputEnabled() bool {
	return s.Selected() != nil && !s.Loading
}

// CanSend reports whether the send button would be enabled
func (s State) CanSend() bool {
	return s.InputEnabled() && strings.TrimSpace(s.Input) != ""
}

// ShowLoadingCharacters reports whether the listing is still pending
func (s State) ShowLoadingCharacters() bool {
	return !s.Loaded
}

// ShowNoCharacters reports whether the empty-listing notice applies
func (s State) ShowNoCharacters() bool {
	return s.Loaded && len(s.Characters) == 0 && s.Err == ""
}

// AssistantLabel names the speaker of non-user messages
func (s State) AssistantLabel() string {
	if c := s.Selected(); c != nil && c.Name != "" {
		return c.Name
	}
	return "Assistant"
}

// Label returns the speaker label for a message role
func (s State) Label(role string) string {
	if role == api.RoleUser {
		return "You"
	}
	return s.AssistantLabel()
}

// Heading is the chat panel title
func (s State) Heading() string {
	if c := s.Selected(); c != nil {
		return c.Name
	}
	return "Select a character"
}

// Placeholder is the hint shown in the empty input
func (s State) Placeholder() string {
	if c := s.Selected(); c != nil {
		return "Talk to " + c.Name + "..."
	}
	return "Select a character first..."
}

// SendLabel is the caption of the send action
func (s State) SendLabel() string {
	if s.Loading {
		return "Sending..."
	}
	return "Send"
}
