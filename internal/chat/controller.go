package chat

import (
	"context"

	"character-chat/internal/api"
	"character-chat/internal/logger"
)

// API is the subset of the backend client the chat flow needs
type API interface {
	FetchCharacters(ctx context.Context) ([]api.Character, error)
	SendChat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

// Controller runs the reducer and executes its commands synchronously.
// It suits line-oriented front ends where each action blocks until done.
type Controller struct {
	api   API
	state State
	newID func() string
	log   *logger.Logger
}

// NewController creates a controller with a fresh session
func NewController(client API, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		api:   client,
		state: NewState(NewSessionID()),
		newID: NewSessionID,
		log:   log,
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	return c.state
}

// Load fetches the character list
func (c *Controller) Load(ctx context.Context) {
	chars, err := c.api.FetchCharacters(ctx)
	if err != nil {
		c.log.LogError(err, "failed to load characters")
		c.apply(CharactersFailed{Err: err})
		return
	}
	c.log.Info("characters loaded", "count", len(chars))
	c.apply(CharactersLoaded{Characters: chars})
}

// SetInput replaces the pending input
func (c *Controller) SetInput(text string) {
	c.apply(InputChanged{Text: text})
}

// Send submits the pending input and waits for the backend. It reports
// whether a request was actually dispatched.
func (c *Controller) Send(ctx context.Context, reset bool) bool {
	cmd := c.apply(Submit{Reset: reset})
	send, ok := cmd.(SendCommand)
	if !ok {
		return false
	}

	log := c.log.WithSession(send.Request.SessionID)
	resp, err := c.api.SendChat(ctx, send.Request)
	if err != nil {
		log.LogError(err, "chat turn failed", "character_id", send.Request.CharacterID)
		c.apply(SendFailed{DispatchedSession: send.Request.SessionID, Err: err})
		return true
	}
	log.Debug("chat turn completed", "history_len", len(resp.History))
	c.apply(SendSucceeded{DispatchedSession: send.Request.SessionID, Response: resp})
	return true
}

// NewChat starts a fresh session
func (c *Controller) NewChat() {
	c.apply(NewChat{SessionID: c.newID()})
}

// Select switches to the character with id, starting a fresh session.
// It reports whether the id was known.
func (c *Controller) Select(id string) bool {
	before := c.state.SessionID
	c.apply(SelectCharacter{ID: id, SessionID: c.newID()})
	return c.state.SessionID != before
}

func (c *Controller) apply(ev Event) Command {
	var cmd Command
	c.state, cmd = Reduce(c.state, ev)
	return cmd
}
