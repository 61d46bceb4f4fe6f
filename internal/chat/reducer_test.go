package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"character-chat/internal/api"
)

func nova() []api.Character {
	return []api.Character{{ID: "c1", Name: "Nova", Description: "Career mentor"}}
}

// loaded returns a state with Nova selected and input typed
func loaded(t *testing.T, input string) State {
	t.Helper()
	s, cmd := Reduce(NewState("s1"), CharactersLoaded{Characters: nova()})
	require.Nil(t, cmd)
	s, _ = Reduce(s, InputChanged{Text: input})
	return s
}

func TestCharactersLoadedSelectsFirst(t *testing.T) {
	chars := []api.Character{
		{ID: "c1", Name: "Nova"},
		{ID: "c2", Name: "Rex"},
	}

	s, cmd := Reduce(NewState("s1"), CharactersLoaded{Characters: chars})

	assert.Nil(t, cmd)
	assert.Equal(t, "c1", s.SelectedID)
	assert.Equal(t, "s1", s.SessionID)
	assert.True(t, s.Loaded)
	assert.False(t, s.ShowLoadingCharacters())
	assert.False(t, s.ShowNoCharacters())
	assert.Equal(t, "Nova", s.Heading())
}

func TestCharactersLoadedEmpty(t *testing.T) {
	s, _ := Reduce(NewState("s1"), CharactersLoaded{})

	assert.Empty(t, s.SelectedID)
	assert.Nil(t, s.Selected())
	assert.Empty(t, s.Err)
	assert.True(t, s.ShowNoCharacters())
	assert.Equal(t, "Select a character", s.Heading())
	assert.Equal(t, "Select a character first...", s.Placeholder())
	assert.False(t, s.InputEnabled())
}

func TestCharactersFailed(t *testing.T) {
	initial := NewState("s1")
	require.True(t, initial.ShowLoadingCharacters())

	s, _ := Reduce(initial, CharactersFailed{Err: errors.New("Failed to load characters: 500")})

	assert.Equal(t, "Failed to load characters: 500", s.Err)
	assert.False(t, s.ShowLoadingCharacters())
	assert.False(t, s.ShowNoCharacters())
	assert.Empty(t, s.Characters)

	s, _ = Reduce(initial, CharactersFailed{})
	assert.Equal(t, defaultLoadError, s.Err)
}

func TestSubmitBlankIsNoop(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t \n"} {
		s := loaded(t, input)

		next, cmd := Reduce(s, Submit{})

		assert.Nil(t, cmd)
		assert.Empty(t, next.Messages)
		assert.Equal(t, input, next.Input)
		assert.False(t, next.Loading)
	}
}

func TestSubmitWithoutSelectionIsNoop(t *testing.T) {
	s := NewState("s1")
	s.Loaded = true
	s.Input = "hi"

	next, cmd := Reduce(s, Submit{})

	assert.Nil(t, cmd)
	assert.Empty(t, next.Messages)
	assert.Equal(t, "hi", next.Input)
}

func TestSubmitWhileInFlightIsNoop(t *testing.T) {
	s, cmd := Reduce(loaded(t, "first"), Submit{})
	require.IsType(t, SendCommand{}, cmd)

	// Input is locked while sending, so force a value in
	s.Input = "second"
	next, cmd := Reduce(s, Submit{})

	assert.Nil(t, cmd)
	assert.Len(t, next.Messages, 1)
	assert.Equal(t, "second", next.Input)
	assert.True(t, next.Loading)
}

func TestSubmitClearsPreviousError(t *testing.T) {
	s := loaded(t, "")
	s.Err = "Chat failed: HTTP 500"

	next, _ := Reduce(s, Submit{})
	assert.Empty(t, next.Err)
}

func TestInputLockedWhileSending(t *testing.T) {
	s, _ := Reduce(loaded(t, "hi"), Submit{})

	next, _ := Reduce(s, InputChanged{Text: "typing"})
	assert.Empty(t, next.Input)
	assert.Equal(t, "Sending...", next.SendLabel())
}

func TestSuccessfulTurnScenario(t *testing.T) {
	s := loaded(t, "hi")
	require.Equal(t, "c1", s.SelectedID)
	require.True(t, s.CanSend())

	s, cmd := Reduce(s, Submit{})

	require.Equal(t, SendCommand{Request: api.ChatRequest{
		CharacterID: "c1",
		SessionID:   "s1",
		Message:     "hi",
	}}, cmd)
	assert.Equal(t, []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}, s.Messages)
	assert.Empty(t, s.Input)
	assert.True(t, s.Loading)
	assert.Equal(t, "s1", s.InFlightSession())

	history := []api.ChatMessage{
		{Role: api.RoleUser, Content: "hi"},
		{Role: api.RoleAssistant, Content: "hello"},
	}
	s, cmd = Reduce(s, SendSucceeded{DispatchedSession: "s1", Response: &api.ChatResponse{
		Reply:       "hello",
		CharacterID: "c1",
		SessionID:   "s2",
		History:     history,
	}})

	assert.Nil(t, cmd)
	assert.Equal(t, history, s.Messages)
	assert.Equal(t, "s2", s.SessionID)
	assert.False(t, s.Loading)
	assert.Empty(t, s.InFlightSession())
}

func TestSuccessReplacesHistoryWithoutDoubleAppend(t *testing.T) {
	s := loaded(t, "again")
	s.Messages = []api.ChatMessage{
		{Role: api.RoleUser, Content: "local only"},
	}
	s, _ = Reduce(s, Submit{})
	require.Len(t, s.Messages, 2)

	server := []api.ChatMessage{
		{Role: api.RoleUser, Content: "again"},
		{Role: api.RoleAssistant, Content: "sure"},
	}
	s, _ = Reduce(s, SendSucceeded{DispatchedSession: "s1", Response: &api.ChatResponse{SessionID: "s1", History: server}})

	assert.Equal(t, server, s.Messages)

	// The state must not alias the response slice
	server[0].Content = "mutated"
	assert.Equal(t, "again", s.Messages[0].Content)
}

func TestFailedTurnScenario(t *testing.T) {
	s, _ := Reduce(loaded(t, "hi"), Submit{})

	err := &api.RequestError{Op: api.OpChat, StatusCode: 500, Detail: "model unavailable"}
	s, cmd := Reduce(s, SendFailed{DispatchedSession: "s1", Err: err})

	assert.Nil(t, cmd)
	assert.Equal(t, "Chat failed: model unavailable", s.Err)
	assert.Equal(t, []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}, s.Messages)
	assert.False(t, s.Loading)
	assert.Equal(t, "s1", s.SessionID)
}

func TestNewChatResets(t *testing.T) {
	s := loaded(t, "")
	s.Messages = []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}
	s.Err = "Chat failed: HTTP 500"

	next, cmd := Reduce(s, NewChat{SessionID: "s9"})

	assert.Nil(t, cmd)
	assert.Empty(t, next.Messages)
	assert.NotNil(t, next.Messages)
	assert.Empty(t, next.Err)
	assert.Equal(t, "s9", next.SessionID)
	assert.NotEqual(t, s.SessionID, next.SessionID)
	assert.Equal(t, "c1", next.SelectedID)
}

func TestNewChatDuringSendKeepsLoading(t *testing.T) {
	s, _ := Reduce(loaded(t, "hi"), Submit{})

	s, _ = Reduce(s, NewChat{SessionID: "s9"})

	assert.True(t, s.Loading)
	assert.Empty(t, s.Messages)
}

func TestSelectCharacterStartsNewChat(t *testing.T) {
	chars := []api.Character{{ID: "c1", Name: "Nova"}, {ID: "c2", Name: "Rex"}}
	s, _ := Reduce(NewState("s1"), CharactersLoaded{Characters: chars})
	s.Messages = []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}

	next, _ := Reduce(s, SelectCharacter{ID: "c2", SessionID: "s3"})

	assert.Equal(t, "c2", next.SelectedID)
	assert.Equal(t, "s3", next.SessionID)
	assert.Empty(t, next.Messages)
	assert.Equal(t, "Rex", next.AssistantLabel())
	assert.Equal(t, "Talk to Rex...", next.Placeholder())
}

func TestSelectUnknownCharacterIgnored(t *testing.T) {
	s := loaded(t, "")
	s.Messages = []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}}

	next, _ := Reduce(s, SelectCharacter{ID: "nope", SessionID: "s3"})

	assert.Equal(t, s, next)
}

func TestStaleResponseDiscarded(t *testing.T) {
	s, _ := Reduce(loaded(t, "hi"), Submit{})
	s, _ = Reduce(s, NewChat{SessionID: "s9"})

	next, _ := Reduce(s, SendSucceeded{DispatchedSession: "s1", Response: &api.ChatResponse{
		SessionID: "s1",
		History:   []api.ChatMessage{{Role: api.RoleUser, Content: "hi"}, {Role: api.RoleAssistant, Content: "hello"}},
	}})

	assert.False(t, next.Loading)
	assert.Empty(t, next.Messages)
	assert.Equal(t, "s9", next.SessionID)

	next, _ = Reduce(s, SendFailed{DispatchedSession: "s1", Err: errors.New("Chat failed: HTTP 500")})

	assert.False(t, next.Loading)
	assert.Empty(t, next.Err)
}

func TestEmptyServerSessionKeepsCurrent(t *testing.T) {
	s, _ := Reduce(loaded(t, "hi"), Submit{})

	s, _ = Reduce(s, SendSucceeded{DispatchedSession: "s1", Response: &api.ChatResponse{}})

	assert.Equal(t, "s1", s.SessionID)
	assert.NotNil(t, s.Messages)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := loaded(t, "hi")
	s.Messages = make([]api.ChatMessage, 1, 8)
	s.Messages[0] = api.ChatMessage{Role: api.RoleUser, Content: "earlier"}

	next, _ := Reduce(s, Submit{})
	next.Messages[0].Content = "changed"

	assert.Equal(t, "earlier", s.Messages[0].Content)
	assert.Equal(t, "hi", s.Input)
	assert.False(t, s.Loading)
}

func TestLabels(t *testing.T) {
	s := loaded(t, "")
	assert.Equal(t, "You", s.Label(api.RoleUser))
	assert.Equal(t, "Nova", s.Label(api.RoleAssistant))

	empty := NewState("s1")
	assert.Equal(t, "Assistant", empty.Label(api.RoleAssistant))
	assert.Equal(t, "Send", empty.SendLabel())
}
