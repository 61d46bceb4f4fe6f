package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 0)
}

func TestFetchCharacters(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/characters", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"characters":[{"id":"c1","name":"Nova","description":"Mentor"},{"id":"c2","name":"Rex","description":""}]}`))
	})

	chars, err := client.FetchCharacters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Character{
		{ID: "c1", Name: "Nova", Description: "Mentor"},
		{ID: "c2", Name: "Rex"},
	}, chars)
}

func TestFetchCharactersMissingField(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	chars, err := client.FetchCharacters(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, chars)
	assert.Empty(t, chars)
}

func TestFetchCharactersHTTPError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"Failed to load characters: disk"}`))
	})

	_, err := client.FetchCharacters(context.Background())
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Equal(t, "Failed to load characters: 500", err.Error())
	assert.True(t, IsLoadError(err))
	assert.False(t, IsChatError(err))
}

func TestFetchCharactersMalformedBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.FetchCharacters(context.Background())
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "failed to parse response")
}

func TestFetchCharactersNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).FetchCharacters(context.Background())
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Zero(t, StatusCode(err))
	assert.Contains(t, err.Error(), "Failed to load characters: request failed")
}

func TestSendChat(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{
			"character_id": "c1",
			"session_id":   "s1",
			"message":      "hi",
			"reset":        false,
		}, body)

		w.Write([]byte(`{"reply":"hello","character_id":"c1","session_id":"s2","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`))
	})

	resp, err := client.SendChat(context.Background(), ChatRequest{
		CharacterID: "c1",
		SessionID:   "s1",
		Message:     "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, &ChatResponse{
		Reply:       "hello",
		CharacterID: "c1",
		SessionID:   "s2",
		History: []ChatMessage{
			{Role: RoleUser, Content: "hi"},
			{Role: RoleAssistant, Content: "hello"},
		},
	}, resp)
}

func TestSendChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", http.StatusInternalServerError, `{"detail":"model unavailable"}`, "Chat failed: model unavailable"},
		{"no detail", http.StatusBadGateway, `{"error":"x"}`, "Chat failed: HTTP 502"},
		{"empty detail", http.StatusNotFound, `{"detail":""}`, "Chat failed: HTTP 404"},
		{"not json", http.StatusServiceUnavailable, `<html>down</html>`, "Chat failed: HTTP 503"},
		{"empty body", http.StatusInternalServerError, ``, "Chat failed: HTTP 500"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, `Chat failed: [{"msg":"field required"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.SendChat(context.Background(), ChatRequest{CharacterID: "c1", SessionID: "s1", Message: "hi"})
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.True(t, IsChatError(err))
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestSendChatResetFlag(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Reset)
		w.Write([]byte(`{"reply":"","character_id":"c1","session_id":"s1"}`))
	})

	resp, err := client.SendChat(context.Background(), ChatRequest{CharacterID: "c1", SessionID: "s1", Message: "again", Reset: true})
	require.NoError(t, err)
	assert.NotNil(t, resp.History)
}

func TestSendChatContextCanceled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SendChat(ctx, ChatRequest{CharacterID: "c1", SessionID: "s1", Message: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, IsChatError(err))
}

func TestBaseURLTrimmed(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8000/api", NewClient("http://127.0.0.1:8000/api/", 0).BaseURL())
}
