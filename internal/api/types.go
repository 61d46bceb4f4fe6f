package api

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Character is a selectable persona as listed by the backend
type Character struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChatMessage represents a single turn in a conversation
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", or "system"
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	CharacterID string `json:"character_id"`
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	Reset       bool   `json:"reset"`
}

// ChatResponse is the backend's authoritative reply to a turn
type ChatResponse struct {
	Reply       string        `json:"reply"`
	CharacterID string        `json:"character_id"`
	SessionID   string        `json:"session_id"`
	History     []ChatMessage `json:"history"`
}

type charactersResponse struct {
	Characters []Character `json:"characters"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}
