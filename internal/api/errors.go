package api

import (
	"errors"
	"fmt"
)

// Op identifies which backend call failed
type Op string

const (
	OpLoadCharacters Op = "load_characters"
	OpChat           Op = "chat"
)

// RequestError is returned for transport failures and non-2xx responses
type RequestError struct {
	Op         Op
	StatusCode int    // 0 when no response was received or it could not be decoded
	Detail     string // backend-supplied detail, or a generic fallback
	Err        error  // underlying transport or decode error, if any
}

// Error renders the message shown to the user
func (e *RequestError) Error() string {
	switch e.Op {
	case OpLoadCharacters:
		if e.Err != nil {
			return fmt.Sprintf("Failed to load characters: %v", e.Err)
		}
		return fmt.Sprintf("Failed to load characters: %d", e.StatusCode)
	default:
		if e.Detail != "" {
			return "Chat failed: " + e.Detail
		}
		if e.Err != nil {
			return fmt.Sprintf("Chat failed: %v", e.Err)
		}
		return fmt.Sprintf("Chat failed: HTTP %d", e.StatusCode)
	}
}

// Unwrap exposes the underlying transport error
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err came from listing characters
func IsLoadError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Op == OpLoadCharacters
}

// IsChatError reports whether err came from sending a chat turn
func IsChatError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Op == OpChat
}

// StatusCode extracts the HTTP status from err, or 0
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}
