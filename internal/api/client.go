package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"character-chat/internal/logger"
)

// maxErrorBody caps how much of a failed response is read for a detail
const maxErrorBody = 64 * 1024

// Client handles communication with the character chat backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new backend client. A zero timeout disables the
// client-side deadline; callers can still bound calls through ctx.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.Nop(),
	}
}

// WithLogger sets the logger used for request tracing
func (c *Client) WithLogger(l *logger.Logger) *Client {
	if l != nil {
		c.log = l
	}
	return c
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchCharacters lists the characters offered by the backend
func (c *Client) FetchCharacters(ctx context.Context) ([]Character, error) {
	url := c.baseURL + "/characters"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &RequestError{Op: OpLoadCharacters, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, &RequestError{Op: OpLoadCharacters, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{Op: OpLoadCharacters, StatusCode: resp.StatusCode}
	}

	var result charactersResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &RequestError{
			Op:         OpLoadCharacters,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to parse response: %w", err),
		}
	}

	if result.Characters == nil {
		return []Character{}, nil
	}
	return result.Characters, nil
}

// SendChat posts one turn and returns the backend's authoritative history
func (c *Client) SendChat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, &RequestError{Op: OpChat, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := c.baseURL + "/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &RequestError{Op: OpChat, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, &RequestError{Op: OpChat, Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &RequestError{
			Op:         OpChat,
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(body, resp.StatusCode),
		}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, &RequestError{
			Op:         OpChat,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to parse response: %w", err),
		}
	}
	if chatResp.History == nil {
		chatResp.History = []ChatMessage{}
	}

	return &chatResp, nil
}

// do executes the request and traces it
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err.Error(),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.log.LogRequest(req.Method, req.URL.String(), resp.StatusCode, time.Since(start))
	return resp, nil
}

// errorDetail extracts a "detail" field from an error body, falling back
// to "HTTP <status>" when the body is not JSON or carries no detail
func errorDetail(body []byte, status int) string {
	fallback := fmt.Sprintf("HTTP %d", status)

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return fallback
	}

	switch d := errResp.Detail.(type) {
	case nil:
		return fallback
	case string:
		if d == "" {
			return fallback
		}
		return d
	case bool:
		if !d {
			return fallback
		}
	case float64:
		if d == 0 {
			return fallback
		}
	}

	// Structured details (validation errors and the like) are shown as JSON
	encoded, err := json.Marshal(errResp.Detail)
	if err != nil {
		return fallback
	}
	return string(encoded)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
