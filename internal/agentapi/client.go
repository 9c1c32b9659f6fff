// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents a transport failure talking to the backend.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any ClientError of the same Type, so callers can write
// errors.Is(err, agentapi.ErrTimeout).
func (e *ClientError) Is(target error) bool {
	var t *ClientError
	if !errors.As(target, &t) {
		return false
	}
	return t.Type == e.Type
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeRequest
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeDecode
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeRequest:
		return "request"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrConnection = &ClientError{Type: ErrTypeConnection, Message: "backend is not reachable"}
	ErrTimeout    = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrStatus     = &ClientError{Type: ErrTypeStatus, Message: "unexpected status from backend"}
	ErrDecode     = &ClientError{Type: ErrTypeDecode, Message: "invalid response from backend"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds every request. Agent replies come from an LLM,
	// so this is generous.
	DefaultTimeout = 120 * time.Second

	// maxErrorBody caps how much of a failed response body is read for detail.
	maxErrorBody = 4 << 10
)

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://localhost:8000)
	BaseURL string

	// Timeout for every request (default: 120s)
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Its Timeout is left as is.
	HTTPClient *http.Client

	// Logger receives request failures (default: no-op)
	Logger *zap.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the agents backend.
//
// The Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for baseURL with the default timeout.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return NewClientWithConfig(&ClientConfig{BaseURL: baseURL, Logger: logger})
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger.Named("agentapi"),
	}
}

// BaseURL returns the backend base URL in use.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHAT
// =============================================================================

// SendMessage posts text to /api/chat and returns the exchange outcome.
// The caller must pass non-empty trimmed text. conversation_history is always
// sent empty; the backend routes each message on its own.
func (c *Client) SendMessage(ctx context.Context, text string) model.ExchangeResult {
	start := time.Now()

	var resp ChatResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/chat", newChatRequest(text), &resp)
	if err != nil {
		c.logger.Warn("chat request failed",
			zap.Error(err),
			zap.String("error_type", errorType(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return model.Failure(err.Error())
	}

	c.logger.Debug("chat response received",
		zap.String("agent", resp.Agent),
		zap.Int("content_len", len(resp.Response)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return model.Success(resp.Response, resp.Agent, resp.Timestamp)
}

// =============================================================================
// AGENTS
// =============================================================================

// FetchAgents retrieves the agent directory. On any failure it logs and
// returns an empty, non-nil slice.
func (c *Client) FetchAgents(ctx context.Context) []model.Agent {
	var resp AgentsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/agents", nil, &resp); err != nil {
		c.logger.Warn("failed to load agents", zap.Error(err))
		return []model.Agent{}
	}
	if resp.Agents == nil {
		return []model.Agent{}
	}
	return resp.Agents
}

// =============================================================================
// HEALTH AND ROUTING
// =============================================================================

// Health probes GET /health.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Route asks the backend which agent would handle text, without running it.
func (c *Client) Route(ctx context.Context, text string) (*RoutePreview, error) {
	var preview RoutePreview
	if err := c.doJSON(ctx, http.MethodPost, "/api/route", newChatRequest(text), &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newChatRequest(text string) ChatRequest {
	return ChatRequest{
		Message:             text,
		ConversationHistory: []HistoryEntry{},
	}
}

// doJSON performs one request and decodes a 2xx JSON body into out.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeRequest, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return &ClientError{Type: ErrTypeTimeout, Message: ErrTimeout.Message, Cause: err}
		}
		return &ClientError{Type: ErrTypeConnection, Message: ErrConnection.Message, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeDecode, Message: ErrDecode.Message, Cause: err}
	}
	return nil
}

// statusError builds a ClientError from a non-2xx response, using the
// backend's {"detail": ...} payload when present.
func statusError(resp *http.Response) error {
	msg := fmt.Sprintf("backend returned %s", resp.Status)

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Detail != "" {
		msg += ": " + eb.Detail
	}

	return &ClientError{Type: ErrTypeStatus, Message: msg}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

func errorType(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}
