// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package fakebackend implements an in-process agents backend for tests and
// local development. It serves the same routes as the real service, routes
// messages to agents by keyword, and records every chat request it receives.
package fakebackend

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/model"
)

// Responder produces the reply content for a message routed to agent.
type Responder func(agent, message string) string

// CapturedRequest stores an incoming chat request for test verification.
type CapturedRequest struct {
	Path      string
	Request   agentapi.ChatRequest
	CallIndex int64
	Received  time.Time
}

// Server is a fake agents backend.
type Server struct {
	mu         sync.Mutex
	agents     []model.Agent
	responder  Responder
	delay      time.Duration
	failStatus int
	failDetail string
	agentsDown bool
	requests   []CapturedRequest
	now        func() time.Time
	logger     *zap.Logger

	chatCalls atomic.Int64
}

// Option configures a Server.
type Option func(*Server)

// WithAgents replaces the advertised agent list.
func WithAgents(agents []model.Agent) Option {
	return func(s *Server) { s.agents = agents }
}

// WithResponder replaces the canned reply generator.
func WithResponder(r Responder) Option {
	return func(s *Server) { s.responder = r }
}

// WithDelay holds every chat reply for d before answering.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithClock overrides the time source used for reply timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger logs each request through logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a fake backend advertising DefaultAgents.
func New(opts ...Option) *Server {
	s := &Server{
		agents:    DefaultAgents(),
		responder: CannedReply,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultAgents returns the three agents the real backend ships with.
func DefaultAgents() []model.Agent {
	return []model.Agent{
		{Name: "chat", Description: "General conversation and questions", Icon: "💬", Color: model.ColorBlue},
		{Name: "quiz", Description: "Generate quizzes and practice problems", Icon: "📝", Color: model.ColorGreen},
		{Name: "explanation", Description: "Detailed explanations of concepts", Icon: "🧠", Color: model.ColorPurple},
	}
}

// =============================================================================
// FAILURE INJECTION
// =============================================================================

// FailWith makes chat and route requests answer with status and a
// {"detail": detail} body until Recover is called.
func (s *Server) FailWith(status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failDetail = detail
}

// FailAgents makes GET /api/agents answer 503 until Recover is called.
func (s *Server) FailAgents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agentsDown = true
}

// Recover clears any injected failure.
func (s *Server) Recover() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = 0
	s.failDetail = ""
	s.agentsDown = false
}

// =============================================================================
// INSPECTION
// =============================================================================

// Requests returns a copy of every captured chat and route request.
func (s *Server) Requests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// ChatCalls returns how many POST /api/chat requests were received.
func (s *Server) ChatCalls() int64 {
	return s.chatCalls.Load()
}

// =============================================================================
// ROUTES
// =============================================================================

// Handler returns a gin engine serving every backend route.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	s.RegisterRoutes(router)
	return router
}

// RegisterRoutes mounts the backend routes on r.
func (s *Server) RegisterRoutes(r gin.IRouter) {
	r.GET("/", s.health("AI Teaching Assistant API is running!"))
	r.GET("/health", s.health("All systems operational"))
	r.GET("/api/agents", s.listAgents)
	r.POST("/api/chat", s.chat)
	r.POST("/api/route", s.route)
}

func (s *Server) health(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, agentapi.HealthStatus{Status: "healthy", Message: message})
	}
}

func (s *Server) listAgents(c *gin.Context) {
	s.mu.Lock()
	down := s.agentsDown
	agents := append([]model.Agent(nil), s.agents...)
	s.mu.Unlock()

	if down {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "agents unavailable"})
		return
	}
	c.JSON(http.StatusOK, agentapi.AgentsResponse{Agents: agents})
}

func (s *Server) chat(c *gin.Context) {
	call := s.chatCalls.Add(1)

	req, ok := s.bind(c, call)
	if !ok {
		return
	}

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	agent := RouteMessage(req.Message)
	c.JSON(http.StatusOK, agentapi.ChatResponse{
		Response:  s.responder(agent, req.Message),
		Agent:     agent,
		Timestamp: model.FormatTimestamp(s.now()),
	})
}

func (s *Server) route(c *gin.Context) {
	req, ok := s.bind(c, 0)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, agentapi.RoutePreview{
		Agent:     RouteMessage(req.Message),
		Timestamp: model.FormatTimestamp(s.now()),
	})
}

// bind decodes and records the request, then applies validation and any
// injected failure. It reports whether the handler should continue.
func (s *Server) bind(c *gin.Context, call int64) (agentapi.ChatRequest, bool) {
	var req agentapi.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "invalid request body"})
		return req, false
	}

	s.mu.Lock()
	s.requests = append(s.requests, CapturedRequest{
		Path:      c.FullPath(),
		Request:   req,
		CallIndex: call,
		Received:  s.now(),
	})
	status, detail := s.failStatus, s.failDetail
	s.mu.Unlock()

	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Message cannot be empty"})
		return req, false
	}
	if status != 0 {
		c.JSON(status, gin.H{"detail": detail})
		return req, false
	}
	return req, true
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// =============================================================================
// ROUTING
// =============================================================================

var (
	quizKeywords        = []string{"quiz", "test me", "practice", "problems", "exercise"}
	explanationKeywords = []string{"explain", "how does", "why does", "what is photosynthesis", "in detail"}
)

// RouteMessage picks an agent by keyword. The real backend asks an LLM;
// keywords keep the fake deterministic.
func RouteMessage(message string) string {
	lower := strings.ToLower(message)
	for _, kw := range quizKeywords {
		if strings.Contains(lower, kw) {
			return "quiz"
		}
	}
	for _, kw := range explanationKeywords {
		if strings.Contains(lower, kw) {
			return "explanation"
		}
	}
	return "chat"
}

// CannedReply is the default Responder.
func CannedReply(agent, message string) string {
	switch agent {
	case "quiz":
		return fmt.Sprintf("## Quiz\n\n1. What is the main idea behind **%s**?\n2. Give one example.\n3. Name a common pitfall.", message)
	case "explanation":
		return fmt.Sprintf("Here is a detailed explanation of **%s**.\n\n```python\nprint(\"hello\")\n```", message)
	default:
		return fmt.Sprintf("You said: %s", message)
	}
}
