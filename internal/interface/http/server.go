// Package http implements the REST API for Azkar Hub: the catalog, the
// completion tracker, daily statistics and the assistant endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azkar-hub/azkar-hub/internal/application/assistant"
	"github.com/azkar-hub/azkar-hub/internal/application/command"
	"github.com/azkar-hub/azkar-hub/internal/application/query"
	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	domain "github.com/azkar-hub/azkar-hub/internal/domain/assistant"
	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/auth"
	"github.com/azkar-hub/azkar-hub/internal/infrastructure/metrics"
	"github.com/azkar-hub/azkar-hub/internal/interface/http/handlers"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MaxHeaderBytes - maximum size of request headers.
	MaxHeaderBytes int

	// MaxBodyBytes - maximum size of request bodies.
	MaxBodyBytes int64

	// AllowedOrigins - allowed origins for CORS. Empty disables CORS headers.
	AllowedOrigins []string

	// RateLimitPerSec - sustained requests per second per client IP (0 = disabled).
	RateLimitPerSec float64
	RateLimitBurst  int

	// TrustedProxies - IPs or CIDRs whose X-Forwarded-For / X-Real-IP headers
	// are honoured. Empty means the peer address is always the client.
	TrustedProxies []string

	// Version is reported by the root and health endpoints.
	Version string
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		MaxHeaderBytes:  1 << 20,
		MaxBodyBytes:    64 << 10,
		AllowedOrigins:  []string{"*"},
		RateLimitPerSec: 10,
		RateLimitBurst:  20,
		Version:         "v1",
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// CatalogLister lists a category.
type CatalogLister interface {
	Handle(ctx context.Context, q query.ListAzkarQuery) ([]*azkar.Zikr, error)
}

// CatalogSearcher runs full-text search.
type CatalogSearcher interface {
	Handle(ctx context.Context, q query.SearchAzkarQuery) ([]*azkar.Zikr, error)
}

// ZikrGetter loads one catalog item.
type ZikrGetter interface {
	Handle(ctx context.Context, id string) (*azkar.Zikr, error)
}

// CompletionRecorder records a completion.
type CompletionRecorder interface {
	Handle(ctx context.Context, cmd command.RecordCompletionCommand) (*command.RecordCompletionResult, error)
}

// ProgressReader reads progress records.
type ProgressReader interface {
	Handle(ctx context.Context, q query.GetUserProgressQuery) ([]*progress.Record, error)
}

// DailyStatsReader reads daily summaries.
type DailyStatsReader interface {
	Handle(ctx context.Context, q query.GetDailyStatsQuery) ([]*progress.DailySummary, error)
}

// Assistant is the language-model gateway.
type Assistant interface {
	AskQuestion(ctx context.Context, userID shared.UserID, question string) (assistant.AskResult, error)
	GeneratePersonalizedReminder(ctx context.Context, tod domain.TimeOfDay, stats domain.UserStats) string
	ExplainZikrMeaning(ctx context.Context, zikrText string, level domain.Level) string
	MarkAnswerHelpful(ctx context.Context, userID shared.UserID, questionID string, helpful bool) error
}

// IdentityResolver turns a bearer token into a user.
type IdentityResolver interface {
	Resolve(token string) (shared.UserID, error)
}

// Dependencies contains all dependencies required by HTTP handlers.
type Dependencies struct {
	// Query Handlers (CQRS Read Side)
	ListAzkar       CatalogLister
	SearchAzkar     CatalogSearcher
	GetZikr         ZikrGetter
	GetUserProgress ProgressReader
	GetDailyStats   DailyStatsReader

	// Command Handlers (CQRS Write Side)
	RecordCompletion CompletionRecorder

	// Assistant is optional; nil leaves the /api/v1/assistant routes unregistered.
	Assistant Assistant

	// Identity resolves bearer tokens. Nil treats every caller as anonymous.
	Identity IdentityResolver

	// Metrics is optional; nil disables /metrics and request instrumentation.
	Metrics *metrics.Metrics

	HealthChecker handlers.HealthChecker

	Logger *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server represents the HTTP server.
type Server struct {
	config     Config
	deps       Dependencies
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	logger     *logger.Logger

	rateLimiter *handlers.KeyedRateLimiter
	trusted     []netip.Prefix

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server with the given configuration and dependencies.
func NewServer(config Config, deps Dependencies) *Server {
	s := &Server{
		config: config,
		deps:   deps,
		router: http.NewServeMux(),
		logger: deps.Logger,
	}

	if s.logger == nil {
		s.logger = logger.Default()
	}
	s.logger = s.logger.With(logger.Component("http"))

	for _, p := range config.TrustedProxies {
		prefix, err := parseTrustedProxy(p)
		if err != nil {
			s.logger.Warn("ignoring trusted proxy", logger.String("value", p), logger.Err(err))
			continue
		}
		s.trusted = append(s.trusted, prefix)
	}

	if config.RateLimitPerSec > 0 {
		s.rateLimiter = handlers.NewKeyedRateLimiter(config.RateLimitPerSec, config.RateLimitBurst)
	}

	s.setupRoutes()
	s.handler = s.buildMiddlewareChain(s.router)

	s.httpServer = &http.Server{
		Addr:           config.Address(),
		Handler:        s.handler,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	return s
}

// Handler returns the fully wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING
// ══════════════════════════════════════════════════════════════════════════════

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Health & Status Endpoints
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /live", s.handleLive)
	s.router.HandleFunc("GET /{$}", s.handleRoot)

	if s.deps.Metrics != nil {
		s.router.Handle("GET /metrics", s.deps.Metrics.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// API v1 - Catalog
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("GET /api/v1/azkar", s.handleListAzkar)
	s.router.HandleFunc("GET /api/v1/azkar/search", s.handleSearchAzkar)
	s.router.HandleFunc("GET /api/v1/azkar/{id}", s.handleGetZikr)

	// ─────────────────────────────────────────────────────────────────────────
	// API v1 - Progress
	// ─────────────────────────────────────────────────────────────────────────
	s.router.HandleFunc("POST /api/v1/azkar/{id}/complete", s.handleRecordCompletion)
	s.router.HandleFunc("GET /api/v1/progress", s.handleGetProgress)
	s.router.HandleFunc("GET /api/v1/stats/daily", s.handleGetDailyStats)

	// ─────────────────────────────────────────────────────────────────────────
	// API v1 - Assistant
	// ─────────────────────────────────────────────────────────────────────────
	if s.deps.Assistant != nil {
		s.router.HandleFunc("POST /api/v1/assistant/ask", s.handleAsk)
		s.router.HandleFunc("POST /api/v1/assistant/reminder", s.handleReminder)
		s.router.HandleFunc("POST /api/v1/assistant/explain", s.handleExplain)
		s.router.HandleFunc("POST /api/v1/assistant/questions/{id}/feedback", s.handleFeedback)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE CHAIN
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware. Instrumentation
// sits directly on the mux so it can read the matched pattern.
func (s *Server) buildMiddlewareChain(router http.Handler) http.Handler {
	h := router
	if s.deps.Metrics != nil {
		h = s.deps.Metrics.Instrument(h)
	}

	chain := []handlers.MiddlewareFunc{
		s.recoveryMiddleware,
		s.requestIDMiddleware,
		s.loggingMiddleware,
		handlers.SecurityHeadersMiddleware,
	}
	if len(s.config.AllowedOrigins) > 0 {
		chain = append(chain, s.corsMiddleware)
	}
	if s.rateLimiter != nil {
		chain = append(chain, s.rateLimiter.Middleware(s.clientIP))
	}
	if s.config.MaxBodyBytes > 0 {
		chain = append(chain, handlers.RequestSizeLimitMiddleware(s.config.MaxBodyBytes))
	}
	chain = append(chain, s.authMiddleware)

	return handlers.Chain(chain...)(h)
}

// requestIDMiddleware adds a unique request ID to each request and a
// request-scoped logger to its context.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		ctx = logger.WithContext(ctx, s.logger.WithRequestID(requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs all HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		log := logger.FromContext(r.Context())
		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.statusCode),
			logger.Latency(time.Since(start)),
			logger.String("ip", s.clientIP(r)),
		}
		if rw.statusCode >= http.StatusInternalServerError {
			log.Warn("http request", fields...)
			return
		}
		log.Info("http request", fields...)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic recovered",
					logger.Any("error", err),
					logger.String("stack", string(debug.Stack())),
					logger.String("path", r.URL.Path),
					logger.String("request_id", getRequestID(r.Context())),
				)
				writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, o := range s.config.AllowedOrigins {
			if o == "*" || o == origin {
				allowed = true
				break
			}
		}

		if allowed && origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// authMiddleware resolves the bearer token, if any. No token means an
// anonymous caller; a token that does not verify is rejected outright.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r.Header.Get("Authorization"))
		if token == "" || s.deps.Identity == nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := s.deps.Identity.Resolve(token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("bearer token rejected", logger.Err(err))
			writeJSONError(w, http.StatusUnauthorized, "invalid_token", "Bearer token is invalid or expired")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, userID)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(logger.UserID(userID.String())))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// Address returns the server address.
func (s *Server) Address() string {
	return s.config.Address()
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse represents a standard JSON response.
type JSONResponse struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data,omitempty"`
	Error     *APIError     `json:"error,omitempty"`
	Meta      *ResponseMeta `json:"meta,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseMeta contains response metadata.
type ResponseMeta struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version,omitempty"`
	TotalCount int       `json:"total_count,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	response := JSONResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta: &ResponseMeta{
			Timestamp: time.Now().UTC(),
			Version:   "v1",
		},
	}

	_ = json.NewEncoder(w).Encode(response)
}

// writeJSONWithMeta writes a JSON response with custom metadata.
func writeJSONWithMeta(w http.ResponseWriter, r *http.Request, status int, data any, meta *ResponseMeta) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if meta == nil {
		meta = &ResponseMeta{}
	}
	meta.Timestamp = time.Now().UTC()
	meta.Version = "v1"

	response := JSONResponse{
		Success:   status >= 200 && status < 300,
		Data:      data,
		Meta:      meta,
		RequestID: getRequestID(r.Context()),
	}

	_ = json.NewEncoder(w).Encode(response)
}

// writeJSONError writes an error JSON response.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSONErrorWithDetails(w, status, code, message, "")
}

// writeJSONErrorWithDetails writes an error JSON response with details.
func writeJSONErrorWithDetails(w http.ResponseWriter, status int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	response := JSONResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Meta: &ResponseMeta{
			Timestamp: time.Now().UTC(),
		},
	}

	_ = json.NewEncoder(w).Encode(response)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyUserID    contextKey = "user_id"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// clientIP returns the address the rate limiter and access log key on.
// Forwarding headers are read only when the peer is a trusted proxy; the
// X-Forwarded-For chain is then walked right to left and the first hop that
// is not itself trusted wins.
func (s *Server) clientIP(r *http.Request) string {
	peer := remoteHost(r.RemoteAddr)
	if !s.isTrusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !s.isTrusted(hop) {
				return hop
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}

func (s *Server) isTrusted(ip string) bool {
	if len(s.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range s.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// parseTrustedProxy accepts a bare IP or a CIDR.
func parseTrustedProxy(v string) (netip.Prefix, error) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "/") {
		p, err := netip.ParsePrefix(v)
		if err != nil {
			return netip.Prefix{}, err
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(v)
	if err != nil {
		return netip.Prefix{}, err
	}
	addr = addr.Unmap()
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

// getRequestID extracts the request ID from context.
func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// getUserID returns the authenticated caller, or "" for anonymous requests.
func getUserID(ctx context.Context) shared.UserID {
	if id, ok := ctx.Value(contextKeyUserID).(shared.UserID); ok {
		return id
	}
	return ""
}

// generateRequestID generates a unique request ID.
func generateRequestID() string {
	return uuid.NewString()
}

// getQueryParam extracts a trimmed query parameter with a default value.
func getQueryParam(r *http.Request, key, defaultValue string) string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue
	}
	return value
}
