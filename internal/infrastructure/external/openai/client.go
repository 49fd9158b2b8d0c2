// Package openai implements the chat completion client used by the
// assistant gateway. Any OpenAI-compatible endpoint works.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/assistant"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/circuitbreaker"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
	"github.com/azkar-hub/azkar-hub/pkg/retry"

	"golang.org/x/time/rate"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// maxErrorBody bounds how much of an error response ends up in logs.
const maxErrorBody = 512

// ClientConfig contains configuration for the completion client.
type ClientConfig struct {
	// BaseURL is the API root, e.g. https://api.openai.com/v1
	BaseURL string

	// APIKey is sent as a bearer token.
	APIKey string

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	// Circuit breaker settings
	BreakerThreshold int
	BreakerTimeout   time.Duration

	// RequestsPerSecond throttles outgoing calls. Zero disables throttling.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client

	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(baseURL, apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL:           baseURL,
		APIKey:            apiKey,
		Timeout:           30 * time.Second,
		MaxRetries:        2,
		RetryBaseDelay:    500 * time.Millisecond,
		RetryMaxDelay:     5 * time.Second,
		BreakerThreshold:  5,
		BreakerTimeout:    60 * time.Second,
		RequestsPerSecond: 5,
		Burst:             10,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client implements assistant.CompletionService over HTTP.
type Client struct {
	config     ClientConfig
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *circuitbreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewClient creates a new completion client.
func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logger.Nop()
	}
	log := config.Logger.With(logger.Component("openai"))

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	breaker := circuitbreaker.New("openai",
		circuitbreaker.WithFailureThreshold(config.BreakerThreshold),
		circuitbreaker.WithTimeout(config.BreakerTimeout),
		circuitbreaker.WithIsFailure(countsAgainstBreaker),
		circuitbreaker.WithOnStateChange(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
	)

	return &Client{
		config:     config,
		endpoint:   strings.TrimRight(config.BaseURL, "/") + "/chat/completions",
		httpClient: httpClient,
		limiter:    limiter,
		breaker:    breaker,
		logger:     log,
	}
}

// BreakerState exposes the circuit breaker state for health reporting.
func (c *Client) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

// Complete sends one chat completion and returns the first choice's text.
// Transient failures are retried; the breaker sees one outcome per call.
func (c *Client) Complete(ctx context.Context, req assistant.CompletionRequest) (string, error) {
	body := toRequestDTO(req)

	var content string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, func(ctx context.Context) error {
			out, err := c.doSingleRequest(ctx, body)
			if err != nil {
				return err
			}
			content = out
			return nil
		},
			retry.WithMaxAttempts(c.config.MaxRetries+1),
			retry.WithInitialDelay(c.config.RetryBaseDelay),
			retry.WithMaxDelay(c.config.RetryMaxDelay),
			retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
				c.logger.Warn("completion attempt failed, retrying",
					logger.Int("attempt", attempt),
					logger.Duration("delay", delay),
					logger.Err(err),
				)
			}),
		)
	})
	if err != nil {
		if circuitbreaker.IsRejection(err) {
			return "", fmt.Errorf("%w: %v", shared.ErrCompletionAPIUnavailable, err)
		}
		return "", err
	}
	return content, nil
}

// doSingleRequest performs one HTTP attempt. Transient failures come back
// wrapped with retry.Retryable.
func (c *Client) doSingleRequest(ctx context.Context, body ChatRequestDTO) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: %v", shared.ErrCompletionAPIRateLimited, err)
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", retry.Retryable(fmt.Errorf("%w: %v", shared.ErrCompletionAPITimeout, err))
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", retry.Retryable(fmt.Errorf("%w: %v", shared.ErrCompletionAPIUnavailable, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("%w: read response: %v", shared.ErrCompletionAPIUnavailable, err))
	}

	c.logger.Debug("completion response",
		logger.Int("status", resp.StatusCode),
		logger.Latency(time.Since(started)),
	)

	if resp.StatusCode >= 400 {
		return "", statusError(resp.StatusCode, respBody)
	}

	var parsed ChatResponseDTO
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrCompletionAPIBadResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", shared.ErrEmptyCompletion
	}

	return parsed.Choices[0].Message.Content, nil
}

// statusError maps an HTTP error status to a domain error.
// 429 and 5xx are retryable; other 4xx are not.
func statusError(status int, body []byte) error {
	msg := errorMessage(body)

	switch {
	case status == http.StatusTooManyRequests:
		return retry.Retryable(fmt.Errorf("%w: %s", shared.ErrCompletionAPIRateLimited, msg))
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return retry.Retryable(fmt.Errorf("%w: status %d: %s", shared.ErrCompletionAPITimeout, status, msg))
	case status >= 500:
		return retry.Retryable(fmt.Errorf("%w: status %d: %s", shared.ErrCompletionAPIUnavailable, status, msg))
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrCompletionRejected, status, msg)
	}
}

func errorMessage(body []byte) string {
	var apiErr ErrorResponseDTO
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// countsAgainstBreaker ignores caller mistakes and cancellations.
func countsAgainstBreaker(err error) bool {
	switch {
	case errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, shared.ErrCompletionRejected):
		return false
	}
	return true
}

func toRequestDTO(req assistant.CompletionRequest) ChatRequestDTO {
	msgs := make([]MessageDTO, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = MessageDTO{Role: string(m.Role), Content: m.Content}
	}
	return ChatRequestDTO{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

var _ assistant.CompletionService = (*Client)(nil)
