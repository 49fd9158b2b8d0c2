// Package assistant forwards user questions and prompt requests to a
// language-model completion service. Failures never surface as errors:
// callers get a fixed Arabic fallback text instead.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/azkar-hub/azkar-hub/internal/domain/assistant"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
)

// Stored QA metadata.
const (
	QuestionCategory  = "religious"
	AnswerConfidence  = 0.8
	maxQuestionLength = 2000
)

// Operation names reported to the Observer.
const (
	OpAsk      = "ask"
	OpReminder = "reminder"
	OpExplain  = "explain"
)

// Observer receives the outcome of every completion call.
type Observer interface {
	ObserveAssistantCall(op string, success bool, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAssistantCall(string, bool, time.Duration) {}

// Config holds per-operation generation parameters.
type Config struct {
	Model string

	AskMaxTokens   int
	AskTemperature float64

	ReminderMaxTokens   int
	ReminderTemperature float64

	ExplainMaxTokens   int
	ExplainTemperature float64
}

// DefaultConfig returns the standard generation parameters.
func DefaultConfig() Config {
	return Config{
		Model:               "gpt-4.1-nano",
		AskMaxTokens:        500,
		AskTemperature:      0.7,
		ReminderMaxTokens:   150,
		ReminderTemperature: 0.8,
		ExplainMaxTokens:    300,
		ExplainTemperature:  0.7,
	}
}

// AskResult is returned by AskQuestion.
type AskResult struct {
	Answer  string
	Success bool
	// QuestionID is set when the exchange was stored.
	QuestionID shared.QuestionID
}

// Gateway is the assistant entry point.
type Gateway struct {
	completions domain.CompletionService
	repo        domain.Repository
	config      Config
	observer    Observer
	log         *logger.Logger
	now         func() time.Time
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithObserver sets the call observer.
func WithObserver(o Observer) Option {
	return func(g *Gateway) {
		if o != nil {
			g.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGateway creates a Gateway over an explicitly constructed completion
// service. Zero-valued config fields fall back to DefaultConfig.
func NewGateway(completions domain.CompletionService, repo domain.Repository, cfg Config, opts ...Option) *Gateway {
	def := DefaultConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.AskMaxTokens == 0 {
		cfg.AskMaxTokens, cfg.AskTemperature = def.AskMaxTokens, def.AskTemperature
	}
	if cfg.ReminderMaxTokens == 0 {
		cfg.ReminderMaxTokens, cfg.ReminderTemperature = def.ReminderMaxTokens, def.ReminderTemperature
	}
	if cfg.ExplainMaxTokens == 0 {
		cfg.ExplainMaxTokens, cfg.ExplainTemperature = def.ExplainMaxTokens, def.ExplainTemperature
	}

	g := &Gateway{
		completions: completions,
		repo:        repo,
		config:      cfg,
		observer:    nopObserver{},
		log:         logger.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With(logger.Component("assistant"))
	return g
}

// AskQuestion answers a free-text question and stores the exchange.
// The only errors returned are for a missing user or an unusable question;
// every downstream failure becomes FallbackAskError with Success false.
func (g *Gateway) AskQuestion(ctx context.Context, userID shared.UserID, question string) (AskResult, error) {
	if userID.IsEmpty() {
		return AskResult{}, fmt.Errorf("ask_question: %w", shared.ErrUnauthenticated)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return AskResult{}, fmt.Errorf("ask_question: %w", shared.ErrEmptyQuestion)
	}
	if len([]rune(question)) > maxQuestionLength {
		return AskResult{}, fmt.Errorf("ask_question: %w", shared.NewDomainError("assistant", "Validate", shared.ErrValueOutOfRange, "question is too long"))
	}

	answer, err := g.complete(ctx, OpAsk, domain.CompletionRequest{
		Model: g.config.Model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: askSystemPrompt},
			{Role: domain.RoleUser, Content: question},
		},
		MaxTokens:   g.config.AskMaxTokens,
		Temperature: g.config.AskTemperature,
	})
	if err != nil {
		return AskResult{Answer: FallbackAskError, Success: false}, nil
	}
	if answer == "" {
		answer = FallbackNoAnswer
	}

	rec := &domain.QARecord{
		ID:         shared.GenerateQuestionID(),
		UserID:     userID,
		Question:   question,
		Answer:     answer,
		Category:   QuestionCategory,
		Confidence: AnswerConfidence,
		CreatedAt:  g.now().UTC(),
	}
	if err := g.repo.Save(ctx, rec); err != nil {
		g.log.Warn("failed to store assistant answer",
			logger.UserID(userID.String()),
			logger.Err(err),
		)
		return AskResult{Answer: FallbackAskError, Success: false}, nil
	}

	return AskResult{Answer: answer, Success: true, QuestionID: rec.ID}, nil
}

// GeneratePersonalizedReminder writes a short motivational reminder.
func (g *Gateway) GeneratePersonalizedReminder(ctx context.Context, tod domain.TimeOfDay, stats domain.UserStats) string {
	text, err := g.complete(ctx, OpReminder, domain.CompletionRequest{
		Model:       g.config.Model,
		Messages:    []domain.Message{{Role: domain.RoleUser, Content: reminderPrompt(tod, stats)}},
		MaxTokens:   g.config.ReminderMaxTokens,
		Temperature: g.config.ReminderTemperature,
	})
	if err != nil || text == "" {
		return FallbackReminder
	}
	return text
}

// ExplainZikrMeaning explains a zikr at the requested depth.
func (g *Gateway) ExplainZikrMeaning(ctx context.Context, zikrText string, level domain.Level) string {
	text, err := g.complete(ctx, OpExplain, domain.CompletionRequest{
		Model:       g.config.Model,
		Messages:    []domain.Message{{Role: domain.RoleUser, Content: explainPrompt(strings.TrimSpace(zikrText), level)}},
		MaxTokens:   g.config.ExplainMaxTokens,
		Temperature: g.config.ExplainTemperature,
	})
	if err != nil || text == "" {
		return FallbackExplainer
	}
	return text
}

// MarkAnswerHelpful stores the user's feedback on one of their answers.
func (g *Gateway) MarkAnswerHelpful(ctx context.Context, userID shared.UserID, questionID string, helpful bool) error {
	if userID.IsEmpty() {
		return fmt.Errorf("mark_helpful: %w", shared.ErrUnauthenticated)
	}
	qid, err := shared.NewQuestionID(questionID)
	if err != nil {
		return fmt.Errorf("mark_helpful: %w", err)
	}
	if err := g.repo.SetHelpful(ctx, userID, qid, helpful); err != nil {
		return fmt.Errorf("mark_helpful: %w", err)
	}
	return nil
}

func (g *Gateway) complete(ctx context.Context, op string, req domain.CompletionRequest) (string, error) {
	start := g.now()
	text, err := g.completions.Complete(ctx, req)
	elapsed := g.now().Sub(start)

	g.observer.ObserveAssistantCall(op, err == nil, elapsed)
	if err != nil {
		g.log.Warn("completion failed, using fallback",
			logger.Operation(op),
			logger.Latency(elapsed),
			logger.Err(err),
		)
		return "", err
	}
	return strings.TrimSpace(text), nil
}
