// Package assistant contains the model for language-model assisted
// answers: the completion port and the stored question/answer record.
package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// Role is a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn sent to the completion service.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest is a single chat-completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// CompletionService produces the text of the first choice for a request.
// An empty string with a nil error means the service answered with nothing.
type CompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Level is the depth of an explanation.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// ParseLevel validates a level; empty means beginner.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case "":
		return LevelBeginner, nil
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return l, nil
	default:
		return "", shared.ErrInvalidLevel
	}
}

// TimeOfDay selects the reminder wording.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// ParseTimeOfDay maps "morning" to Morning and anything else to Evening.
func ParseTimeOfDay(s string) TimeOfDay {
	if TimeOfDay(strings.ToLower(strings.TrimSpace(s))) == Morning {
		return Morning
	}
	return Evening
}

// UserStats feeds the personalized reminder prompt.
type UserStats struct {
	Streak           int
	CompletionRate   float64 // percent, may be fractional
	FavoriteCategory string
}

// QARecord is a stored question and its answer.
type QARecord struct {
	ID         shared.QuestionID
	UserID     shared.UserID
	Question   string
	Answer     string
	Category   string
	Confidence float64
	// Helpful is nil until the user gives feedback.
	Helpful   *bool
	CreatedAt time.Time
}

// Repository persists assistant exchanges.
type Repository interface {
	// Save inserts a new record.
	Save(ctx context.Context, r *QARecord) error

	// SetHelpful records user feedback on an answer they own.
	// Returns ErrQuestionNotFound if no such record belongs to the user.
	SetHelpful(ctx context.Context, userID shared.UserID, id shared.QuestionID, helpful bool) error
}
