package postgres

import (
	"context"
	"fmt"

	"github.com/azkar-hub/azkar-hub/internal/domain/assistant"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSISTANT QUESTION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// QuestionRepository implements assistant.Repository for PostgreSQL.
type QuestionRepository struct {
	q Querier
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(q Querier) *QuestionRepository {
	return &QuestionRepository{q: q}
}

// Save inserts a new question/answer pair.
func (r *QuestionRepository) Save(ctx context.Context, rec *assistant.QARecord) error {
	query := `
		INSERT INTO ai_questions (
			id, user_id, question, answer, category, confidence, helpful, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query,
		string(rec.ID),
		string(rec.UserID),
		rec.Question,
		rec.Answer,
		rec.Category,
		rec.Confidence,
		rec.Helpful,
		rec.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: question %s", shared.ErrAlreadyExists, rec.ID)
		}
		return fmt.Errorf("failed to save question: %w", err)
	}
	return nil
}

// SetHelpful records feedback on a question owned by userID.
func (r *QuestionRepository) SetHelpful(ctx context.Context, userID shared.UserID, id shared.QuestionID, helpful bool) error {
	query := `UPDATE ai_questions SET helpful = $1 WHERE id = $2 AND user_id = $3`

	tag, err := r.q.Exec(ctx, query, helpful, string(id), string(userID))
	if err != nil {
		return fmt.Errorf("failed to update question feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrQuestionNotFound
	}
	return nil
}

var _ assistant.Repository = (*QuestionRepository)(nil)
