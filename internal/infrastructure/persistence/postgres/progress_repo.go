package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const progressColumns = `
	id::text, user_id, azkar_id::text, completed_count, last_completed,
	streak, total_completions, created_at, updated_at
`

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	q Querier
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(q Querier) *ProgressRepository {
	return &ProgressRepository{q: q}
}

// LockUser takes a transaction-scoped advisory lock keyed on the user id.
// It is released on commit or rollback.
func (r *ProgressRepository) LockUser(ctx context.Context, userID shared.UserID) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, string(userID)); err != nil {
		return fmt.Errorf("failed to lock user: %w", err)
	}
	return nil
}

// GetForUpdate returns the record for (user, zikr) and takes a row lock.
// Only meaningful inside a transaction.
func (r *ProgressRepository) GetForUpdate(ctx context.Context, userID shared.UserID, zikrID shared.ZikrID) (*progress.Record, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1 AND azkar_id = $2
		FOR UPDATE
	`
	return r.getOne(ctx, query, userID, zikrID)
}

// Get returns the record for (user, zikr).
func (r *ProgressRepository) Get(ctx context.Context, userID shared.UserID, zikrID shared.ZikrID) (*progress.Record, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1 AND azkar_id = $2
	`
	return r.getOne(ctx, query, userID, zikrID)
}

func (r *ProgressRepository) getOne(ctx context.Context, query string, userID shared.UserID, zikrID shared.ZikrID) (*progress.Record, error) {
	if !zikrID.IsValid() {
		return nil, shared.ErrProgressNotFound
	}

	rec, err := scanRecord(r.q.QueryRow(ctx, query, string(userID), string(zikrID)))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return rec, nil
}

// ListByUser returns all of a user's records, most recently completed first.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID shared.UserID) ([]*progress.Record, error) {
	query := `SELECT ` + progressColumns + `
		FROM user_progress
		WHERE user_id = $1
		ORDER BY last_completed DESC NULLS LAST
	`

	rows, err := r.q.Query(ctx, query, string(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	out := make([]*progress.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress: %w", err)
	}
	return out, nil
}

// Create inserts a new record. An empty ID is filled in.
func (r *ProgressRepository) Create(ctx context.Context, rec *progress.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query := `
		INSERT INTO user_progress (
			id, user_id, azkar_id, completed_count, last_completed,
			streak, total_completions, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.Exec(ctx, query,
		rec.ID,
		string(rec.UserID),
		string(rec.ZikrID),
		rec.CompletedCount,
		rec.LastCompletedAt,
		rec.Streak,
		rec.TotalCompletions,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		switch {
		case IsUniqueViolation(err):
			return shared.ErrProgressExists
		case IsForeignKeyViolation(err):
			return shared.ErrZikrNotFound
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an existing record.
func (r *ProgressRepository) Update(ctx context.Context, rec *progress.Record) error {
	query := `
		UPDATE user_progress SET
			completed_count = $1,
			last_completed = $2,
			streak = $3,
			total_completions = $4,
			updated_at = $5
		WHERE user_id = $6 AND azkar_id = $7
	`

	tag, err := r.q.Exec(ctx, query,
		rec.CompletedCount,
		rec.LastCompletedAt,
		rec.Streak,
		rec.TotalCompletions,
		rec.UpdatedAt,
		string(rec.UserID),
		string(rec.ZikrID),
	)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrProgressNotFound
	}
	return nil
}

func scanRecord(row pgx.Row) (*progress.Record, error) {
	var (
		rec           progress.Record
		userID        string
		zikrID        string
		lastCompleted *time.Time
	)

	err := row.Scan(
		&rec.ID,
		&userID,
		&zikrID,
		&rec.CompletedCount,
		&lastCompleted,
		&rec.Streak,
		&rec.TotalCompletions,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.UserID = shared.UserID(userID)
	rec.ZikrID = shared.ZikrID(zikrID)
	if lastCompleted != nil {
		rec.LastCompletedAt = *lastCompleted
	}
	return &rec, nil
}
