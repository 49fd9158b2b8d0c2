package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/timeutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY STATS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const dailyColumns = `
	id::text, user_id, date::text, morning_completed, evening_completed,
	total_azkar_completed, time_spent, streak, created_at, updated_at
`

// DailyStatsRepository implements progress.DailyRepository for PostgreSQL.
type DailyStatsRepository struct {
	q Querier
}

// NewDailyStatsRepository creates a new DailyStatsRepository.
func NewDailyStatsRepository(q Querier) *DailyStatsRepository {
	return &DailyStatsRepository{q: q}
}

// Get returns the summary for (user, date).
func (r *DailyStatsRepository) Get(ctx context.Context, userID shared.UserID, date string) (*progress.DailySummary, error) {
	day, err := timeutil.ParseDateKey(date)
	if err != nil {
		return nil, shared.ErrInvalidDate
	}

	query := `SELECT ` + dailyColumns + `
		FROM daily_stats
		WHERE user_id = $1 AND date = $2
	`

	s, err := scanDaily(r.q.QueryRow(ctx, query, string(userID), day))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrDailySummaryNotFound
		}
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return s, nil
}

// Create inserts a new summary. An empty ID is filled in. A row that
// already exists for (user, date) keeps its id, streak and time spent and
// only has the derived fields replaced; s is refreshed from the stored row.
func (r *DailyStatsRepository) Create(ctx context.Context, s *progress.DailySummary) error {
	day, err := timeutil.ParseDateKey(s.Date)
	if err != nil {
		return shared.ErrInvalidDate
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	query := `
		INSERT INTO daily_stats (
			id, user_id, date, morning_completed, evening_completed,
			total_azkar_completed, time_spent, streak, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, date) DO UPDATE SET
			morning_completed = EXCLUDED.morning_completed,
			evening_completed = EXCLUDED.evening_completed,
			total_azkar_completed = EXCLUDED.total_azkar_completed,
			updated_at = EXCLUDED.updated_at
		RETURNING id::text, time_spent, streak, created_at
	`

	err = r.q.QueryRow(ctx, query,
		s.ID,
		string(s.UserID),
		day,
		s.MorningCompleted,
		s.EveningCompleted,
		s.TotalAzkarCompleted,
		s.TimeSpent,
		s.Streak,
		s.CreatedAt,
		s.UpdatedAt,
	).Scan(&s.ID, &s.TimeSpent, &s.Streak, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create daily stats: %w", err)
	}
	return nil
}

// UpdateTotals persists the derived fields only.
func (r *DailyStatsRepository) UpdateTotals(ctx context.Context, s *progress.DailySummary) error {
	day, err := timeutil.ParseDateKey(s.Date)
	if err != nil {
		return shared.ErrInvalidDate
	}

	query := `
		UPDATE daily_stats SET
			morning_completed = $1,
			evening_completed = $2,
			total_azkar_completed = $3,
			updated_at = $4
		WHERE user_id = $5 AND date = $6
	`

	tag, err := r.q.Exec(ctx, query,
		s.MorningCompleted,
		s.EveningCompleted,
		s.TotalAzkarCompleted,
		s.UpdatedAt,
		string(s.UserID),
		day,
	)
	if err != nil {
		return fmt.Errorf("failed to update daily stats: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrDailySummaryNotFound
	}
	return nil
}

// ListByUser returns the user's summaries newest first.
func (r *DailyStatsRepository) ListByUser(ctx context.Context, userID shared.UserID, dr shared.DateRange, limit int) ([]*progress.DailySummary, error) {
	query, args, err := buildDailyListQuery(userID, dr, limit)
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	defer rows.Close()

	out := make([]*progress.DailySummary, 0)
	for rows.Next() {
		s, err := scanDaily(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily stats: %w", err)
	}
	return out, nil
}

// buildDailyListQuery adds a bound per non-empty range end.
func buildDailyListQuery(userID shared.UserID, dr shared.DateRange, limit int) (string, []any, error) {
	var sb strings.Builder
	args := []any{string(userID)}

	sb.WriteString(`SELECT `)
	sb.WriteString(dailyColumns)
	sb.WriteString(` FROM daily_stats WHERE user_id = $1`)

	if dr.From != "" {
		from, err := timeutil.ParseDateKey(dr.From)
		if err != nil {
			return "", nil, shared.ErrInvalidDate
		}
		args = append(args, from)
		fmt.Fprintf(&sb, ` AND date >= $%d`, len(args))
	}
	if dr.To != "" {
		to, err := timeutil.ParseDateKey(dr.To)
		if err != nil {
			return "", nil, shared.ErrInvalidDate
		}
		args = append(args, to)
		fmt.Fprintf(&sb, ` AND date <= $%d`, len(args))
	}

	if limit <= 0 || limit > progress.MaxDailyHistory {
		limit = progress.MaxDailyHistory
	}
	args = append(args, limit)
	fmt.Fprintf(&sb, ` ORDER BY date DESC LIMIT $%d`, len(args))

	return sb.String(), args, nil
}

func scanDaily(row pgx.Row) (*progress.DailySummary, error) {
	var (
		s      progress.DailySummary
		userID string
	)

	err := row.Scan(
		&s.ID,
		&userID,
		&s.Date,
		&s.MorningCompleted,
		&s.EveningCompleted,
		&s.TotalAzkarCompleted,
		&s.TimeSpent,
		&s.Streak,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.UserID = shared.UserID(userID)
	return &s, nil
}
