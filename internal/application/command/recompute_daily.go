package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECOMPUTE DAILY COMMAND
// Rebuilds the derived fields of a user's daily summary from their progress
// records. The tracker calls Apply inside its own transaction; Handle opens
// a fresh one for standalone use.
// ══════════════════════════════════════════════════════════════════════════════

// RecomputeDailyCommand names the user and day to rebuild.
type RecomputeDailyCommand struct {
	progress.AggregationContext
}

// Validate validates the command.
func (c RecomputeDailyCommand) Validate() error {
	if c.UserID.IsEmpty() {
		return shared.ErrUnauthenticated
	}
	if !timeutil.IsDateKey(c.Date) {
		return shared.ErrInvalidDate
	}
	return nil
}

// RecomputeDailyHandler implements the daily aggregation.
type RecomputeDailyHandler struct {
	uow progress.UnitOfWork
	now timeutil.Clock
}

// NewRecomputeDailyHandler creates a new RecomputeDailyHandler.
func NewRecomputeDailyHandler(uow progress.UnitOfWork, clock timeutil.Clock) *RecomputeDailyHandler {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	return &RecomputeDailyHandler{uow: uow, now: clock}
}

// Handle recomputes the summary in its own transaction.
func (h *RecomputeDailyHandler) Handle(ctx context.Context, cmd RecomputeDailyCommand) (*progress.DailySummary, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("recompute_daily: %w", err)
	}

	var out *progress.DailySummary
	err := h.uow.Do(ctx, func(ctx context.Context, repos progress.Repos) error {
		if err := repos.Progress.LockUser(ctx, cmd.UserID); err != nil {
			return err
		}
		s, err := h.Apply(ctx, repos, cmd.AggregationContext)
		out = s
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recompute_daily: %w", err)
	}
	return out, nil
}

// Apply recomputes the summary for actx using the given repositories.
// The caller must already hold the user's lock in that transaction.
// Existing summaries get only their derived fields patched; a missing one
// is created with Streak 1 and TimeSpent 0.
func (h *RecomputeDailyHandler) Apply(ctx context.Context, repos progress.Repos, actx progress.AggregationContext) (*progress.DailySummary, error) {
	existing, err := repos.Daily.Get(ctx, actx.UserID, actx.Date)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("load summary: %w", err)
	}

	records, err := repos.Progress.ListByUser(ctx, actx.UserID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}

	morning, err := repos.Azkar.ListByCategory(ctx, azkar.CategoryMorning)
	if err != nil {
		return nil, fmt.Errorf("load morning azkar: %w", err)
	}

	evening, err := repos.Azkar.ListByCategory(ctx, azkar.CategoryEvening)
	if err != nil {
		return nil, fmt.Errorf("load evening azkar: %w", err)
	}

	totals := progress.ComputeTotals(records, morning, evening)
	now := h.now().UTC()

	if existing != nil {
		existing.Apply(totals, now)
		if err := repos.Daily.UpdateTotals(ctx, existing); err != nil {
			return nil, fmt.Errorf("update summary: %w", err)
		}
		return existing, nil
	}

	created := progress.NewDailySummary(actx.UserID, actx.Date, totals, now)
	if err := repos.Daily.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}
	return created, nil
}
