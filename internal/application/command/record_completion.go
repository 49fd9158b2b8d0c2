// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/logger"
	"github.com/azkar-hub/azkar-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD COMPLETION COMMAND
// Records that a user recited a zikr completedCount times, updates the
// per-item streak and refreshes today's summary in the same transaction.
// ══════════════════════════════════════════════════════════════════════════════

// RecordCompletionCommand contains the data to record a completion.
type RecordCompletionCommand struct {
	// UserID is the resolved caller. Empty means unauthenticated.
	UserID shared.UserID

	// ZikrID is the catalog item.
	ZikrID string

	// CompletedCount is the number of repetitions done in this cycle.
	CompletedCount int
}

// Validate validates the command.
func (c RecordCompletionCommand) Validate() error {
	if c.UserID.IsEmpty() {
		return shared.ErrUnauthenticated
	}
	if _, err := shared.NewZikrID(c.ZikrID); err != nil {
		return err
	}
	if c.CompletedCount < 0 {
		return shared.ErrNegativeCompletion
	}
	return nil
}

// RecordCompletionResult contains the outcome.
type RecordCompletionResult struct {
	Success bool

	// Record is the progress record after the update.
	Record *progress.Record

	// Created is true when this was the user's first completion of the zikr.
	Created bool

	// Daily is today's summary after recomputation.
	Daily *progress.DailySummary
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RecordCompletionHandler handles the RecordCompletionCommand.
type RecordCompletionHandler struct {
	uow        progress.UnitOfWork
	aggregator *RecomputeDailyHandler
	now        timeutil.Clock
	log        *logger.Logger
}

// NewRecordCompletionHandler creates a new RecordCompletionHandler.
func NewRecordCompletionHandler(
	uow progress.UnitOfWork,
	aggregator *RecomputeDailyHandler,
	clock timeutil.Clock,
	log *logger.Logger,
) *RecordCompletionHandler {
	if clock == nil {
		clock = timeutil.SystemClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RecordCompletionHandler{
		uow:        uow,
		aggregator: aggregator,
		now:        clock,
		log:        log.With(logger.Component("tracker")),
	}
}

// Handle executes the record completion command.
func (h *RecordCompletionHandler) Handle(ctx context.Context, cmd RecordCompletionCommand) (*RecordCompletionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_completion: %w", err)
	}
	zikrID, _ := shared.NewZikrID(cmd.ZikrID)
	now := h.now().UTC()

	result := &RecordCompletionResult{}

	err := h.uow.Do(ctx, func(ctx context.Context, repos progress.Repos) error {
		// Held until commit: the summary below reads all of the user's records.
		if err := repos.Progress.LockUser(ctx, cmd.UserID); err != nil {
			return err
		}

		rec, err := repos.Progress.GetForUpdate(ctx, cmd.UserID, zikrID)
		switch {
		case err == nil:
			if err := rec.RecordCompletion(cmd.CompletedCount, now); err != nil {
				return err
			}
			if err := repos.Progress.Update(ctx, rec); err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
		case errors.Is(err, shared.ErrNotFound):
			rec, err = progress.NewRecord(cmd.UserID, zikrID, cmd.CompletedCount, now)
			if err != nil {
				return err
			}
			if err := repos.Progress.Create(ctx, rec); err != nil {
				return fmt.Errorf("create progress: %w", err)
			}
			result.Created = true
		default:
			return fmt.Errorf("load progress: %w", err)
		}
		result.Record = rec

		daily, err := h.aggregator.Apply(ctx, repos, progress.AggregationContext{
			UserID: cmd.UserID,
			Date:   timeutil.DateKey(now),
		})
		if err != nil {
			return fmt.Errorf("recompute daily: %w", err)
		}
		result.Daily = daily
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record_completion: %w", err)
	}

	result.Success = true

	h.log.Debug("completion recorded",
		logger.UserID(cmd.UserID.String()),
		logger.ZikrID(zikrID.String()),
		logger.Int("completed_count", cmd.CompletedCount),
		logger.Int("streak", result.Record.Streak),
		logger.Bool("created", result.Created),
	)

	return result, nil
}
