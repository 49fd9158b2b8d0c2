package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/azkar-hub/azkar-hub/internal/domain/progress"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS & STATS QUERIES
// Read paths never reject an anonymous caller: they answer with nothing.
// ══════════════════════════════════════════════════════════════════════════════

// GetUserProgressQuery selects one record or all of a user's records.
type GetUserProgressQuery struct {
	UserID shared.UserID
	// ZikrID is optional; when set, at most one record comes back.
	ZikrID string
}

// GetUserProgressHandler reads progress records.
type GetUserProgressHandler struct {
	repo progress.Repository
}

// NewGetUserProgressHandler creates a new GetUserProgressHandler.
func NewGetUserProgressHandler(repo progress.Repository) *GetUserProgressHandler {
	return &GetUserProgressHandler{repo: repo}
}

// Handle returns an empty slice for anonymous callers and for a zikr the
// user has never completed.
func (h *GetUserProgressHandler) Handle(ctx context.Context, q GetUserProgressQuery) ([]*progress.Record, error) {
	if q.UserID.IsEmpty() {
		return []*progress.Record{}, nil
	}

	if strings.TrimSpace(q.ZikrID) != "" {
		zid, err := shared.NewZikrID(q.ZikrID)
		if err != nil {
			return nil, fmt.Errorf("get_user_progress: %w", err)
		}
		r, err := h.repo.Get(ctx, q.UserID, zid)
		if errors.Is(err, shared.ErrNotFound) {
			return []*progress.Record{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("get_user_progress: %w", err)
		}
		return []*progress.Record{r}, nil
	}

	records, err := h.repo.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_user_progress: %w", err)
	}
	if records == nil {
		records = []*progress.Record{}
	}
	return records, nil
}

// GetDailyStatsQuery selects a user's recent summaries.
type GetDailyStatsQuery struct {
	UserID shared.UserID
	// From and To are optional inclusive "YYYY-MM-DD" bounds.
	From string
	To   string
}

// GetDailyStatsHandler reads daily summaries.
type GetDailyStatsHandler struct {
	repo progress.DailyRepository
}

// NewGetDailyStatsHandler creates a new GetDailyStatsHandler.
func NewGetDailyStatsHandler(repo progress.DailyRepository) *GetDailyStatsHandler {
	return &GetDailyStatsHandler{repo: repo}
}

// Handle returns at most progress.MaxDailyHistory summaries, newest first.
func (h *GetDailyStatsHandler) Handle(ctx context.Context, q GetDailyStatsQuery) ([]*progress.DailySummary, error) {
	if q.UserID.IsEmpty() {
		return []*progress.DailySummary{}, nil
	}

	r, err := shared.NewDateRange(q.From, q.To)
	if err != nil {
		return nil, fmt.Errorf("get_daily_stats: %w", err)
	}

	out, err := h.repo.ListByUser(ctx, q.UserID, r, progress.MaxDailyHistory)
	if err != nil {
		return nil, fmt.Errorf("get_daily_stats: %w", err)
	}
	if out == nil {
		out = []*progress.DailySummary{}
	}
	return out, nil
}
