// Package progress contains the per-user completion tracking model:
// one Record per (user, zikr) and one DailySummary per (user, date).
package progress

import (
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
	"github.com/azkar-hub/azkar-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record tracks a user's repetitions of one catalog item.
type Record struct {
	ID     string
	UserID shared.UserID
	ZikrID shared.ZikrID

	// CompletedCount is the count reported for the current cycle. Each new
	// completion overwrites it.
	CompletedCount int

	LastCompletedAt time.Time

	// Streak starts at 1 and is updated on every completion.
	Streak int

	// TotalCompletions only grows.
	TotalCompletions int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewRecord creates the first record for (user, zikr).
func NewRecord(userID shared.UserID, zikrID shared.ZikrID, completedCount int, now time.Time) (*Record, error) {
	if userID.IsEmpty() {
		return nil, shared.ErrUnauthenticated
	}
	if completedCount < 0 {
		return nil, shared.ErrNegativeCompletion
	}
	return &Record{
		UserID:           userID,
		ZikrID:           zikrID,
		CompletedCount:   completedCount,
		LastCompletedAt:  now,
		Streak:           1,
		TotalCompletions: completedCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// RecordCompletion applies a new completion to an existing record.
//
// The streak rule counts whole elapsed 24h periods since the last
// completion: 0 or 1 extends the streak, anything longer resets it to 1.
// A second completion on the same day therefore extends it as well.
func (r *Record) RecordCompletion(completedCount int, now time.Time) error {
	if completedCount < 0 {
		return shared.ErrNegativeCompletion
	}

	if NextStreakContinues(r.LastCompletedAt, now) {
		r.Streak++
	} else {
		r.Streak = 1
	}

	r.CompletedCount = completedCount
	r.LastCompletedAt = now
	r.TotalCompletions += completedCount
	r.UpdatedAt = now
	return nil
}

// NextStreakContinues reports whether a completion at now extends a streak
// whose last completion was at last.
func NextStreakContinues(last, now time.Time) bool {
	return timeutil.DaysSince(last, now) <= 1
}
