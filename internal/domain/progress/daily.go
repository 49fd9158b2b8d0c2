package progress

import (
	"time"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DAILY SUMMARY
// ══════════════════════════════════════════════════════════════════════════════

// DailySummary is the per-day rollup for a user.
type DailySummary struct {
	ID     string
	UserID shared.UserID

	// Date is a UTC day key, "YYYY-MM-DD".
	Date string

	MorningCompleted bool
	EveningCompleted bool

	// TotalAzkarCompleted sums CompletedCount over all of the user's records,
	// not only the ones touched on Date.
	TotalAzkarCompleted int

	// TimeSpent is minutes; nothing in the service writes it after creation.
	TimeSpent int

	// Streak is set to 1 on creation and never recomputed.
	Streak int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totals are the three derived fields the aggregator recomputes.
type Totals struct {
	MorningCompleted    bool
	EveningCompleted    bool
	TotalAzkarCompleted int
}

// NewDailySummary creates a summary for a day that has none yet.
func NewDailySummary(userID shared.UserID, date string, t Totals, now time.Time) *DailySummary {
	return &DailySummary{
		UserID:              userID,
		Date:                date,
		MorningCompleted:    t.MorningCompleted,
		EveningCompleted:    t.EveningCompleted,
		TotalAzkarCompleted: t.TotalAzkarCompleted,
		TimeSpent:           0,
		Streak:              1,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Apply overwrites only the derived fields. TimeSpent and Streak survive.
func (s *DailySummary) Apply(t Totals, now time.Time) {
	s.MorningCompleted = t.MorningCompleted
	s.EveningCompleted = t.EveningCompleted
	s.TotalAzkarCompleted = t.TotalAzkarCompleted
	s.UpdatedAt = now
}

// ComputeTotals derives the daily fields from a user's records and the
// morning and evening catalog items.
func ComputeTotals(records []*Record, morning, evening []*azkar.Zikr) Totals {
	byZikr := make(map[shared.ZikrID]*Record, len(records))
	total := 0
	for _, r := range records {
		byZikr[r.ZikrID] = r
		total += r.CompletedCount
	}

	return Totals{
		MorningCompleted:    CategoryComplete(morning, byZikr),
		EveningCompleted:    CategoryComplete(evening, byZikr),
		TotalAzkarCompleted: total,
	}
}

// CategoryComplete reports whether every item has a record with at least
// the required repetitions. An empty category is complete.
func CategoryComplete(items []*azkar.Zikr, byZikr map[shared.ZikrID]*Record) bool {
	for _, z := range items {
		r, ok := byZikr[z.ID]
		if !ok || !z.IsSatisfiedBy(r.CompletedCount) {
			return false
		}
	}
	return true
}

// AggregationContext names the user and day to recompute.
type AggregationContext struct {
	UserID shared.UserID
	Date   string
}
