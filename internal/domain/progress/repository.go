package progress

import (
	"context"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

// MaxDailyHistory caps how many summaries a stats query returns.
const MaxDailyHistory = 30

// Repository defines persistence for progress records.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// LockUser serializes writers for one user until the surrounding
	// transaction ends. The tracker takes it before reading anything, so the
	// daily summary is always computed from every committed record.
	LockUser(ctx context.Context, userID shared.UserID) error

	// GetForUpdate returns the record for (user, zikr) and locks it until
	// the surrounding transaction ends.
	// Returns ErrProgressNotFound if there is none.
	GetForUpdate(ctx context.Context, userID shared.UserID, zikrID shared.ZikrID) (*Record, error)

	// Get returns the record for (user, zikr) without locking.
	// Returns ErrProgressNotFound if there is none.
	Get(ctx context.Context, userID shared.UserID, zikrID shared.ZikrID) (*Record, error)

	// ListByUser returns all of a user's records.
	ListByUser(ctx context.Context, userID shared.UserID) ([]*Record, error)

	// Create inserts a new record.
	// Returns ErrProgressExists on a (user, zikr) collision and
	// ErrZikrNotFound if the zikr does not exist.
	Create(ctx context.Context, r *Record) error

	// Update persists the mutable fields of an existing record.
	Update(ctx context.Context, r *Record) error
}

// DailyRepository defines persistence for daily summaries.
type DailyRepository interface {
	// Get returns the summary for (user, date).
	// Returns ErrDailySummaryNotFound if there is none.
	Get(ctx context.Context, userID shared.UserID, date string) (*DailySummary, error)

	// Create inserts a new summary. If one already exists for (user, date)
	// its derived fields are overwritten and Streak/TimeSpent are kept.
	Create(ctx context.Context, s *DailySummary) error

	// UpdateTotals persists the derived fields of an existing summary.
	UpdateTotals(ctx context.Context, s *DailySummary) error

	// ListByUser returns the user's summaries newest first, filtered by the
	// inclusive range, at most limit entries.
	ListByUser(ctx context.Context, userID shared.UserID, r shared.DateRange, limit int) ([]*DailySummary, error)
}

// Repos are the repositories available inside one transaction.
type Repos struct {
	Progress Repository
	Daily    DailyRepository
	Azkar    azkar.Repository
}

// UnitOfWork runs fn inside a single store transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}
