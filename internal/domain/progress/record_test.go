package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azkar-hub/azkar-hub/internal/domain/azkar"
	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("user-1", "z1", 3, t0)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Streak)
	assert.Equal(t, 3, r.CompletedCount)
	assert.Equal(t, 3, r.TotalCompletions)
	assert.Equal(t, t0, r.LastCompletedAt)

	_, err = NewRecord("", "z1", 3, t0)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)

	_, err = NewRecord("user-1", "z1", -1, t0)
	assert.ErrorIs(t, err, shared.ErrNegativeValue)
}

func TestRecordCompletion_Streak(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int
	}{
		{"same day repeat extends", 2 * time.Hour, 3},
		{"next day extends", 30 * time.Hour, 3},
		{"just under two days extends", 47*time.Hour + 59*time.Minute, 3},
		{"two full days resets", 48 * time.Hour, 1},
		{"a week resets", 7 * 24 * time.Hour, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Record{UserID: "u", ZikrID: "z", Streak: 2, CompletedCount: 1, TotalCompletions: 10, LastCompletedAt: t0}

			require.NoError(t, r.RecordCompletion(5, t0.Add(tt.elapsed)))

			assert.Equal(t, tt.want, r.Streak)
			assert.Equal(t, 5, r.CompletedCount)
			assert.Equal(t, 15, r.TotalCompletions)
			assert.Equal(t, t0.Add(tt.elapsed), r.LastCompletedAt)
		})
	}
}

func TestRecordCompletion_RejectsNegative(t *testing.T) {
	r := &Record{Streak: 4, CompletedCount: 2, TotalCompletions: 9, LastCompletedAt: t0}

	err := r.RecordCompletion(-3, t0.Add(time.Hour))

	assert.ErrorIs(t, err, shared.ErrNegativeValue)
	assert.Equal(t, 4, r.Streak)
	assert.Equal(t, 9, r.TotalCompletions)
}

func TestRecordCompletion_ZeroCountKeepsTotal(t *testing.T) {
	r := &Record{Streak: 1, CompletedCount: 7, TotalCompletions: 7, LastCompletedAt: t0}

	require.NoError(t, r.RecordCompletion(0, t0.Add(time.Hour)))

	assert.Equal(t, 0, r.CompletedCount)
	assert.Equal(t, 7, r.TotalCompletions)
}

func zikr(id string, cat azkar.Category, reps int) *azkar.Zikr {
	return &azkar.Zikr{ID: shared.ZikrID(id), Text: id, Category: cat, Repetitions: reps}
}

func TestComputeTotals(t *testing.T) {
	morning := []*azkar.Zikr{zikr("m1", azkar.CategoryMorning, 3), zikr("m2", azkar.CategoryMorning, 1)}
	evening := []*azkar.Zikr{zikr("e1", azkar.CategoryEvening, 10)}
	records := []*Record{
		{ZikrID: "m1", CompletedCount: 3},
		{ZikrID: "m2", CompletedCount: 4},
		{ZikrID: "e1", CompletedCount: 9},
		{ZikrID: "s1", CompletedCount: 2},
	}

	got := ComputeTotals(records, morning, evening)

	assert.True(t, got.MorningCompleted)
	assert.False(t, got.EveningCompleted)
	assert.Equal(t, 18, got.TotalAzkarCompleted)
}

func TestComputeTotals_EmptyCategoriesAreComplete(t *testing.T) {
	got := ComputeTotals(nil, nil, nil)

	assert.True(t, got.MorningCompleted)
	assert.True(t, got.EveningCompleted)
	assert.Zero(t, got.TotalAzkarCompleted)
}

func TestComputeTotals_MissingRecordIsIncomplete(t *testing.T) {
	morning := []*azkar.Zikr{zikr("m1", azkar.CategoryMorning, 1), zikr("m2", azkar.CategoryMorning, 1)}
	records := []*Record{{ZikrID: "m1", CompletedCount: 1}}

	assert.False(t, ComputeTotals(records, morning, nil).MorningCompleted)
}

func TestDailySummary_ApplyPreservesTimeSpentAndStreak(t *testing.T) {
	s := NewDailySummary("u", "2026-03-01", Totals{TotalAzkarCompleted: 2}, t0)
	assert.Equal(t, 1, s.Streak)
	assert.Zero(t, s.TimeSpent)

	s.TimeSpent = 12
	s.Streak = 5
	s.Apply(Totals{MorningCompleted: true, TotalAzkarCompleted: 9}, t0.Add(time.Hour))

	assert.True(t, s.MorningCompleted)
	assert.Equal(t, 9, s.TotalAzkarCompleted)
	assert.Equal(t, 12, s.TimeSpent)
	assert.Equal(t, 5, s.Streak)
}
