package azkar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azkar-hub/azkar-hub/internal/domain/shared"
)

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Morning ")
	require.NoError(t, err)
	assert.Equal(t, CategoryMorning, c)

	_, err = ParseCategory("night")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewZikr(t *testing.T) {
	z, err := NewZikr(NewZikrParams{
		Text:        " سُبْحَانَ اللَّهِ ",
		Category:    CategoryMorning,
		Repetitions: 33,
		Benefits:    []string{" a ", "", "b"},
	})
	require.NoError(t, err)

	assert.True(t, z.ID.IsValid())
	assert.Equal(t, "سُبْحَانَ اللَّهِ", z.Text)
	assert.Equal(t, []string{"a", "b"}, z.Benefits)
	assert.False(t, z.IsSatisfiedBy(32))
	assert.True(t, z.IsSatisfiedBy(33))
}

func TestNewZikr_Validation(t *testing.T) {
	tests := []struct {
		name string
		p    NewZikrParams
		want error
	}{
		{"empty text", NewZikrParams{Category: CategoryEvening, Repetitions: 1}, shared.ErrEmptyZikrText},
		{"bad category", NewZikrParams{Text: "x", Category: "night", Repetitions: 1}, shared.ErrInvalidCategory},
		{"zero repetitions", NewZikrParams{Text: "x", Category: CategoryEvening}, shared.ErrInvalidRepeats},
		{"bad id", NewZikrParams{ID: "nope", Text: "x", Category: CategoryEvening, Repetitions: 1}, shared.ErrInvalidZikrID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewZikr(tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
