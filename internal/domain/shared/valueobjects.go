package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID identifies the authenticated owner of progress, summaries and
// assistant questions. It is opaque: whatever the identity provider puts
// in the token subject.
type UserID string

// IsEmpty reports whether no user was resolved.
func (u UserID) IsEmpty() bool {
	return strings.TrimSpace(string(u)) == ""
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// ZikrID identifies a catalog item (UUID format).
type ZikrID string

// IsValid checks if the zikr ID is a valid UUID.
func (z ZikrID) IsValid() bool {
	_, err := uuid.Parse(string(z))
	return err == nil
}

// String returns the string representation.
func (z ZikrID) String() string {
	return string(z)
}

// NewZikrID validates and normalizes a zikr ID.
func NewZikrID(id string) (ZikrID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidZikrID
	}
	return ZikrID(parsed.String()), nil
}

// GenerateZikrID returns a fresh random zikr ID.
func GenerateZikrID() ZikrID {
	return ZikrID(uuid.NewString())
}

// QuestionID identifies a stored assistant exchange (UUID format).
type QuestionID string

// String returns the string representation.
func (q QuestionID) String() string {
	return string(q)
}

// NewQuestionID validates and normalizes a question ID.
func NewQuestionID(id string) (QuestionID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", NewDomainError("assistant", "Validate", ErrInvalidID, "invalid question ID")
	}
	return QuestionID(parsed.String()), nil
}

// GenerateQuestionID returns a fresh random question ID.
func GenerateQuestionID() QuestionID {
	return QuestionID(uuid.NewString())
}

// ═══════════════════════════════════════════════════════════════════════════
// DateRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

const dateLayout = "2006-01-02"

// DateRange is an inclusive range of "YYYY-MM-DD" day keys. Either bound
// may be empty, meaning unbounded on that side.
type DateRange struct {
	From string
	To   string
}

// IsZero reports whether the range has no bounds at all.
func (r DateRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// Contains reports whether the day key falls inside the range. Day keys
// compare correctly as strings.
func (r DateRange) Contains(date string) bool {
	if r.From != "" && date < r.From {
		return false
	}
	if r.To != "" && date > r.To {
		return false
	}
	return true
}

// NewDateRange validates both bounds and their order.
func NewDateRange(from, to string) (DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return DateRange{}, ErrInvalidDate
		}
	}
	if from != "" && to != "" && from > to {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{From: from, To: to}, nil
}
