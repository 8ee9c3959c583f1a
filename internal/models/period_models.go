package models

import (
	"time"

	"github.com/google/uuid"
)

// Period statuses.
const (
	PeriodStatusActive = "active"
	PeriodStatusClosed = "closed"
)

// Period ("week") is a caller-defined, date-bounded accounting window for one
// business. The range is inclusive on both ends and not necessarily 7 days.
// Invariant: StartDate <= EndDate. Ranges of one business must not overlap.
type Period struct {
	ID         uuid.UUID `json:"id"`
	BusinessID uuid.UUID `json:"business_id" db:"business_id"`
	Name       string    `json:"name" db:"name"`
	StartDate  string    `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate    string    `json:"end_date" db:"end_date"`     // YYYY-MM-DD
	Status     string    `json:"status" db:"status"`         // "active" or "closed"
	IsPinned   bool      `json:"is_pinned" db:"is_pinned"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ContainsDate reports whether a YYYY-MM-DD date falls within the period,
// inclusive on both ends. Lexicographic comparison is correct for this format.
func (p Period) ContainsDate(date string) bool {
	return date >= p.StartDate && date <= p.EndDate
}

// Overlaps reports whether two inclusive date ranges intersect.
func (p Period) Overlaps(other Period) bool {
	return p.StartDate <= other.EndDate && other.StartDate <= p.EndDate
}
