package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business is the top-level tenant scope. Every period, closure, advance and
// deduction belongs to exactly one business.
type Business struct {
	ID      uuid.UUID `json:"id"`
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`
	Name    string    `json:"name" db:"name"`
	// Active supports soft deactivation without losing history.
	Active bool `json:"active" db:"active"`
	// DefaultCommission is the fraction (0.07 = 7%) used to prefill new
	// daily closures and placeholder days within a period.
	DefaultCommission decimal.Decimal `json:"default_commission" db:"default_commission"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
