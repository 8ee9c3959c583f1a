package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyClosure records one day's sales for a user and business. One logical
// closure exists per (business, user, date); saves upsert on that key.
type DailyClosure struct {
	ID         uuid.UUID       `json:"id"`
	BusinessID uuid.UUID       `json:"business_id" db:"business_id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Date       string          `json:"date" db:"date"` // YYYY-MM-DD
	SaleTotal  decimal.Decimal `json:"sale_total" db:"sale_total"`
	PrizesPaid decimal.Decimal `json:"prizes_paid" db:"prizes_paid"`
	// CommissionPercentage is a fraction, e.g. 0.07 for 7%.
	CommissionPercentage decimal.Decimal `json:"commission_percentage" db:"commission_percentage"`
	Expenses             []Expense       `json:"expenses"`
	// CalculatedProfit is derived and never persisted; it is recomputed on
	// every read from the raw figures above.
	CalculatedProfit decimal.Decimal `json:"calculated_profit"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// Expense belongs to exactly one daily closure and reduces that day's profit.
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	ClosureID   uuid.UUID       `json:"-" db:"closure_id"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Advance is a dated cash amount that, per the current business rule, ADDS to
// the period's final balance. Carry-over imports materialize as advances.
type Advance struct {
	ID         uuid.UUID       `json:"id"`
	BusinessID uuid.UUID       `json:"business_id" db:"business_id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Reason     string          `json:"reason" db:"reason"`
	Date       string          `json:"date" db:"date"` // YYYY-MM-DD
	// IdempotencyKey deduplicates rapid double-submits of the same create.
	IdempotencyKey *string   `json:"idempotency_key,omitempty" db:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Deduction is a dated cash amount that subtracts from the period's final balance.
type Deduction struct {
	ID             uuid.UUID       `json:"id"`
	BusinessID     uuid.UUID       `json:"business_id" db:"business_id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Reason         string          `json:"reason" db:"reason"`
	Date           string          `json:"date" db:"date"` // YYYY-MM-DD
	IdempotencyKey *string         `json:"idempotency_key,omitempty" db:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
