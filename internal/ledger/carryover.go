package ledger

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiempos_backend/internal/models"
)

// CarryOver is the suggested advance that imports the previous period's net
// balance into the current one. It is an offer only; nothing is written until
// the user explicitly confirms, at which point it becomes a normal Advance
// row, editable and counted like any other.
type CarryOver struct {
	Amount             decimal.Decimal `json:"amount"`
	Reason             string          `json:"reason"`
	Date               string          `json:"date"`
	PreviousPeriodID   uuid.UUID       `json:"previous_period_id"`
	PreviousPeriodName string          `json:"previous_period_name"`
	PreviousBalance    decimal.Decimal `json:"previous_balance"`
}

// ResolveCarryOver locates the period chronologically preceding the current
// one and computes its final balance over its own date range. It returns nil
// when no previous period exists or when its balance is exactly zero.
//
// A negative previous balance carries over as a negative advance; it flows
// through the same sign convention with no special-casing.
//
// The suggested date is today when today falls inside the current period,
// otherwise the period's start date.
func ResolveCarryOver(periods []models.Period, current models.Period, closures []models.DailyClosure, advances []models.Advance, deductions []models.Deduction, defaultCommission decimal.Decimal, today string) *CarryOver {
	sorted := make([]models.Period, len(periods))
	copy(sorted, periods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartDate > sorted[j].StartDate
	})

	currentIndex := -1
	for i, p := range sorted {
		if p.ID == current.ID {
			currentIndex = i
			break
		}
	}
	if currentIndex < 0 || currentIndex+1 >= len(sorted) {
		return nil
	}
	prev := sorted[currentIndex+1]

	prevSummary := Summarize(prev, closures, advances, deductions, defaultCommission)
	if prevSummary.FinalBalance.IsZero() {
		return nil
	}

	date := today
	if !current.ContainsDate(today) {
		date = current.StartDate
	}

	return &CarryOver{
		Amount:             prevSummary.FinalBalance,
		Reason:             fmt.Sprintf("Saldo Anterior (%s)", prev.Name),
		Date:               date,
		PreviousPeriodID:   prev.ID,
		PreviousPeriodName: prev.Name,
		PreviousBalance:    prevSummary.FinalBalance,
	}
}
