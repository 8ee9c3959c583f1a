// Package ledger implements the period ledger: the pure computations that
// turn daily closures, advances and deductions into per-day profits, period
// totals and the cross-period carry-over. Functions here never touch storage
// and never fail; they operate on already-fetched records.
package ledger

import (
	"github.com/shopspring/decimal"

	"tiempos_backend/internal/models"
)

// Profit computes one day's operating profit:
//
//	profit = saleTotal - prizesPaid - saleTotal*commissionPercentage - sum(expenses)
//
// Inputs are not validated for sign; negative sales or prizes propagate
// arithmetically, and the commission fraction is unconstrained.
func Profit(saleTotal, prizesPaid, commissionPercentage decimal.Decimal, expenses []models.Expense) decimal.Decimal {
	commission := saleTotal.Mul(commissionPercentage)
	expensesTotal := decimal.Zero
	for _, exp := range expenses {
		expensesTotal = expensesTotal.Add(exp.Amount)
	}
	return saleTotal.Sub(prizesPaid).Sub(commission).Sub(expensesTotal)
}

// ClosureProfit recomputes the derived profit of a closure from its raw
// figures. The stored CalculatedProfit field is never trusted.
func ClosureProfit(c models.DailyClosure) decimal.Decimal {
	return Profit(c.SaleTotal, c.PrizesPaid, c.CommissionPercentage, c.Expenses)
}

// Commission returns the informational commission figure for a closure.
// It is already netted into the profit and must not be subtracted again.
func Commission(c models.DailyClosure) decimal.Decimal {
	return c.SaleTotal.Mul(c.CommissionPercentage)
}
