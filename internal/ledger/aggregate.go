package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiempos_backend/internal/models"
)

const dateLayout = "2006-01-02"

// Summary holds the financial rollup of one period. TotalCommission is a
// purely informational figure; it is already embedded in TotalProfit.
type Summary struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalPrizes     decimal.Decimal `json:"total_prizes"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	TotalAdvances   decimal.Decimal `json:"total_advances"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	// FinalBalance = TotalProfit + TotalAdvances - TotalDeductions.
	// Advances ADD: they are money advanced to the business that offsets
	// against profit owed back, not withdrawals.
	FinalBalance decimal.Decimal `json:"final_balance"`

	// Days has exactly one closure per calendar day in the period's range.
	// Days without a recorded closure are zero-valued placeholders carrying
	// the business's default commission; they contribute nothing to totals.
	Days       []models.DailyClosure `json:"days"`
	Advances   []models.Advance      `json:"advances"`
	Deductions []models.Deduction    `json:"deductions"`
}

// DaysInRange enumerates the YYYY-MM-DD dates from start to end inclusive.
// An unparseable or inverted range yields an empty list.
func DaysInRange(start, end string) []string {
	startT, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil
	}
	endT, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil
	}
	var days []string
	for d := startT; !d.After(endT); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dateLayout))
	}
	return days
}

// ClosuresInRange selects the closures dated within [start, end] inclusive.
// Dates compare lexicographically, which is equivalent to chronological
// order for the YYYY-MM-DD format.
func ClosuresInRange(closures []models.DailyClosure, start, end string) []models.DailyClosure {
	var out []models.DailyClosure
	for _, c := range closures {
		if c.Date >= start && c.Date <= end {
			out = append(out, c)
		}
	}
	return out
}

// AdvancesInRange selects the advances dated within [start, end] inclusive.
func AdvancesInRange(advances []models.Advance, start, end string) []models.Advance {
	var out []models.Advance
	for _, a := range advances {
		if a.Date >= start && a.Date <= end {
			out = append(out, a)
		}
	}
	return out
}

// DeductionsInRange selects the deductions dated within [start, end] inclusive.
func DeductionsInRange(deductions []models.Deduction, start, end string) []models.Deduction {
	var out []models.Deduction
	for _, d := range deductions {
		if d.Date >= start && d.Date <= end {
			out = append(out, d)
		}
	}
	return out
}

// Summarize computes the full rollup for one period from the unfiltered
// (user, business) scope lists. Range filtering happens here, not in the
// store. Records belong to exactly one period only as long as period ranges
// do not overlap; overlapping ranges would double-count, which is why period
// creation guards against them.
func Summarize(period models.Period, closures []models.DailyClosure, advances []models.Advance, deductions []models.Deduction, defaultCommission decimal.Decimal) Summary {
	s := Summary{
		TotalSales:      decimal.Zero,
		TotalPrizes:     decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalProfit:     decimal.Zero,
		TotalAdvances:   decimal.Zero,
		TotalDeductions: decimal.Zero,
	}

	inRange := ClosuresInRange(closures, period.StartDate, period.EndDate)
	byDate := make(map[string]models.DailyClosure, len(inRange))
	for _, c := range inRange {
		c.CalculatedProfit = ClosureProfit(c)
		byDate[c.Date] = c

		s.TotalSales = s.TotalSales.Add(c.SaleTotal)
		s.TotalPrizes = s.TotalPrizes.Add(c.PrizesPaid)
		s.TotalCommission = s.TotalCommission.Add(Commission(c))
		s.TotalProfit = s.TotalProfit.Add(c.CalculatedProfit)
	}

	for _, date := range DaysInRange(period.StartDate, period.EndDate) {
		if c, ok := byDate[date]; ok {
			s.Days = append(s.Days, c)
			continue
		}
		s.Days = append(s.Days, placeholderClosure(period, date, defaultCommission))
	}

	s.Advances = AdvancesInRange(advances, period.StartDate, period.EndDate)
	for _, a := range s.Advances {
		s.TotalAdvances = s.TotalAdvances.Add(a.Amount)
	}

	s.Deductions = DeductionsInRange(deductions, period.StartDate, period.EndDate)
	for _, d := range s.Deductions {
		s.TotalDeductions = s.TotalDeductions.Add(d.Amount)
	}

	s.FinalBalance = s.TotalProfit.Add(s.TotalAdvances).Sub(s.TotalDeductions)
	return s
}

// placeholderClosure materializes a zero-valued day so the day list always has
// exactly one entry per calendar day in range. Only display needs it; all
// sums are unaffected.
func placeholderClosure(period models.Period, date string, defaultCommission decimal.Decimal) models.DailyClosure {
	return models.DailyClosure{
		ID:                   uuid.Nil,
		BusinessID:           period.BusinessID,
		Date:                 date,
		SaleTotal:            decimal.Zero,
		PrizesPaid:           decimal.Zero,
		CommissionPercentage: defaultCommission,
		CalculatedProfit:     decimal.Zero,
	}
}
