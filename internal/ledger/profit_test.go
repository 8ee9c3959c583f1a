package ledger

import (
	"testing"

	"github.com/shopspring/decimal"

	"tiempos_backend/internal/models"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func expenses(amounts ...string) []models.Expense {
	var out []models.Expense
	for _, a := range amounts {
		out = append(out, models.Expense{Description: "gasto", Amount: d(a)})
	}
	return out
}

func TestProfit(t *testing.T) {
	cases := []struct {
		name       string
		saleTotal  string
		prizesPaid string
		commission string
		expenses   []models.Expense
		want       string
	}{
		{"worked example", "50000", "12000", "0.07", expenses("2000"), "32500"},
		{"no expenses", "50000", "12000", "0.07", nil, "34500"},
		{"zero everything", "0", "0", "0", nil, "0"},
		{"negative sale propagates", "-1000", "0", "0.1", nil, "-900"},
		{"negative prizes propagate", "1000", "-500", "0", nil, "1500"},
		{"fractional commission", "333", "0", "0.15", nil, "283.05"},
		{"commission above one allowed", "100", "0", "1.5", nil, "-50"},
		{"expenses can push negative", "100", "0", "0", expenses("60", "70"), "-30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Profit(d(tc.saleTotal), d(tc.prizesPaid), d(tc.commission), tc.expenses)
			if !got.Equal(d(tc.want)) {
				t.Fatalf("Profit(%s, %s, %s) = %s, want %s", tc.saleTotal, tc.prizesPaid, tc.commission, got, tc.want)
			}
		})
	}
}

func TestClosureProfitIgnoresStoredValue(t *testing.T) {
	c := models.DailyClosure{
		SaleTotal:            d("50000"),
		PrizesPaid:           d("12000"),
		CommissionPercentage: d("0.07"),
		Expenses:             expenses("2000"),
		CalculatedProfit:     d("999999"), // stale stored value must be ignored
	}
	if got := ClosureProfit(c); !got.Equal(d("32500")) {
		t.Fatalf("ClosureProfit = %s, want 32500", got)
	}
}

func TestCommission(t *testing.T) {
	c := models.DailyClosure{SaleTotal: d("50000"), CommissionPercentage: d("0.07")}
	if got := Commission(c); !got.Equal(d("3500")) {
		t.Fatalf("Commission = %s, want 3500", got)
	}
}
