package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

// reportFixture wires a reportService over stub repos with a fixed clock.
type reportFixture struct {
	ownerID    uuid.UUID
	business   *models.Business
	periods    []models.Period
	closures   []models.DailyClosure
	advances   []models.Advance
	deductions []models.Deduction

	createdAdvance *models.Advance
	advanceInserts int
}

func (f *reportFixture) service(now time.Time) *reportService {
	periodRepo := &stubPeriodRepo{
		getPeriodByID: func(id uuid.UUID) (*models.Period, error) {
			for _, p := range f.periods {
				if p.ID == id {
					period := p
					return &period, nil
				}
			}
			return nil, repositories.ErrNotFound
		},
		getPeriodsByBusiness: func(uuid.UUID) ([]models.Period, error) {
			return f.periods, nil
		},
	}
	closureRepo := &stubClosureRepo{
		getClosures: func(uuid.UUID, uuid.UUID) ([]models.DailyClosure, error) {
			return f.closures, nil
		},
	}
	advanceRepo := &stubAdvanceRepo{
		getAdvances: func(uuid.UUID, uuid.UUID) ([]models.Advance, error) {
			return f.advances, nil
		},
		findByIdempotencyKey: func(_, _ uuid.UUID, key string) (*models.Advance, error) {
			if f.createdAdvance != nil && f.createdAdvance.IdempotencyKey != nil && *f.createdAdvance.IdempotencyKey == key {
				a := *f.createdAdvance
				return &a, nil
			}
			return nil, repositories.ErrNotFound
		},
		createAdvance: func(_ repositories.SQLExecutor, advance *models.Advance) (uuid.UUID, error) {
			a := *advance
			a.ID = uuid.New()
			f.createdAdvance = &a
			f.advanceInserts++
			return a.ID, nil
		},
		getAdvanceByID: func(id uuid.UUID) (*models.Advance, error) {
			if f.createdAdvance != nil && f.createdAdvance.ID == id {
				a := *f.createdAdvance
				return &a, nil
			}
			return nil, repositories.ErrNotFound
		},
	}
	deductionRepo := &stubDeductionRepo{
		getDeductions: func(uuid.UUID, uuid.UUID) ([]models.Deduction, error) {
			return f.deductions, nil
		},
	}

	svc := NewReportService(periodRepo, ownedBusinessRepo(f.business), closureRepo, advanceRepo, deductionRepo, nil).(*reportService)
	svc.now = func() time.Time { return now }
	return svc
}

// newReportFixture builds two adjacent weeks. The earlier week holds one
// closure (50000 sales, 12000 prizes, 7% commission, 2000 expenses -> 32500
// profit), a 5000 advance and a 1000 deduction: final balance 36500.
func newReportFixture() *reportFixture {
	ownerID := uuid.New()
	business := testBusiness(ownerID)

	prevWeek := models.Period{
		ID:         uuid.New(),
		BusinessID: business.ID,
		Name:       "Semana 9",
		StartDate:  "2026-02-23",
		EndDate:    "2026-03-01",
		Status:     models.PeriodStatusClosed,
	}
	currentWeek := models.Period{
		ID:         uuid.New(),
		BusinessID: business.ID,
		Name:       "Semana 10",
		StartDate:  "2026-03-02",
		EndDate:    "2026-03-08",
		Status:     models.PeriodStatusActive,
	}

	return &reportFixture{
		ownerID:  ownerID,
		business: business,
		periods:  []models.Period{currentWeek, prevWeek},
		closures: []models.DailyClosure{{
			ID:                   uuid.New(),
			BusinessID:           business.ID,
			UserID:               ownerID,
			Date:                 "2026-02-25",
			SaleTotal:            decimal.RequireFromString("50000"),
			PrizesPaid:           decimal.RequireFromString("12000"),
			CommissionPercentage: decimal.RequireFromString("0.07"),
			Expenses: []models.Expense{{
				ID:          uuid.New(),
				Description: "Papelería",
				Amount:      decimal.RequireFromString("2000"),
			}},
		}},
		advances: []models.Advance{{
			ID:         uuid.New(),
			BusinessID: business.ID,
			UserID:     ownerID,
			Amount:     decimal.RequireFromString("5000"),
			Reason:     "Adelanto Manual",
			Date:       "2026-02-26",
		}},
		deductions: []models.Deduction{{
			ID:         uuid.New(),
			BusinessID: business.ID,
			UserID:     ownerID,
			Amount:     decimal.RequireFromString("1000"),
			Reason:     "Deducción",
			Date:       "2026-02-27",
		}},
	}
}

func (f *reportFixture) prevWeek() models.Period    { return f.periods[1] }
func (f *reportFixture) currentWeek() models.Period { return f.periods[0] }

func TestGetPeriodSummary(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC))

	resp, err := svc.GetPeriodSummary(f.ownerID, f.prevWeek().ID)
	require.NoError(t, err)

	assert.Equal(t, "Semana 9", resp.Period.Name)
	assert.True(t, resp.Summary.TotalProfit.Equal(decimal.RequireFromString("32500")),
		"got %s", resp.Summary.TotalProfit)
	assert.True(t, resp.Summary.FinalBalance.Equal(decimal.RequireFromString("36500")),
		"got %s", resp.Summary.FinalBalance)
	assert.Len(t, resp.Summary.Days, 7)
	assert.Len(t, resp.Summary.Advances, 1)
	assert.Len(t, resp.Summary.Deductions, 1)
}

func TestGetPeriodSummaryHiddenFromOtherOwners(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Now())

	_, err := svc.GetPeriodSummary(uuid.New(), f.prevWeek().ID)
	assert.ErrorIs(t, err, ErrPeriodNotFound)
}

func TestGetCarryOverOffersPreviousBalance(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))

	resp, err := svc.GetCarryOver(f.ownerID, f.currentWeek().ID)
	require.NoError(t, err)
	require.True(t, resp.Available)
	require.NotNil(t, resp.CarryOver)

	assert.True(t, resp.CarryOver.Amount.Equal(decimal.RequireFromString("36500")))
	assert.Equal(t, "Saldo Anterior (Semana 9)", resp.CarryOver.Reason)
	assert.Equal(t, "2026-03-04", resp.CarryOver.Date)
	assert.Equal(t, f.prevWeek().ID, resp.CarryOver.PreviousPeriodID)
}

func TestGetCarryOverUnavailableWithoutPreviousPeriod(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC))

	resp, err := svc.GetCarryOver(f.ownerID, f.prevWeek().ID)
	require.NoError(t, err)
	assert.False(t, resp.Available)
	assert.Nil(t, resp.CarryOver)
}

func TestImportCarryOverCreatesAdvance(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))

	advance, err := svc.ImportCarryOver(f.ownerID, f.currentWeek().ID)
	require.NoError(t, err)

	assert.True(t, advance.Amount.Equal(decimal.RequireFromString("36500")))
	assert.Equal(t, "Saldo Anterior (Semana 9)", advance.Reason)
	assert.Equal(t, "2026-03-04", advance.Date)
	assert.Equal(t, f.business.ID, advance.BusinessID)
	require.NotNil(t, f.createdAdvance)
	require.NotNil(t, advance.IdempotencyKey)
	assert.Equal(t, "carry-over:"+f.currentWeek().ID.String(), *advance.IdempotencyKey)
}

func TestImportCarryOverDoubleSubmitRecordsOnce(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))

	first, err := svc.ImportCarryOver(f.ownerID, f.currentWeek().ID)
	require.NoError(t, err)

	// Confirming again must return the same advance, not a second 36500 row.
	second, err := svc.ImportCarryOver(f.ownerID, f.currentWeek().ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.advanceInserts)
}

func TestImportCarryOverFailsWithoutBalance(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC))

	_, err := svc.ImportCarryOver(f.ownerID, f.prevWeek().ID)
	assert.ErrorIs(t, err, ErrNoCarryOver)
}

func TestGetRangeReport(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))

	report, err := svc.GetRangeReport(f.ownerID, f.business.ID, "month")
	require.NoError(t, err)

	assert.Equal(t, "month", report.Range)
	assert.True(t, report.TotalSales.Equal(decimal.RequireFromString("50000")))
	assert.True(t, report.TotalProfit.Equal(decimal.RequireFromString("32500")))
	require.Len(t, report.Series, 1)
	assert.Equal(t, "2026-02-25", report.Series[0].Date)

	// The closure is 8 days old by 2026-03-05; the trailing week misses it.
	svc = f.service(time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC))
	report, err = svc.GetRangeReport(f.ownerID, f.business.ID, "week")
	require.NoError(t, err)
	assert.True(t, report.TotalSales.IsZero())
	assert.Empty(t, report.Series)
}

func TestGetRangeReportRejectsUnknownRange(t *testing.T) {
	f := newReportFixture()
	svc := f.service(time.Now())

	_, err := svc.GetRangeReport(f.ownerID, f.business.ID, "quarter")
	assert.ErrorIs(t, err, ErrInvalidReportRange)
}
