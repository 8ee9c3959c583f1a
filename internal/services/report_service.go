package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiempos_backend/internal/ledger"
	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

// --- Custom Service Errors for Reports ---
var (
	ErrNoCarryOver        = errors.New("no carry-over available for this period")
	ErrInvalidReportRange = errors.New("report range must be week, month or year")
)

// PeriodSummaryResponse bundles the period with its ledger rollup.
type PeriodSummaryResponse struct {
	Period  models.Period  `json:"period"`
	Summary ledger.Summary `json:"summary"`
}

// CarryOverResponse is the offer shown before the user confirms an import.
type CarryOverResponse struct {
	Available bool              `json:"available"`
	CarryOver *ledger.CarryOver `json:"carry_over,omitempty"`
}

// ReportPoint is one day in the trailing-window report series.
type ReportPoint struct {
	Date   string          `json:"date"`
	Sales  decimal.Decimal `json:"sales"`
	Prizes decimal.Decimal `json:"prizes"`
	Profit decimal.Decimal `json:"profit"`
}

// RangeReport aggregates closures over a trailing window for the charts view.
type RangeReport struct {
	Range           string          `json:"range"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalPrizes     decimal.Decimal `json:"total_prizes"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	Series          []ReportPoint   `json:"series"`
}

// --- ReportService Interface ---
type ReportService interface {
	// GetPeriodSummary computes the full rollup for one period: materialized
	// days, totals and final balance.
	GetPeriodSummary(userID, periodID uuid.UUID) (*PeriodSummaryResponse, error)
	// GetCarryOver returns the previous period's balance as a suggested
	// advance, or Available=false when there is nothing to carry.
	GetCarryOver(userID, periodID uuid.UUID) (*CarryOverResponse, error)
	// ImportCarryOver materializes the suggestion as a real Advance row.
	// It recomputes the previous balance server-side; the client never
	// supplies the amount.
	ImportCarryOver(userID, periodID uuid.UUID) (*models.Advance, error)
	// GetRangeReport aggregates closures over a trailing week/month/year
	// window ending today.
	GetRangeReport(userID, businessID uuid.UUID, rangeName string) (*RangeReport, error)
}

type reportService struct {
	periodRepo    repositories.PeriodRepository
	businessRepo  repositories.BusinessRepository
	closureRepo   repositories.ClosureRepository
	advanceRepo   repositories.AdvanceRepository
	deductionRepo repositories.DeductionRepository
	db            *sql.DB
	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(
	periodRepo repositories.PeriodRepository,
	businessRepo repositories.BusinessRepository,
	closureRepo repositories.ClosureRepository,
	advanceRepo repositories.AdvanceRepository,
	deductionRepo repositories.DeductionRepository,
	db *sql.DB,
) ReportService {
	return &reportService{
		periodRepo:    periodRepo,
		businessRepo:  businessRepo,
		closureRepo:   closureRepo,
		advanceRepo:   advanceRepo,
		deductionRepo: deductionRepo,
		db:            db,
		now:           time.Now,
	}
}

// periodScope loads the period, its business (ownership-checked) and the full
// ledger scope lists the aggregator filters in memory.
func (s *reportService) periodScope(userID, periodID uuid.UUID) (*models.Period, *models.Business, []models.DailyClosure, []models.Advance, []models.Deduction, error) {
	period, err := s.periodRepo.GetPeriodByID(periodID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, nil, nil, nil, ErrPeriodNotFound
		}
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to get period: %w", err)
	}

	business, err := s.businessRepo.GetBusinessByID(period.BusinessID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, nil, nil, nil, ErrPeriodNotFound
		}
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to get business: %w", err)
	}
	if business.OwnerID != userID {
		return nil, nil, nil, nil, nil, ErrPeriodNotFound
	}

	closures, err := s.closureRepo.GetClosures(userID, business.ID)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to get closures: %w", err)
	}
	advances, err := s.advanceRepo.GetAdvances(userID, business.ID)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to get advances: %w", err)
	}
	deductions, err := s.deductionRepo.GetDeductions(userID, business.ID)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to get deductions: %w", err)
	}
	return period, business, closures, advances, deductions, nil
}

func (s *reportService) GetPeriodSummary(userID, periodID uuid.UUID) (*PeriodSummaryResponse, error) {
	period, business, closures, advances, deductions, err := s.periodScope(userID, periodID)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(*period, closures, advances, deductions, business.DefaultCommission)
	return &PeriodSummaryResponse{Period: *period, Summary: summary}, nil
}

func (s *reportService) resolveCarryOver(userID, periodID uuid.UUID) (*ledger.CarryOver, *models.Period, error) {
	period, business, closures, advances, deductions, err := s.periodScope(userID, periodID)
	if err != nil {
		return nil, nil, err
	}
	periods, err := s.periodRepo.GetPeriodsByBusiness(business.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get periods: %w", err)
	}

	today := s.now().Format(dateLayout)
	return ledger.ResolveCarryOver(periods, *period, closures, advances, deductions, business.DefaultCommission, today), period, nil
}

func (s *reportService) GetCarryOver(userID, periodID uuid.UUID) (*CarryOverResponse, error) {
	carryOver, _, err := s.resolveCarryOver(userID, periodID)
	if err != nil {
		return nil, err
	}
	if carryOver == nil {
		return &CarryOverResponse{Available: false}, nil
	}
	return &CarryOverResponse{Available: true, CarryOver: carryOver}, nil
}

func (s *reportService) ImportCarryOver(userID, periodID uuid.UUID) (*models.Advance, error) {
	carryOver, period, err := s.resolveCarryOver(userID, periodID)
	if err != nil {
		return nil, err
	}
	if carryOver == nil {
		return nil, ErrNoCarryOver
	}

	// One import per period: the key makes a double-submit of the confirm
	// button return the already-recorded advance instead of a second row.
	key := "carry-over:" + period.ID.String()
	if existing, err := s.advanceRepo.FindByIdempotencyKey(userID, period.BusinessID, key); err == nil {
		return existing, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check carry-over idempotency key: %w", err)
	}

	// The imported balance becomes an ordinary advance: editable, deletable
	// and counted in any future aggregation of this period.
	advance := &models.Advance{
		BusinessID:     period.BusinessID,
		UserID:         userID,
		Amount:         carryOver.Amount,
		Reason:         carryOver.Reason,
		Date:           carryOver.Date,
		IdempotencyKey: &key,
	}
	id, err := s.advanceRepo.CreateAdvance(s.db, advance)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if existing, findErr := s.advanceRepo.FindByIdempotencyKey(userID, period.BusinessID, key); findErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to import carry-over advance: %w", err)
	}
	return s.advanceRepo.GetAdvanceByID(id)
}

func (s *reportService) GetRangeReport(userID, businessID uuid.UUID, rangeName string) (*RangeReport, error) {
	business, err := s.businessRepo.GetBusinessByID(businessID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	if business.OwnerID != userID {
		return nil, ErrBusinessNotFound
	}

	now := s.now()
	var cutoff time.Time
	switch rangeName {
	case "week":
		cutoff = now.AddDate(0, 0, -7)
	case "month":
		cutoff = now.AddDate(0, 0, -30)
	case "year":
		cutoff = now.AddDate(-1, 0, 0)
	default:
		return nil, ErrInvalidReportRange
	}

	closures, err := s.closureRepo.GetClosures(userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get closures: %w", err)
	}

	report := &RangeReport{
		Range:           rangeName,
		TotalSales:      decimal.Zero,
		TotalPrizes:     decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalProfit:     decimal.Zero,
		Series:          []ReportPoint{},
	}
	start := cutoff.Format(dateLayout)
	end := now.Format(dateLayout)
	for _, c := range ledger.ClosuresInRange(closures, start, end) {
		profit := ledger.ClosureProfit(c)
		report.TotalSales = report.TotalSales.Add(c.SaleTotal)
		report.TotalPrizes = report.TotalPrizes.Add(c.PrizesPaid)
		report.TotalCommission = report.TotalCommission.Add(ledger.Commission(c))
		report.TotalProfit = report.TotalProfit.Add(profit)
		report.Series = append(report.Series, ReportPoint{
			Date:   c.Date,
			Sales:  c.SaleTotal,
			Prizes: c.PrizesPaid,
			Profit: profit,
		})
	}
	return report, nil
}
