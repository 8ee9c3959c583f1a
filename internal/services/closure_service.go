package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiempos_backend/internal/ledger"
	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

// --- Custom Service Errors for Closure ---
// A missing closure is not an error here: date lookups materialize an empty
// placeholder, so there is no not-found sentinel.
var ErrClosureValidation = errors.New("closure data validation error")

// --- Closure DTOs ---
type ExpenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaveClosureRequest upserts the closure for (user, business, date).
type SaveClosureRequest struct {
	Date       string          `json:"date" binding:"required"`
	SaleTotal  decimal.Decimal `json:"sale_total"`
	PrizesPaid decimal.Decimal `json:"prizes_paid"`
	// CommissionPercentage is optional; the business default applies when nil.
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
	Expenses             []ExpenseInput   `json:"expenses"`
}

// --- ClosureService Interface ---
type ClosureService interface {
	// GetClosures returns the scope's closures with profit recomputed.
	GetClosures(userID, businessID uuid.UUID) ([]models.DailyClosure, error)
	// GetClosureForDate returns the stored closure for the date, or a
	// zero-valued placeholder carrying the business default commission.
	GetClosureForDate(userID, businessID uuid.UUID, date string) (*models.DailyClosure, error)
	SaveClosure(userID, businessID uuid.UUID, req SaveClosureRequest) (*models.DailyClosure, error)
}

type closureService struct {
	closureRepo  repositories.ClosureRepository
	businessRepo repositories.BusinessRepository
	db           *sql.DB
}

// NewClosureService creates a new instance of ClosureService.
func NewClosureService(closureRepo repositories.ClosureRepository, businessRepo repositories.BusinessRepository, db *sql.DB) ClosureService {
	return &closureService{closureRepo: closureRepo, businessRepo: businessRepo, db: db}
}

func (s *closureService) ownedBusiness(ownerID, businessID uuid.UUID) (*models.Business, error) {
	business, err := s.businessRepo.GetBusinessByID(businessID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}
	if business.OwnerID != ownerID {
		return nil, ErrBusinessNotFound
	}
	return business, nil
}

func (s *closureService) GetClosures(userID, businessID uuid.UUID) ([]models.DailyClosure, error) {
	if _, err := s.ownedBusiness(userID, businessID); err != nil {
		return nil, err
	}
	closures, err := s.closureRepo.GetClosures(userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get closures: %w", err)
	}
	// Profit is derived; recompute on every read.
	for i := range closures {
		closures[i].CalculatedProfit = ledger.ClosureProfit(closures[i])
	}
	return closures, nil
}

func (s *closureService) GetClosureForDate(userID, businessID uuid.UUID, date string) (*models.DailyClosure, error) {
	business, err := s.ownedBusiness(userID, businessID)
	if err != nil {
		return nil, err
	}
	normalized, err := parseDate(date)
	if err != nil {
		return nil, err
	}

	closure, err := s.closureRepo.GetClosureByDate(userID, businessID, normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Materialize a placeholder so the caller always gets a day.
			return &models.DailyClosure{
				ID:                   uuid.Nil,
				BusinessID:           businessID,
				UserID:               userID,
				Date:                 normalized,
				SaleTotal:            decimal.Zero,
				PrizesPaid:           decimal.Zero,
				CommissionPercentage: business.DefaultCommission,
				Expenses:             []models.Expense{},
				CalculatedProfit:     decimal.Zero,
			}, nil
		}
		return nil, fmt.Errorf("failed to get closure: %w", err)
	}
	closure.CalculatedProfit = ledger.ClosureProfit(*closure)
	return closure, nil
}

// SaveClosure upserts the day's closure and replaces its expense list, in one
// transaction so the closure row and its expenses never diverge.
func (s *closureService) SaveClosure(userID, businessID uuid.UUID, req SaveClosureRequest) (*models.DailyClosure, error) {
	business, err := s.ownedBusiness(userID, businessID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	for _, exp := range req.Expenses {
		if strings.TrimSpace(exp.Description) == "" {
			return nil, fmt.Errorf("%w: expense description cannot be empty", ErrClosureValidation)
		}
	}

	commission := business.DefaultCommission
	if req.CommissionPercentage != nil {
		commission = *req.CommissionPercentage
	}

	closure := &models.DailyClosure{
		BusinessID:           businessID,
		UserID:               userID,
		Date:                 date,
		SaleTotal:            req.SaleTotal,
		PrizesPaid:           req.PrizesPaid,
		CommissionPercentage: commission,
	}
	for _, exp := range req.Expenses {
		closure.Expenses = append(closure.Expenses, models.Expense{
			Description: strings.TrimSpace(exp.Description),
			Amount:      exp.Amount,
		})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin closure save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.closureRepo.UpsertClosure(tx, closure); err != nil {
		return nil, fmt.Errorf("failed to save closure: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit closure save: %w", err)
	}

	saved, err := s.closureRepo.GetClosureByDate(userID, businessID, date)
	if err != nil {
		return nil, fmt.Errorf("closure saved but failed to reload: %w", err)
	}
	saved.CalculatedProfit = ledger.ClosureProfit(*saved)
	return saved, nil
}
