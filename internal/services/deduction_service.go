package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

// --- Custom Service Errors for Deduction ---
var (
	ErrDeductionNotFound   = errors.New("deduction not found")
	ErrDeductionValidation = errors.New("deduction data validation error")
)

const defaultDeductionReason = "Deducción"

// --- Deduction DTOs ---
type CreateDeductionRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Reason         string          `json:"reason"`
	Date           string          `json:"date" binding:"required"`
	IdempotencyKey *string         `json:"idempotency_key"`
}

// --- DeductionService Interface ---
type DeductionService interface {
	GetDeductions(userID, businessID uuid.UUID) ([]models.Deduction, error)
	CreateDeduction(userID, businessID uuid.UUID, req CreateDeductionRequest) (*models.Deduction, error)
	DeleteDeduction(userID, deductionID uuid.UUID) error
}

type deductionService struct {
	deductionRepo repositories.DeductionRepository
	businessRepo  repositories.BusinessRepository
	db            *sql.DB
}

// NewDeductionService creates a new instance of DeductionService.
func NewDeductionService(deductionRepo repositories.DeductionRepository, businessRepo repositories.BusinessRepository, db *sql.DB) DeductionService {
	return &deductionService{deductionRepo: deductionRepo, businessRepo: businessRepo, db: db}
}

func (s *deductionService) ownedBusiness(ownerID, businessID uuid.UUID) (*models.Business, error) {
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

func (s *deductionService) GetDeductions(userID, businessID uuid.UUID) ([]models.Deduction, error) {
	if _, err := s.ownedBusiness(userID, businessID); err != nil {
		return nil, err
	}
	deductions, err := s.deductionRepo.GetDeductions(userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deductions: %w", err)
	}
	return deductions, nil
}

func (s *deductionService) CreateDeduction(userID, businessID uuid.UUID, req CreateDeductionRequest) (*models.Deduction, error) {
	if _, err := s.ownedBusiness(userID, businessID); err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount cannot be zero", ErrDeductionValidation)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		existing, err := s.deductionRepo.FindByIdempotencyKey(userID, businessID, *req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check deduction idempotency key: %w", err)
		}
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultDeductionReason
	}

	deduction := &models.Deduction{
		BusinessID:     businessID,
		UserID:         userID,
		Amount:         req.Amount,
		Reason:         reason,
		Date:           date,
		IdempotencyKey: req.IdempotencyKey,
	}

	id, err := s.deductionRepo.CreateDeduction(s.db, deduction)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			if deduction.IdempotencyKey != nil {
				if existing, findErr := s.deductionRepo.FindByIdempotencyKey(userID, businessID, *deduction.IdempotencyKey); findErr == nil {
					return existing, nil
				}
			}
		}
		return nil, fmt.Errorf("failed to create deduction: %w", err)
	}
	return s.deductionRepo.GetDeductionByID(id)
}

func (s *deductionService) DeleteDeduction(userID, deductionID uuid.UUID) error {
	deduction, err := s.deductionRepo.GetDeductionByID(deductionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDeductionNotFound
		}
		return fmt.Errorf("failed to find deduction for deletion: %w", err)
	}
	if _, err := s.ownedBusiness(userID, deduction.BusinessID); err != nil {
		return ErrDeductionNotFound
	}

	if err := s.deductionRepo.DeleteDeduction(s.db, deductionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrDeductionNotFound
		}
		return fmt.Errorf("failed to delete deduction: %w", err)
	}
	return nil
}
