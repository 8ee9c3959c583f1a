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

// --- Custom Service Errors for Advance ---
var (
	ErrAdvanceNotFound   = errors.New("advance not found")
	ErrAdvanceValidation = errors.New("advance data validation error")
)

// defaultAdvanceReason labels manually entered advances, matching the labels
// retailers already know from their paper books.
const defaultAdvanceReason = "Adelanto Manual"

// --- Advance DTOs ---
type CreateAdvanceRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Reason string          `json:"reason"`
	Date   string          `json:"date" binding:"required"`
	// IdempotencyKey lets clients retry safely; a repeated key returns the
	// originally created row instead of inserting a duplicate.
	IdempotencyKey *string `json:"idempotency_key"`
}

// --- AdvanceService Interface ---
type AdvanceService interface {
	GetAdvances(userID, businessID uuid.UUID) ([]models.Advance, error)
	CreateAdvance(userID, businessID uuid.UUID, req CreateAdvanceRequest) (*models.Advance, error)
	DeleteAdvance(userID, advanceID uuid.UUID) error
}

type advanceService struct {
	advanceRepo  repositories.AdvanceRepository
	businessRepo repositories.BusinessRepository
	db           *sql.DB
}

// NewAdvanceService creates a new instance of AdvanceService.
func NewAdvanceService(advanceRepo repositories.AdvanceRepository, businessRepo repositories.BusinessRepository, db *sql.DB) AdvanceService {
	return &advanceService{advanceRepo: advanceRepo, businessRepo: businessRepo, db: db}
}

func (s *advanceService) ownedBusiness(ownerID, businessID uuid.UUID) (*models.Business, error) {
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

func (s *advanceService) GetAdvances(userID, businessID uuid.UUID) ([]models.Advance, error) {
	if _, err := s.ownedBusiness(userID, businessID); err != nil {
		return nil, err
	}
	advances, err := s.advanceRepo.GetAdvances(userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get advances: %w", err)
	}
	return advances, nil
}

func (s *advanceService) CreateAdvance(userID, businessID uuid.UUID, req CreateAdvanceRequest) (*models.Advance, error) {
	if _, err := s.ownedBusiness(userID, businessID); err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: amount cannot be zero", ErrAdvanceValidation)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		existing, err := s.advanceRepo.FindByIdempotencyKey(userID, businessID, *req.IdempotencyKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check advance idempotency key: %w", err)
		}
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultAdvanceReason
	}

	advance := &models.Advance{
		BusinessID:     businessID,
		UserID:         userID,
		Amount:         req.Amount,
		Reason:         reason,
		Date:           date,
		IdempotencyKey: req.IdempotencyKey,
	}

	id, err := s.advanceRepo.CreateAdvance(s.db, advance)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Concurrent retry with the same key: return the winner's row.
			if advance.IdempotencyKey != nil {
				if existing, findErr := s.advanceRepo.FindByIdempotencyKey(userID, businessID, *advance.IdempotencyKey); findErr == nil {
					return existing, nil
				}
			}
		}
		return nil, fmt.Errorf("failed to create advance: %w", err)
	}
	return s.advanceRepo.GetAdvanceByID(id)
}

func (s *advanceService) DeleteAdvance(userID, advanceID uuid.UUID) error {
	advance, err := s.advanceRepo.GetAdvanceByID(advanceID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAdvanceNotFound
		}
		return fmt.Errorf("failed to find advance for deletion: %w", err)
	}
	if _, err := s.ownedBusiness(userID, advance.BusinessID); err != nil {
		return ErrAdvanceNotFound
	}

	if err := s.advanceRepo.DeleteAdvance(s.db, advanceID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAdvanceNotFound
		}
		return fmt.Errorf("failed to delete advance: %w", err)
	}
	return nil
}
