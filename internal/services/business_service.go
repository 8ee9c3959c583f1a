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

// --- Custom Service Errors for Business ---
var (
	ErrBusinessNotFound   = errors.New("business not found")
	ErrBusinessValidation = errors.New("business data validation error")
)

// defaultCommissionFraction is applied when the caller does not configure one.
var defaultCommissionFraction = decimal.NewFromFloat(0.07)

// --- Business DTOs ---
type CreateBusinessRequest struct {
	Name              string           `json:"name" binding:"required"`
	DefaultCommission *decimal.Decimal `json:"default_commission"`
}

type UpdateBusinessRequest struct {
	Name              *string          `json:"name"`
	Active            *bool            `json:"active"`
	DefaultCommission *decimal.Decimal `json:"default_commission"`
}

// --- BusinessService Interface ---
type BusinessService interface {
	CreateBusiness(ownerID uuid.UUID, req CreateBusinessRequest) (*models.Business, error)
	GetBusinesses(ownerID uuid.UUID) ([]models.Business, error)
	GetBusinessByID(ownerID, businessID uuid.UUID) (*models.Business, error)
	UpdateBusiness(ownerID, businessID uuid.UUID, req UpdateBusinessRequest) (*models.Business, error)
	DeleteBusiness(ownerID, businessID uuid.UUID) error
}

type businessService struct {
	businessRepo repositories.BusinessRepository
	db           *sql.DB
}

// NewBusinessService creates a new instance of BusinessService.
func NewBusinessService(repo repositories.BusinessRepository, db *sql.DB) BusinessService {
	return &businessService{businessRepo: repo, db: db}
}

// ownedBusiness fetches a business and verifies ownership. A business of
// another owner is reported as not found rather than forbidden.
func (s *businessService) ownedBusiness(ownerID, businessID uuid.UUID) (*models.Business, error) {
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

func (s *businessService) CreateBusiness(ownerID uuid.UUID, req CreateBusinessRequest) (*models.Business, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrBusinessValidation)
	}

	commission := defaultCommissionFraction
	if req.DefaultCommission != nil {
		commission = *req.DefaultCommission
	}

	business := &models.Business{
		OwnerID:           ownerID,
		Name:              name,
		Active:            true,
		DefaultCommission: commission,
	}

	id, err := s.businessRepo.CreateBusiness(s.db, business)
	if err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return s.businessRepo.GetBusinessByID(id)
}

func (s *businessService) GetBusinesses(ownerID uuid.UUID) ([]models.Business, error) {
	businesses, err := s.businessRepo.GetBusinessesByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get businesses: %w", err)
	}
	return businesses, nil
}

func (s *businessService) GetBusinessByID(ownerID, businessID uuid.UUID) (*models.Business, error) {
	return s.ownedBusiness(ownerID, businessID)
}

func (s *businessService) UpdateBusiness(ownerID, businessID uuid.UUID, req UpdateBusinessRequest) (*models.Business, error) {
	business, err := s.ownedBusiness(ownerID, businessID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrBusinessValidation)
		}
		business.Name = name
	}
	if req.Active != nil {
		business.Active = *req.Active
	}
	if req.DefaultCommission != nil {
		business.DefaultCommission = *req.DefaultCommission
	}

	if err := s.businessRepo.UpdateBusiness(s.db, business); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return s.businessRepo.GetBusinessByID(businessID)
}

// DeleteBusiness hard-deletes a business. Dependent periods, closures,
// expenses, advances and deductions go with it via foreign key cascade, so
// the single DELETE is already atomic.
func (s *businessService) DeleteBusiness(ownerID, businessID uuid.UUID) error {
	if _, err := s.ownedBusiness(ownerID, businessID); err != nil {
		return err
	}

	if err := s.businessRepo.DeleteBusiness(s.db, businessID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBusinessNotFound
		}
		return fmt.Errorf("failed to delete business: %w", err)
	}
	return nil
}
