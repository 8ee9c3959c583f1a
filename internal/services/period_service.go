package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

// --- Custom Service Errors for Period ---
var (
	ErrPeriodNotFound   = errors.New("period not found")
	ErrPeriodValidation = errors.New("period data validation error")
	ErrPeriodOverlap    = errors.New("period date range overlaps an existing period")
	ErrDateFormat       = errors.New("invalid date format, please use YYYY-MM-DD")
)

const dateLayout = "2006-01-02"

// --- Period DTOs ---
type CreatePeriodRequest struct {
	Name string `json:"name" binding:"required"`
	// StartDate/EndDate are optional; when omitted the period defaults to
	// the current week, Monday through Sunday.
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	IsPinned  bool   `json:"is_pinned"`
}

type UpdatePeriodRequest struct {
	Name      *string `json:"name"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"`
	IsPinned  *bool   `json:"is_pinned"`
}

// PeriodDeletionResult reports what the cascade removed.
type PeriodDeletionResult struct {
	ClosuresDeleted   int64 `json:"closures_deleted"`
	AdvancesDeleted   int64 `json:"advances_deleted"`
	DeductionsDeleted int64 `json:"deductions_deleted"`
}

// --- PeriodService Interface ---
type PeriodService interface {
	GetPeriods(ownerID, businessID uuid.UUID) ([]models.Period, error)
	GetPeriodByID(ownerID, periodID uuid.UUID) (*models.Period, error)
	CreatePeriod(ownerID, businessID uuid.UUID, req CreatePeriodRequest) (*models.Period, error)
	UpdatePeriod(ownerID, periodID uuid.UUID, req UpdatePeriodRequest) (*models.Period, error)
	// DeletePeriod removes the period and every closure, advance and
	// deduction of its business dated within the period's range, in one
	// transaction. This is destructive and irreversible.
	DeletePeriod(ownerID, periodID uuid.UUID) (*PeriodDeletionResult, error)
}

type periodService struct {
	periodRepo    repositories.PeriodRepository
	businessRepo  repositories.BusinessRepository
	closureRepo   repositories.ClosureRepository
	advanceRepo   repositories.AdvanceRepository
	deductionRepo repositories.DeductionRepository
	db            *sql.DB
}

// NewPeriodService creates a new instance of PeriodService.
func NewPeriodService(
	periodRepo repositories.PeriodRepository,
	businessRepo repositories.BusinessRepository,
	closureRepo repositories.ClosureRepository,
	advanceRepo repositories.AdvanceRepository,
	deductionRepo repositories.DeductionRepository,
	db *sql.DB,
) PeriodService {
	return &periodService{
		periodRepo:    periodRepo,
		businessRepo:  businessRepo,
		closureRepo:   closureRepo,
		advanceRepo:   advanceRepo,
		deductionRepo: deductionRepo,
		db:            db,
	}
}

func parseDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrDateFormat
	}
	return t.Format(dateLayout), nil
}

// currentWeekRange returns the Monday and Sunday of the week containing now.
func currentWeekRange(now time.Time) (string, string) {
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := now.AddDate(0, 0, 1-weekday)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(dateLayout), sunday.Format(dateLayout)
}

// ownedBusiness verifies the business exists and belongs to the caller.
func (s *periodService) ownedBusiness(ownerID, businessID uuid.UUID) (*models.Business, error) {
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

// ownedPeriod fetches a period and verifies the caller owns its business.
func (s *periodService) ownedPeriod(ownerID, periodID uuid.UUID) (*models.Period, error) {
	period, err := s.periodRepo.GetPeriodByID(periodID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	if _, err := s.ownedBusiness(ownerID, period.BusinessID); err != nil {
		return nil, ErrPeriodNotFound
	}
	return period, nil
}

func (s *periodService) GetPeriods(ownerID, businessID uuid.UUID) ([]models.Period, error) {
	if _, err := s.ownedBusiness(ownerID, businessID); err != nil {
		return nil, err
	}
	periods, err := s.periodRepo.GetPeriodsByBusiness(businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get periods: %w", err)
	}
	return periods, nil
}

func (s *periodService) GetPeriodByID(ownerID, periodID uuid.UUID) (*models.Period, error) {
	return s.ownedPeriod(ownerID, periodID)
}

// checkOverlap enforces the non-overlap invariant for a business's periods.
func (s *periodService) checkOverlap(businessID uuid.UUID, startDate, endDate string, excludeID uuid.UUID) error {
	count, err := s.periodRepo.CountOverlapping(businessID, startDate, endDate, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check period overlap: %w", err)
	}
	if count > 0 {
		return ErrPeriodOverlap
	}
	return nil
}

func (s *periodService) CreatePeriod(ownerID, businessID uuid.UUID, req CreatePeriodRequest) (*models.Period, error) {
	if _, err := s.ownedBusiness(ownerID, businessID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrPeriodValidation)
	}

	var startDate, endDate string
	var err error
	if req.StartDate == "" && req.EndDate == "" {
		startDate, endDate = currentWeekRange(time.Now())
	} else {
		if startDate, err = parseDate(req.StartDate); err != nil {
			return nil, err
		}
		if endDate, err = parseDate(req.EndDate); err != nil {
			return nil, err
		}
	}
	if startDate > endDate {
		return nil, fmt.Errorf("%w: start date must not be after end date", ErrPeriodValidation)
	}

	if err := s.checkOverlap(businessID, startDate, endDate, uuid.Nil); err != nil {
		return nil, err
	}

	period := &models.Period{
		BusinessID: businessID,
		Name:       strings.TrimSpace(req.Name),
		StartDate:  startDate,
		EndDate:    endDate,
		Status:     models.PeriodStatusActive,
		IsPinned:   req.IsPinned,
	}

	id, err := s.periodRepo.CreatePeriod(s.db, period)
	if err != nil {
		return nil, fmt.Errorf("failed to create period: %w", err)
	}
	return s.periodRepo.GetPeriodByID(id)
}

func (s *periodService) UpdatePeriod(ownerID, periodID uuid.UUID, req UpdatePeriodRequest) (*models.Period, error) {
	period, err := s.ownedPeriod(ownerID, periodID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: name cannot be empty if provided", ErrPeriodValidation)
		}
		period.Name = strings.TrimSpace(*req.Name)
	}
	if req.StartDate != nil {
		if period.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if period.EndDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if period.StartDate > period.EndDate {
		return nil, fmt.Errorf("%w: start date must not be after end date", ErrPeriodValidation)
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if status != models.PeriodStatusActive && status != models.PeriodStatusClosed {
			return nil, fmt.Errorf("%w: status must be active or closed", ErrPeriodValidation)
		}
		period.Status = status
	}
	if req.IsPinned != nil {
		period.IsPinned = *req.IsPinned
	}

	if req.StartDate != nil || req.EndDate != nil {
		if err := s.checkOverlap(period.BusinessID, period.StartDate, period.EndDate, period.ID); err != nil {
			return nil, err
		}
	}

	if err := s.periodRepo.UpdatePeriod(s.db, period); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to update period: %w", err)
	}
	return s.periodRepo.GetPeriodByID(periodID)
}

// DeletePeriod runs the destructive cascade in a single transaction: the
// business's closures (expenses cascade with them), advances and deductions
// dated within the period's range, then the period row itself. Either all of
// it commits or none of it does; no orphaned rows.
func (s *periodService) DeletePeriod(ownerID, periodID uuid.UUID) (*PeriodDeletionResult, error) {
	period, err := s.ownedPeriod(ownerID, periodID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin period deletion transaction: %w", err)
	}
	defer tx.Rollback()

	result := &PeriodDeletionResult{}
	if result.ClosuresDeleted, err = s.closureRepo.DeleteClosuresInRange(tx, period.BusinessID, period.StartDate, period.EndDate); err != nil {
		return nil, fmt.Errorf("failed to delete closures in period range: %w", err)
	}
	if result.AdvancesDeleted, err = s.advanceRepo.DeleteAdvancesInRange(tx, period.BusinessID, period.StartDate, period.EndDate); err != nil {
		return nil, fmt.Errorf("failed to delete advances in period range: %w", err)
	}
	if result.DeductionsDeleted, err = s.deductionRepo.DeleteDeductionsInRange(tx, period.BusinessID, period.StartDate, period.EndDate); err != nil {
		return nil, fmt.Errorf("failed to delete deductions in period range: %w", err)
	}
	if err = s.periodRepo.DeletePeriod(tx, period.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to delete period: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit period deletion: %w", err)
	}
	return result, nil
}
