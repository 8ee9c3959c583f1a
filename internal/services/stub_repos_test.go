package services

import (
	"github.com/google/uuid"

	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

// Function-field stubs for the repository interfaces. Tests override only the
// calls they expect; anything else panics loudly via the nil function.

type stubBusinessRepo struct {
	createBusiness      func(executor repositories.SQLExecutor, business *models.Business) (uuid.UUID, error)
	getBusinessByID     func(id uuid.UUID) (*models.Business, error)
	getBusinessesByOwner func(ownerID uuid.UUID) ([]models.Business, error)
	updateBusiness      func(executor repositories.SQLExecutor, business *models.Business) error
	deleteBusiness      func(executor repositories.SQLExecutor, id uuid.UUID) error
}

func (s *stubBusinessRepo) CreateBusiness(executor repositories.SQLExecutor, business *models.Business) (uuid.UUID, error) {
	return s.createBusiness(executor, business)
}

func (s *stubBusinessRepo) GetBusinessByID(id uuid.UUID) (*models.Business, error) {
	return s.getBusinessByID(id)
}

func (s *stubBusinessRepo) GetBusinessesByOwner(ownerID uuid.UUID) ([]models.Business, error) {
	return s.getBusinessesByOwner(ownerID)
}

func (s *stubBusinessRepo) UpdateBusiness(executor repositories.SQLExecutor, business *models.Business) error {
	return s.updateBusiness(executor, business)
}

func (s *stubBusinessRepo) DeleteBusiness(executor repositories.SQLExecutor, id uuid.UUID) error {
	return s.deleteBusiness(executor, id)
}

// ownedBusinessRepo is the common case: one business, looked up by ID.
func ownedBusinessRepo(business *models.Business) *stubBusinessRepo {
	return &stubBusinessRepo{
		getBusinessByID: func(id uuid.UUID) (*models.Business, error) {
			if business != nil && business.ID == id {
				return business, nil
			}
			return nil, repositories.ErrNotFound
		},
	}
}

type stubPeriodRepo struct {
	createPeriod         func(executor repositories.SQLExecutor, period *models.Period) (uuid.UUID, error)
	getPeriodByID        func(id uuid.UUID) (*models.Period, error)
	getPeriodsByBusiness func(businessID uuid.UUID) ([]models.Period, error)
	countOverlapping     func(businessID uuid.UUID, startDate, endDate string, excludeID uuid.UUID) (int, error)
	updatePeriod         func(executor repositories.SQLExecutor, period *models.Period) error
	deletePeriod         func(executor repositories.SQLExecutor, id uuid.UUID) error
}

func (s *stubPeriodRepo) CreatePeriod(executor repositories.SQLExecutor, period *models.Period) (uuid.UUID, error) {
	return s.createPeriod(executor, period)
}

func (s *stubPeriodRepo) GetPeriodByID(id uuid.UUID) (*models.Period, error) {
	return s.getPeriodByID(id)
}

func (s *stubPeriodRepo) GetPeriodsByBusiness(businessID uuid.UUID) ([]models.Period, error) {
	return s.getPeriodsByBusiness(businessID)
}

func (s *stubPeriodRepo) CountOverlapping(businessID uuid.UUID, startDate, endDate string, excludeID uuid.UUID) (int, error) {
	return s.countOverlapping(businessID, startDate, endDate, excludeID)
}

func (s *stubPeriodRepo) UpdatePeriod(executor repositories.SQLExecutor, period *models.Period) error {
	return s.updatePeriod(executor, period)
}

func (s *stubPeriodRepo) DeletePeriod(executor repositories.SQLExecutor, id uuid.UUID) error {
	return s.deletePeriod(executor, id)
}

type stubClosureRepo struct {
	getClosures           func(userID, businessID uuid.UUID) ([]models.DailyClosure, error)
	getClosureByDate      func(userID, businessID uuid.UUID, date string) (*models.DailyClosure, error)
	upsertClosure         func(executor repositories.SQLExecutor, closure *models.DailyClosure) (uuid.UUID, error)
	deleteClosuresInRange func(executor repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error)
}

func (s *stubClosureRepo) GetClosures(userID, businessID uuid.UUID) ([]models.DailyClosure, error) {
	return s.getClosures(userID, businessID)
}

func (s *stubClosureRepo) GetClosureByDate(userID, businessID uuid.UUID, date string) (*models.DailyClosure, error) {
	return s.getClosureByDate(userID, businessID, date)
}

func (s *stubClosureRepo) UpsertClosure(executor repositories.SQLExecutor, closure *models.DailyClosure) (uuid.UUID, error) {
	return s.upsertClosure(executor, closure)
}

func (s *stubClosureRepo) DeleteClosuresInRange(executor repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
	return s.deleteClosuresInRange(executor, businessID, startDate, endDate)
}

type stubAdvanceRepo struct {
	getAdvances           func(userID, businessID uuid.UUID) ([]models.Advance, error)
	getAdvanceByID        func(id uuid.UUID) (*models.Advance, error)
	findByIdempotencyKey  func(userID, businessID uuid.UUID, key string) (*models.Advance, error)
	createAdvance         func(executor repositories.SQLExecutor, advance *models.Advance) (uuid.UUID, error)
	deleteAdvance         func(executor repositories.SQLExecutor, id uuid.UUID) error
	deleteAdvancesInRange func(executor repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error)
}

func (s *stubAdvanceRepo) GetAdvances(userID, businessID uuid.UUID) ([]models.Advance, error) {
	return s.getAdvances(userID, businessID)
}

func (s *stubAdvanceRepo) GetAdvanceByID(id uuid.UUID) (*models.Advance, error) {
	return s.getAdvanceByID(id)
}

func (s *stubAdvanceRepo) FindByIdempotencyKey(userID, businessID uuid.UUID, key string) (*models.Advance, error) {
	return s.findByIdempotencyKey(userID, businessID, key)
}

func (s *stubAdvanceRepo) CreateAdvance(executor repositories.SQLExecutor, advance *models.Advance) (uuid.UUID, error) {
	return s.createAdvance(executor, advance)
}

func (s *stubAdvanceRepo) DeleteAdvance(executor repositories.SQLExecutor, id uuid.UUID) error {
	return s.deleteAdvance(executor, id)
}

func (s *stubAdvanceRepo) DeleteAdvancesInRange(executor repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
	return s.deleteAdvancesInRange(executor, businessID, startDate, endDate)
}

type stubDeductionRepo struct {
	getDeductions           func(userID, businessID uuid.UUID) ([]models.Deduction, error)
	getDeductionByID        func(id uuid.UUID) (*models.Deduction, error)
	findByIdempotencyKey    func(userID, businessID uuid.UUID, key string) (*models.Deduction, error)
	createDeduction         func(executor repositories.SQLExecutor, deduction *models.Deduction) (uuid.UUID, error)
	deleteDeduction         func(executor repositories.SQLExecutor, id uuid.UUID) error
	deleteDeductionsInRange func(executor repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error)
}

func (s *stubDeductionRepo) GetDeductions(userID, businessID uuid.UUID) ([]models.Deduction, error) {
	return s.getDeductions(userID, businessID)
}

func (s *stubDeductionRepo) GetDeductionByID(id uuid.UUID) (*models.Deduction, error) {
	return s.getDeductionByID(id)
}

func (s *stubDeductionRepo) FindByIdempotencyKey(userID, businessID uuid.UUID, key string) (*models.Deduction, error) {
	return s.findByIdempotencyKey(userID, businessID, key)
}

func (s *stubDeductionRepo) CreateDeduction(executor repositories.SQLExecutor, deduction *models.Deduction) (uuid.UUID, error) {
	return s.createDeduction(executor, deduction)
}

func (s *stubDeductionRepo) DeleteDeduction(executor repositories.SQLExecutor, id uuid.UUID) error {
	return s.deleteDeduction(executor, id)
}

func (s *stubDeductionRepo) DeleteDeductionsInRange(executor repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
	return s.deleteDeductionsInRange(executor, businessID, startDate, endDate)
}
