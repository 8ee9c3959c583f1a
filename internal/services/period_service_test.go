package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiempos_backend/internal/models"
	"tiempos_backend/internal/repositories"
)

func testBusiness(ownerID uuid.UUID) *models.Business {
	return &models.Business{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Name:              "Tiempos El Sol",
		Active:            true,
		DefaultCommission: decimal.RequireFromString("0.07"),
	}
}

func TestCreatePeriodRejectsOverlap(t *testing.T) {
	ownerID := uuid.New()
	business := testBusiness(ownerID)

	periodRepo := &stubPeriodRepo{
		countOverlapping: func(businessID uuid.UUID, startDate, endDate string, excludeID uuid.UUID) (int, error) {
			assert.Equal(t, business.ID, businessID)
			assert.Equal(t, uuid.Nil, excludeID)
			return 1, nil
		},
	}
	svc := NewPeriodService(periodRepo, ownedBusinessRepo(business), nil, nil, nil, nil)

	_, err := svc.CreatePeriod(ownerID, business.ID, CreatePeriodRequest{
		Name:      "Semana 10",
		StartDate: "2026-03-02",
		EndDate:   "2026-03-08",
	})
	assert.ErrorIs(t, err, ErrPeriodOverlap)
}

func TestCreatePeriodDefaultsToCurrentWeek(t *testing.T) {
	ownerID := uuid.New()
	business := testBusiness(ownerID)

	var created models.Period
	periodRepo := &stubPeriodRepo{
		countOverlapping: func(uuid.UUID, string, string, uuid.UUID) (int, error) { return 0, nil },
		createPeriod: func(_ repositories.SQLExecutor, period *models.Period) (uuid.UUID, error) {
			created = *period
			created.ID = uuid.New()
			return created.ID, nil
		},
		getPeriodByID: func(id uuid.UUID) (*models.Period, error) {
			p := created
			return &p, nil
		},
	}
	svc := NewPeriodService(periodRepo, ownedBusinessRepo(business), nil, nil, nil, nil)

	period, err := svc.CreatePeriod(ownerID, business.ID, CreatePeriodRequest{Name: "Semana Actual"})
	require.NoError(t, err)

	start, err := time.Parse(dateLayout, period.StartDate)
	require.NoError(t, err)
	end, err := time.Parse(dateLayout, period.EndDate)
	require.NoError(t, err)

	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, time.Sunday, end.Weekday())
	assert.Equal(t, 6, int(end.Sub(start).Hours()/24))

	today := time.Now().Format(dateLayout)
	assert.LessOrEqual(t, period.StartDate, today)
	assert.GreaterOrEqual(t, period.EndDate, today)
	assert.Equal(t, models.PeriodStatusActive, period.Status)
}

func TestCreatePeriodRejectsMalformedDates(t *testing.T) {
	ownerID := uuid.New()
	business := testBusiness(ownerID)
	svc := NewPeriodService(&stubPeriodRepo{}, ownedBusinessRepo(business), nil, nil, nil, nil)

	_, err := svc.CreatePeriod(ownerID, business.ID, CreatePeriodRequest{
		Name:      "Semana 11",
		StartDate: "02/03/2026",
		EndDate:   "2026-03-08",
	})
	assert.ErrorIs(t, err, ErrDateFormat)

	_, err = svc.CreatePeriod(ownerID, business.ID, CreatePeriodRequest{
		Name:      "Semana 11",
		StartDate: "2026-03-08",
		EndDate:   "2026-03-02",
	})
	assert.ErrorIs(t, err, ErrPeriodValidation)
}

func TestCreatePeriodHiddenFromOtherOwners(t *testing.T) {
	business := testBusiness(uuid.New())
	svc := NewPeriodService(&stubPeriodRepo{}, ownedBusinessRepo(business), nil, nil, nil, nil)

	_, err := svc.CreatePeriod(uuid.New(), business.ID, CreatePeriodRequest{
		Name:      "Semana 12",
		StartDate: "2026-03-09",
		EndDate:   "2026-03-15",
	})
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestUpdatePeriodSkipsOverlapCheckWithoutDateChange(t *testing.T) {
	ownerID := uuid.New()
	business := testBusiness(ownerID)
	stored := models.Period{
		ID:         uuid.New(),
		BusinessID: business.ID,
		Name:       "Semana 13",
		StartDate:  "2026-03-23",
		EndDate:    "2026-03-29",
		Status:     models.PeriodStatusActive,
	}

	periodRepo := &stubPeriodRepo{
		getPeriodByID: func(id uuid.UUID) (*models.Period, error) {
			p := stored
			return &p, nil
		},
		countOverlapping: func(uuid.UUID, string, string, uuid.UUID) (int, error) {
			t.Fatal("overlap check should not run when dates are untouched")
			return 0, nil
		},
		updatePeriod: func(_ repositories.SQLExecutor, period *models.Period) error {
			stored = *period
			return nil
		},
	}
	svc := NewPeriodService(periodRepo, ownedBusinessRepo(business), nil, nil, nil, nil)

	closed := models.PeriodStatusClosed
	period, err := svc.UpdatePeriod(ownerID, stored.ID, UpdatePeriodRequest{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStatusClosed, period.Status)
}

func TestDeletePeriodCascadesInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ownerID := uuid.New()
	business := testBusiness(ownerID)
	period := models.Period{
		ID:         uuid.New(),
		BusinessID: business.ID,
		Name:       "Semana 14",
		StartDate:  "2026-03-30",
		EndDate:    "2026-04-05",
		Status:     models.PeriodStatusActive,
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	periodRepo := &stubPeriodRepo{
		getPeriodByID: func(id uuid.UUID) (*models.Period, error) {
			p := period
			return &p, nil
		},
		deletePeriod: func(executor repositories.SQLExecutor, id uuid.UUID) error {
			assert.Equal(t, period.ID, id)
			return nil
		},
	}
	closureRepo := &stubClosureRepo{
		deleteClosuresInRange: func(_ repositories.SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
			assert.Equal(t, period.StartDate, startDate)
			assert.Equal(t, period.EndDate, endDate)
			return 7, nil
		},
	}
	advanceRepo := &stubAdvanceRepo{
		deleteAdvancesInRange: func(repositories.SQLExecutor, uuid.UUID, string, string) (int64, error) {
			return 2, nil
		},
	}
	deductionRepo := &stubDeductionRepo{
		deleteDeductionsInRange: func(repositories.SQLExecutor, uuid.UUID, string, string) (int64, error) {
			return 1, nil
		},
	}
	svc := NewPeriodService(periodRepo, ownedBusinessRepo(business), closureRepo, advanceRepo, deductionRepo, db)

	result, err := svc.DeletePeriod(ownerID, period.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.ClosuresDeleted)
	assert.Equal(t, int64(2), result.AdvancesDeleted)
	assert.Equal(t, int64(1), result.DeductionsDeleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePeriodRollsBackWhenCascadeFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ownerID := uuid.New()
	business := testBusiness(ownerID)
	period := models.Period{
		ID:         uuid.New(),
		BusinessID: business.ID,
		Name:       "Semana 15",
		StartDate:  "2026-04-06",
		EndDate:    "2026-04-12",
		Status:     models.PeriodStatusActive,
	}

	mock.ExpectBegin()
	mock.ExpectRollback()

	periodRepo := &stubPeriodRepo{
		getPeriodByID: func(id uuid.UUID) (*models.Period, error) {
			p := period
			return &p, nil
		},
	}
	closureRepo := &stubClosureRepo{
		deleteClosuresInRange: func(repositories.SQLExecutor, uuid.UUID, string, string) (int64, error) {
			return 0, repositories.ErrDatabaseError
		},
	}
	svc := NewPeriodService(periodRepo, ownedBusinessRepo(business), closureRepo, &stubAdvanceRepo{}, &stubDeductionRepo{}, db)

	_, err = svc.DeletePeriod(ownerID, period.ID)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
