package repositories

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiempos_backend/internal/models"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestUpsertClosureReplacesExpenses(t *testing.T) {
	db, mock := newMockDB(t)
	closure := &models.DailyClosure{
		BusinessID:           uuid.New(),
		UserID:               uuid.New(),
		Date:                 "2026-03-04",
		SaleTotal:            decimal.RequireFromString("50000"),
		PrizesPaid:           decimal.RequireFromString("12000"),
		CommissionPercentage: decimal.RequireFromString("0.07"),
		Expenses: []models.Expense{
			{Description: "Papelería", Amount: decimal.RequireFromString("2000")},
			{Description: "Taxi", Amount: decimal.RequireFromString("1500")},
		},
	}

	storedID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO daily_closures")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(storedID))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM expenses WHERE closure_id = $1")).
		WithArgs(storedID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewClosureRepository(nil)
	id, err := repo.UpsertClosure(db, closure)
	require.NoError(t, err)

	// The conflict target always wins: the caller's closure adopts the
	// stored row identity, and every expense reparents to it.
	assert.Equal(t, storedID, id)
	assert.Equal(t, storedID, closure.ID)
	for _, exp := range closure.Expenses {
		assert.Equal(t, storedID, exp.ClosureID)
		assert.NotEqual(t, uuid.Nil, exp.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClosureByDateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewClosureRepository(db)
	_, err := repo.GetClosureByDate(uuid.New(), uuid.New(), "2026-03-04")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetClosuresScansDatesAndExpenses(t *testing.T) {
	db, mock := newMockDB(t)
	userID := uuid.New()
	businessID := uuid.New()
	closureID := uuid.New()
	now := time.Now()

	closureRows := sqlmock.NewRows([]string{
		"id", "business_id", "user_id", "date", "sale_total", "prizes_paid",
		"commission_percentage", "created_at", "updated_at",
	}).AddRow(closureID, businessID, userID, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		"50000", "12000", "0.07", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM daily_closures")).
		WithArgs(userID, businessID).
		WillReturnRows(closureRows)

	expenseRows := sqlmock.NewRows([]string{"id", "closure_id", "description", "amount", "created_at"}).
		AddRow(uuid.New(), closureID, "Papelería", "2000", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM expenses")).
		WillReturnRows(expenseRows)

	repo := NewClosureRepository(db)
	closures, err := repo.GetClosures(userID, businessID)
	require.NoError(t, err)
	require.Len(t, closures, 1)

	assert.Equal(t, "2026-03-04", closures[0].Date)
	require.Len(t, closures[0].Expenses, 1)
	assert.Equal(t, "Papelería", closures[0].Expenses[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClosuresInRangeReportsCount(t *testing.T) {
	db, mock := newMockDB(t)
	businessID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM daily_closures WHERE business_id = $1 AND date >= $2 AND date <= $3")).
		WithArgs(businessID, "2026-03-02", "2026-03-08").
		WillReturnResult(sqlmock.NewResult(0, 7))

	repo := NewClosureRepository(nil)
	deleted, err := repo.DeleteClosuresInRange(db, businessID, "2026-03-02", "2026-03-08")
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
