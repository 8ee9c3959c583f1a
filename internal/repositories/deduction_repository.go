package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"tiempos_backend/internal/models"
)

// DeductionRepository defines the interface for deduction database operations.
type DeductionRepository interface {
	// GetDeductions returns the full unfiltered set for the (user, business)
	// scope, newest date first.
	GetDeductions(userID, businessID uuid.UUID) ([]models.Deduction, error)
	GetDeductionByID(id uuid.UUID) (*models.Deduction, error)
	FindByIdempotencyKey(userID, businessID uuid.UUID, key string) (*models.Deduction, error)
	CreateDeduction(executor SQLExecutor, deduction *models.Deduction) (uuid.UUID, error)
	DeleteDeduction(executor SQLExecutor, id uuid.UUID) error
	DeleteDeductionsInRange(executor SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error)
}

type deductionRepository struct {
	db *sql.DB
}

// NewDeductionRepository creates a new instance of DeductionRepository.
func NewDeductionRepository(db *sql.DB) DeductionRepository {
	return &deductionRepository{db: db}
}

const deductionColumns = `id, business_id, user_id, amount, reason, date, idempotency_key, created_at`

func scanDeduction(row interface{ Scan(...interface{}) error }, d *models.Deduction) error {
	var date time.Time
	var key sql.NullString
	if err := row.Scan(&d.ID, &d.BusinessID, &d.UserID, &d.Amount, &d.Reason, &date, &key, &d.CreatedAt); err != nil {
		return err
	}
	d.Date = date.Format(dateLayout)
	if key.Valid {
		d.IdempotencyKey = &key.String
	}
	return nil
}

// GetDeductions retrieves every deduction for the scope.
func (r *deductionRepository) GetDeductions(userID, businessID uuid.UUID) ([]models.Deduction, error) {
	query := `SELECT ` + deductionColumns + ` FROM deductions
	          WHERE user_id = $1 AND business_id = $2 ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(query, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying deductions for user %s business %s: %v", ErrDatabaseError, userID, businessID, err)
	}
	defer rows.Close()

	deductions := []models.Deduction{}
	for rows.Next() {
		var d models.Deduction
		if err := scanDeduction(rows, &d); err != nil {
			return nil, fmt.Errorf("%w: scanning deduction: %v", ErrDatabaseError, err)
		}
		deductions = append(deductions, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating deduction rows: %v", ErrDatabaseError, err)
	}
	return deductions, nil
}

// GetDeductionByID retrieves one deduction.
func (r *deductionRepository) GetDeductionByID(id uuid.UUID) (*models.Deduction, error) {
	deduction := &models.Deduction{}
	query := `SELECT ` + deductionColumns + ` FROM deductions WHERE id = $1`

	err := scanDeduction(r.db.QueryRow(query, id), deduction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting deduction by ID %s: %v", ErrDatabaseError, id, err)
	}
	return deduction, nil
}

// FindByIdempotencyKey looks up a previously created deduction by key.
func (r *deductionRepository) FindByIdempotencyKey(userID, businessID uuid.UUID, key string) (*models.Deduction, error) {
	deduction := &models.Deduction{}
	query := `SELECT ` + deductionColumns + ` FROM deductions
	          WHERE user_id = $1 AND business_id = $2 AND idempotency_key = $3`

	err := scanDeduction(r.db.QueryRow(query, userID, businessID, key), deduction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding deduction by idempotency key: %v", ErrDatabaseError, err)
	}
	return deduction, nil
}

// CreateDeduction inserts a new deduction.
func (r *deductionRepository) CreateDeduction(executor SQLExecutor, deduction *models.Deduction) (uuid.UUID, error) {
	query := `INSERT INTO deductions (id, business_id, user_id, amount, reason, date, idempotency_key, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if deduction.ID == uuid.Nil {
		deduction.ID = uuid.New()
	}
	if deduction.CreatedAt.IsZero() {
		deduction.CreatedAt = time.Now()
	}

	var key sql.NullString
	if deduction.IdempotencyKey != nil && *deduction.IdempotencyKey != "" {
		key = sql.NullString{String: *deduction.IdempotencyKey, Valid: true}
	}

	err := executor.QueryRow(query,
		deduction.ID, deduction.BusinessID, deduction.UserID, deduction.Amount,
		deduction.Reason, deduction.Date, key, deduction.CreatedAt,
	).Scan(&deduction.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return uuid.Nil, fmt.Errorf("%w: creating deduction: %v", ErrDatabaseError, err)
	}
	return deduction.ID, nil
}

// DeleteDeduction removes one deduction.
func (r *deductionRepository) DeleteDeduction(executor SQLExecutor, id uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM deductions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting deduction ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting deduction ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteDeductionsInRange removes a business's deductions within the inclusive range.
func (r *deductionRepository) DeleteDeductionsInRange(executor SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
	result, err := executor.Exec(
		`DELETE FROM deductions WHERE business_id = $1 AND date >= $2 AND date <= $3`,
		businessID, startDate, endDate,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting deductions for business %s in [%s, %s]: %v", ErrDatabaseError, businessID, startDate, endDate, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deduction range delete: %v", ErrDatabaseError, err)
	}
	return deleted, nil
}
