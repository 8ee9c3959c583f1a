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

// AdvanceRepository defines the interface for advance database operations.
type AdvanceRepository interface {
	// GetAdvances returns the full unfiltered set for the (user, business)
	// scope, newest date first. Range filtering is the aggregator's job.
	GetAdvances(userID, businessID uuid.UUID) ([]models.Advance, error)
	GetAdvanceByID(id uuid.UUID) (*models.Advance, error)
	// FindByIdempotencyKey returns the advance previously created with the
	// same key within the scope, or ErrNotFound.
	FindByIdempotencyKey(userID, businessID uuid.UUID, key string) (*models.Advance, error)
	CreateAdvance(executor SQLExecutor, advance *models.Advance) (uuid.UUID, error)
	DeleteAdvance(executor SQLExecutor, id uuid.UUID) error
	DeleteAdvancesInRange(executor SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error)
}

type advanceRepository struct {
	db *sql.DB
}

// NewAdvanceRepository creates a new instance of AdvanceRepository.
func NewAdvanceRepository(db *sql.DB) AdvanceRepository {
	return &advanceRepository{db: db}
}

const advanceColumns = `id, business_id, user_id, amount, reason, date, idempotency_key, created_at`

func scanAdvance(row interface{ Scan(...interface{}) error }, a *models.Advance) error {
	var date time.Time
	var key sql.NullString
	if err := row.Scan(&a.ID, &a.BusinessID, &a.UserID, &a.Amount, &a.Reason, &date, &key, &a.CreatedAt); err != nil {
		return err
	}
	a.Date = date.Format(dateLayout)
	if key.Valid {
		a.IdempotencyKey = &key.String
	}
	return nil
}

// GetAdvances retrieves every advance for the scope.
func (r *advanceRepository) GetAdvances(userID, businessID uuid.UUID) ([]models.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances
	          WHERE user_id = $1 AND business_id = $2 ORDER BY date DESC, created_at DESC`

	rows, err := r.db.Query(query, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying advances for user %s business %s: %v", ErrDatabaseError, userID, businessID, err)
	}
	defer rows.Close()

	advances := []models.Advance{}
	for rows.Next() {
		var a models.Advance
		if err := scanAdvance(rows, &a); err != nil {
			return nil, fmt.Errorf("%w: scanning advance: %v", ErrDatabaseError, err)
		}
		advances = append(advances, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating advance rows: %v", ErrDatabaseError, err)
	}
	return advances, nil
}

// GetAdvanceByID retrieves one advance.
func (r *advanceRepository) GetAdvanceByID(id uuid.UUID) (*models.Advance, error) {
	advance := &models.Advance{}
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE id = $1`

	err := scanAdvance(r.db.QueryRow(query, id), advance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting advance by ID %s: %v", ErrDatabaseError, id, err)
	}
	return advance, nil
}

// FindByIdempotencyKey looks up a previously created advance by key.
func (r *advanceRepository) FindByIdempotencyKey(userID, businessID uuid.UUID, key string) (*models.Advance, error) {
	advance := &models.Advance{}
	query := `SELECT ` + advanceColumns + ` FROM advances
	          WHERE user_id = $1 AND business_id = $2 AND idempotency_key = $3`

	err := scanAdvance(r.db.QueryRow(query, userID, businessID, key), advance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding advance by idempotency key: %v", ErrDatabaseError, err)
	}
	return advance, nil
}

// CreateAdvance inserts a new advance.
func (r *advanceRepository) CreateAdvance(executor SQLExecutor, advance *models.Advance) (uuid.UUID, error) {
	query := `INSERT INTO advances (id, business_id, user_id, amount, reason, date, idempotency_key, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if advance.ID == uuid.Nil {
		advance.ID = uuid.New()
	}
	if advance.CreatedAt.IsZero() {
		advance.CreatedAt = time.Now()
	}

	var key sql.NullString
	if advance.IdempotencyKey != nil && *advance.IdempotencyKey != "" {
		key = sql.NullString{String: *advance.IdempotencyKey, Valid: true}
	}

	err := executor.QueryRow(query,
		advance.ID, advance.BusinessID, advance.UserID, advance.Amount,
		advance.Reason, advance.Date, key, advance.CreatedAt,
	).Scan(&advance.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return uuid.Nil, fmt.Errorf("%w: creating advance: %v", ErrDatabaseError, err)
	}
	return advance.ID, nil
}

// DeleteAdvance removes one advance.
func (r *advanceRepository) DeleteAdvance(executor SQLExecutor, id uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM advances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting advance ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting advance ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAdvancesInRange removes a business's advances within the inclusive range.
func (r *advanceRepository) DeleteAdvancesInRange(executor SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
	result, err := executor.Exec(
		`DELETE FROM advances WHERE business_id = $1 AND date >= $2 AND date <= $3`,
		businessID, startDate, endDate,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting advances for business %s in [%s, %s]: %v", ErrDatabaseError, businessID, startDate, endDate, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for advance range delete: %v", ErrDatabaseError, err)
	}
	return deleted, nil
}
