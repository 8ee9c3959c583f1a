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

const dateLayout = "2006-01-02"

// PeriodRepository defines the interface for period ("week") database operations.
type PeriodRepository interface {
	CreatePeriod(executor SQLExecutor, period *models.Period) (uuid.UUID, error)
	GetPeriodByID(id uuid.UUID) (*models.Period, error)
	// GetPeriodsByBusiness returns all periods of a business ordered by
	// start date descending (newest first), the order the carry-over
	// resolver expects.
	GetPeriodsByBusiness(businessID uuid.UUID) ([]models.Period, error)
	// CountOverlapping counts periods of the business whose inclusive range
	// intersects [startDate, endDate], excluding the given period ID (pass
	// uuid.Nil on create).
	CountOverlapping(businessID uuid.UUID, startDate, endDate string, excludeID uuid.UUID) (int, error)
	UpdatePeriod(executor SQLExecutor, period *models.Period) error
	DeletePeriod(executor SQLExecutor, id uuid.UUID) error
}

type periodRepository struct {
	db *sql.DB
}

// NewPeriodRepository creates a new instance of PeriodRepository.
func NewPeriodRepository(db *sql.DB) PeriodRepository {
	return &periodRepository{db: db}
}

func scanPeriod(row interface{ Scan(...interface{}) error }, p *models.Period) error {
	var start, end time.Time
	if err := row.Scan(&p.ID, &p.BusinessID, &p.Name, &start, &end, &p.Status, &p.IsPinned, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.StartDate = start.Format(dateLayout)
	p.EndDate = end.Format(dateLayout)
	return nil
}

const periodColumns = `id, business_id, name, start_date, end_date, status, is_pinned, created_at, updated_at`

// CreatePeriod inserts a new period.
func (r *periodRepository) CreatePeriod(executor SQLExecutor, period *models.Period) (uuid.UUID, error) {
	query := `INSERT INTO periods (id, business_id, name, start_date, end_date, status, is_pinned, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if period.ID == uuid.Nil {
		period.ID = uuid.New()
	}
	currentTime := time.Now()
	period.CreatedAt = currentTime
	period.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		period.ID, period.BusinessID, period.Name, period.StartDate, period.EndDate,
		period.Status, period.IsPinned, period.CreatedAt, period.UpdatedAt,
	).Scan(&period.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return uuid.Nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return uuid.Nil, fmt.Errorf("%w: creating period: %v", ErrDatabaseError, err)
	}
	return period.ID, nil
}

// GetPeriodByID retrieves a period by its ID.
func (r *periodRepository) GetPeriodByID(id uuid.UUID) (*models.Period, error) {
	period := &models.Period{}
	query := `SELECT ` + periodColumns + ` FROM periods WHERE id = $1`

	err := scanPeriod(r.db.QueryRow(query, id), period)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting period by ID %s: %v", ErrDatabaseError, id, err)
	}
	return period, nil
}

// GetPeriodsByBusiness retrieves all periods of a business, newest first.
func (r *periodRepository) GetPeriodsByBusiness(businessID uuid.UUID) ([]models.Period, error) {
	query := `SELECT ` + periodColumns + ` FROM periods WHERE business_id = $1 ORDER BY start_date DESC`

	rows, err := r.db.Query(query, businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying periods for business %s: %v", ErrDatabaseError, businessID, err)
	}
	defer rows.Close()

	periods := []models.Period{}
	for rows.Next() {
		var p models.Period
		if err := scanPeriod(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning period: %v", ErrDatabaseError, err)
		}
		periods = append(periods, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating period rows: %v", ErrDatabaseError, err)
	}
	return periods, nil
}

// CountOverlapping counts periods intersecting the given inclusive range.
func (r *periodRepository) CountOverlapping(businessID uuid.UUID, startDate, endDate string, excludeID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM periods
	          WHERE business_id = $1 AND start_date <= $3 AND end_date >= $2 AND id <> $4`

	var count int
	err := r.db.QueryRow(query, businessID, startDate, endDate, excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting overlapping periods for business %s: %v", ErrDatabaseError, businessID, err)
	}
	return count, nil
}

// UpdatePeriod updates name, dates, status and pinned flag.
func (r *periodRepository) UpdatePeriod(executor SQLExecutor, period *models.Period) error {
	query := `UPDATE periods SET name = $1, start_date = $2, end_date = $3, status = $4, is_pinned = $5, updated_at = $6
	          WHERE id = $7`

	period.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		period.Name, period.StartDate, period.EndDate, period.Status, period.IsPinned,
		period.UpdatedAt, period.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating period ID %s: %v", ErrDatabaseError, period.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating period ID %s: %v", ErrDatabaseError, period.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePeriod removes the period row itself. Cleaning up the ledger rows in
// its date range is the service's job, inside the same transaction.
func (r *periodRepository) DeletePeriod(executor SQLExecutor, id uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting period ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting period ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
