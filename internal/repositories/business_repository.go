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

// BusinessRepository defines the interface for business database operations.
type BusinessRepository interface {
	CreateBusiness(executor SQLExecutor, business *models.Business) (uuid.UUID, error)
	GetBusinessByID(id uuid.UUID) (*models.Business, error)
	GetBusinessesByOwner(ownerID uuid.UUID) ([]models.Business, error)
	UpdateBusiness(executor SQLExecutor, business *models.Business) error
	// DeleteBusiness hard-deletes the business row. Dependent periods,
	// closures, expenses, advances and deductions cascade via foreign keys.
	DeleteBusiness(executor SQLExecutor, id uuid.UUID) error
}

type businessRepository struct {
	db *sql.DB
}

// NewBusinessRepository creates a new instance of BusinessRepository.
func NewBusinessRepository(db *sql.DB) BusinessRepository {
	return &businessRepository{db: db}
}

const businessColumns = `id, owner_id, name, active, default_commission, created_at, updated_at`

func scanBusiness(row interface{ Scan(...interface{}) error }, b *models.Business) error {
	return row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Active, &b.DefaultCommission, &b.CreatedAt, &b.UpdatedAt)
}

// CreateBusiness inserts a new business owned by the given user.
func (r *businessRepository) CreateBusiness(executor SQLExecutor, business *models.Business) (uuid.UUID, error) {
	query := `INSERT INTO businesses (id, owner_id, name, active, default_commission, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	if business.ID == uuid.Nil {
		business.ID = uuid.New()
	}
	currentTime := time.Now()
	business.CreatedAt = currentTime
	business.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		business.ID, business.OwnerID, business.Name, business.Active,
		business.DefaultCommission, business.CreatedAt, business.UpdatedAt,
	).Scan(&business.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return uuid.Nil, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return uuid.Nil, fmt.Errorf("%w: creating business: %v", ErrDatabaseError, err)
	}
	return business.ID, nil
}

// GetBusinessByID retrieves a business by its ID.
func (r *businessRepository) GetBusinessByID(id uuid.UUID) (*models.Business, error) {
	business := &models.Business{}
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`

	err := scanBusiness(r.db.QueryRow(query, id), business)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting business by ID %s: %v", ErrDatabaseError, id, err)
	}
	return business, nil
}

// GetBusinessesByOwner retrieves all businesses of one owner, newest first.
// Both active and deactivated businesses are returned; the caller decides
// what to show.
func (r *businessRepository) GetBusinessesByOwner(ownerID uuid.UUID) ([]models.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE owner_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying businesses for owner %s: %v", ErrDatabaseError, ownerID, err)
	}
	defer rows.Close()

	businesses := []models.Business{}
	for rows.Next() {
		var b models.Business
		if err := scanBusiness(rows, &b); err != nil {
			return nil, fmt.Errorf("%w: scanning business: %v", ErrDatabaseError, err)
		}
		businesses = append(businesses, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating business rows: %v", ErrDatabaseError, err)
	}
	return businesses, nil
}

// UpdateBusiness updates name, active flag and default commission.
func (r *businessRepository) UpdateBusiness(executor SQLExecutor, business *models.Business) error {
	query := `UPDATE businesses SET name = $1, active = $2, default_commission = $3, updated_at = $4
	          WHERE id = $5`

	business.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		business.Name, business.Active, business.DefaultCommission, business.UpdatedAt, business.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating business ID %s: %v", ErrDatabaseError, business.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating business ID %s: %v", ErrDatabaseError, business.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBusiness removes a business. Foreign keys cascade to dependent rows.
func (r *businessRepository) DeleteBusiness(executor SQLExecutor, id uuid.UUID) error {
	result, err := executor.Exec(`DELETE FROM businesses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting business ID %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting business ID %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
