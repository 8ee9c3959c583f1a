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

// ClosureRepository defines the interface for daily closure database
// operations. A closure is unique per (business, user, date); saves upsert on
// that key and replace the expense list wholesale.
type ClosureRepository interface {
	// GetClosures returns the full unfiltered set for the (user, business)
	// scope, expenses included. Range filtering is the aggregator's job.
	GetClosures(userID, businessID uuid.UUID) ([]models.DailyClosure, error)
	GetClosureByDate(userID, businessID uuid.UUID, date string) (*models.DailyClosure, error)
	// UpsertClosure inserts or updates the closure for its (business, user,
	// date) key and replaces its expense rows. Callers pass a *sql.Tx so the
	// closure and its expenses change atomically.
	UpsertClosure(executor SQLExecutor, closure *models.DailyClosure) (uuid.UUID, error)
	// DeleteClosuresInRange removes all closures (and their expenses, via
	// cascade) of a business dated within [startDate, endDate] inclusive.
	DeleteClosuresInRange(executor SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error)
}

type closureRepository struct {
	db *sql.DB
}

// NewClosureRepository creates a new instance of ClosureRepository.
func NewClosureRepository(db *sql.DB) ClosureRepository {
	return &closureRepository{db: db}
}

func scanClosure(row interface{ Scan(...interface{}) error }, c *models.DailyClosure) error {
	var date time.Time
	if err := row.Scan(&c.ID, &c.BusinessID, &c.UserID, &date, &c.SaleTotal, &c.PrizesPaid,
		&c.CommissionPercentage, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return err
	}
	c.Date = date.Format(dateLayout)
	return nil
}

const closureColumns = `id, business_id, user_id, date, sale_total, prizes_paid, commission_percentage, created_at, updated_at`

// GetClosures retrieves every closure for the scope, oldest first.
func (r *closureRepository) GetClosures(userID, businessID uuid.UUID) ([]models.DailyClosure, error) {
	query := `SELECT ` + closureColumns + ` FROM daily_closures
	          WHERE user_id = $1 AND business_id = $2 ORDER BY date ASC`

	rows, err := r.db.Query(query, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying closures for user %s business %s: %v", ErrDatabaseError, userID, businessID, err)
	}
	defer rows.Close()

	closures := []models.DailyClosure{}
	for rows.Next() {
		var c models.DailyClosure
		if err := scanClosure(rows, &c); err != nil {
			return nil, fmt.Errorf("%w: scanning closure: %v", ErrDatabaseError, err)
		}
		c.Expenses = []models.Expense{}
		closures = append(closures, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating closure rows: %v", ErrDatabaseError, err)
	}

	if err := r.attachExpenses(closures); err != nil {
		return nil, err
	}
	return closures, nil
}

// GetClosureByDate retrieves one closure with its expenses.
func (r *closureRepository) GetClosureByDate(userID, businessID uuid.UUID, date string) (*models.DailyClosure, error) {
	closure := &models.DailyClosure{}
	query := `SELECT ` + closureColumns + ` FROM daily_closures
	          WHERE user_id = $1 AND business_id = $2 AND date = $3`

	err := scanClosure(r.db.QueryRow(query, userID, businessID, date), closure)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting closure for user %s on %s: %v", ErrDatabaseError, userID, date, err)
	}

	closure.Expenses = []models.Expense{}
	list := []models.DailyClosure{*closure}
	if err := r.attachExpenses(list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// attachExpenses loads the expense rows for a batch of closures in one query.
func (r *closureRepository) attachExpenses(closures []models.DailyClosure) error {
	if len(closures) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(closures))
	index := make(map[uuid.UUID]int, len(closures))
	for i, c := range closures {
		ids = append(ids, c.ID)
		index[c.ID] = i
	}

	query := `SELECT id, closure_id, description, amount, created_at
	          FROM expenses WHERE closure_id = ANY($1) ORDER BY created_at ASC`
	rows, err := r.db.Query(query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: querying expenses: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.ClosureID, &e.Description, &e.Amount, &e.CreatedAt); err != nil {
			return fmt.Errorf("%w: scanning expense: %v", ErrDatabaseError, err)
		}
		if i, ok := index[e.ClosureID]; ok {
			closures[i].Expenses = append(closures[i].Expenses, e)
		}
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating expense rows: %v", ErrDatabaseError, err)
	}
	return nil
}

// UpsertClosure writes the closure and replaces its expenses.
func (r *closureRepository) UpsertClosure(executor SQLExecutor, closure *models.DailyClosure) (uuid.UUID, error) {
	query := `INSERT INTO daily_closures (id, business_id, user_id, date, sale_total, prizes_paid, commission_percentage, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (business_id, user_id, date) DO UPDATE SET
	              sale_total = EXCLUDED.sale_total,
	              prizes_paid = EXCLUDED.prizes_paid,
	              commission_percentage = EXCLUDED.commission_percentage,
	              updated_at = EXCLUDED.updated_at
	          RETURNING id`

	if closure.ID == uuid.Nil {
		closure.ID = uuid.New()
	}
	currentTime := time.Now()
	if closure.CreatedAt.IsZero() {
		closure.CreatedAt = currentTime
	}
	closure.UpdatedAt = currentTime

	var closureID uuid.UUID
	err := executor.QueryRow(query,
		closure.ID, closure.BusinessID, closure.UserID, closure.Date,
		closure.SaleTotal, closure.PrizesPaid, closure.CommissionPercentage,
		closure.CreatedAt, closure.UpdatedAt,
	).Scan(&closureID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: upserting closure on %s: %v", ErrDatabaseError, closure.Date, err)
	}
	closure.ID = closureID

	if _, err := executor.Exec(`DELETE FROM expenses WHERE closure_id = $1`, closureID); err != nil {
		return uuid.Nil, fmt.Errorf("%w: clearing expenses for closure %s: %v", ErrDatabaseError, closureID, err)
	}
	for i := range closure.Expenses {
		exp := &closure.Expenses[i]
		if exp.ID == uuid.Nil {
			exp.ID = uuid.New()
		}
		exp.ClosureID = closureID
		if exp.CreatedAt.IsZero() {
			exp.CreatedAt = currentTime
		}
		_, err := executor.Exec(
			`INSERT INTO expenses (id, closure_id, description, amount, created_at) VALUES ($1, $2, $3, $4, $5)`,
			exp.ID, exp.ClosureID, exp.Description, exp.Amount, exp.CreatedAt,
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: inserting expense for closure %s: %v", ErrDatabaseError, closureID, err)
		}
	}
	return closureID, nil
}

// DeleteClosuresInRange removes a business's closures within the inclusive range.
func (r *closureRepository) DeleteClosuresInRange(executor SQLExecutor, businessID uuid.UUID, startDate, endDate string) (int64, error) {
	result, err := executor.Exec(
		`DELETE FROM daily_closures WHERE business_id = $1 AND date >= $2 AND date <= $3`,
		businessID, startDate, endDate,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting closures for business %s in [%s, %s]: %v", ErrDatabaseError, businessID, startDate, endDate, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for closure range delete: %v", ErrDatabaseError, err)
	}
	return deleted, nil
}
