package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// RecurringRepository implements domain.RecurringRepository using PostgreSQL
type RecurringRepository struct {
	pool *pgxpool.Pool
}

// NewRecurringRepository creates a new RecurringRepository
func NewRecurringRepository(pool *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{pool: pool}
}

const recurringColumns = "id, owner_id, amount, category, description, frequency, is_active, last_generated, created_at, updated_at"

func scanRecurring(row pgx.Row) (*domain.RecurringExpense, error) {
	var re domain.RecurringExpense
	var amount pgtype.Numeric
	var description pgtype.Text
	var lastGenerated pgtype.Timestamptz
	var category, frequency string
	if err := row.Scan(&re.ID, &re.OwnerID, &amount, &category, &description, &frequency, &re.IsActive, &lastGenerated, &re.CreatedAt, &re.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := pgNumericToDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("scan recurring amount: %w", err)
	}
	re.Amount = d
	re.Category = domain.Category(category)
	re.Frequency = domain.Frequency(frequency)
	if description.Valid {
		re.Description = &description.String
	}
	if lastGenerated.Valid {
		re.LastGenerated = &lastGenerated.Time
	}
	return &re, nil
}

// Create inserts a new recurring expense
func (r *RecurringRepository) Create(re *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(re.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO recurring_expenses (owner_id, amount, category, description, frequency, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+recurringColumns,
		re.OwnerID, amount, string(re.Category), re.Description, string(re.Frequency), re.IsActive)
	return scanRecurring(row)
}

// GetByID retrieves a recurring expense by ID scoped to its owner
func (r *RecurringRepository) GetByID(ownerID int32, id int32) (*domain.RecurringExpense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+recurringColumns+` FROM recurring_expenses WHERE owner_id = $1 AND id = $2`,
		ownerID, id)
	re, err := scanRecurring(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return re, nil
}

// GetByOwner retrieves all recurring expenses for an owner
func (r *RecurringRepository) GetByOwner(ownerID int32) ([]*domain.RecurringExpense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+` FROM recurring_expenses WHERE owner_id = $1 ORDER BY id ASC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// ListActive retrieves all active recurring expenses across owners,
// used by the generation pass
func (r *RecurringRepository) ListActive() ([]*domain.RecurringExpense, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+recurringColumns+` FROM recurring_expenses WHERE is_active ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecurring(rows)
}

func collectRecurring(rows pgx.Rows) ([]*domain.RecurringExpense, error) {
	var result []*domain.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, re)
	}
	return result, rows.Err()
}

// Update updates a recurring expense's mutable fields
func (r *RecurringRepository) Update(re *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(re.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE recurring_expenses
		 SET amount = $1, category = $2, description = $3, frequency = $4, is_active = $5, updated_at = now()
		 WHERE owner_id = $6 AND id = $7
		 RETURNING `+recurringColumns,
		amount, string(re.Category), re.Description, string(re.Frequency), re.IsActive, re.OwnerID, re.ID)
	updated, err := scanRecurring(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a recurring expense
func (r *RecurringRepository) Delete(ownerID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM recurring_expenses WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}

// MarkGenerated records the instant an expense was last generated from the template
func (r *RecurringRepository) MarkGenerated(id int32, at time.Time) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`UPDATE recurring_expenses SET last_generated = $1, updated_at = now() WHERE id = $2`,
		at, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecurringNotFound
	}
	return nil
}
