package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = "id, owner_id, category, monthly_limit, created_at, updated_at"

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var limit pgtype.Numeric
	var category string
	if err := row.Scan(&b.ID, &b.OwnerID, &category, &limit, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := pgNumericToDecimal(limit)
	if err != nil {
		return nil, fmt.Errorf("scan budget limit: %w", err)
	}
	b.MonthlyLimit = d
	b.Category = domain.Category(category)
	return &b, nil
}

// Create inserts a new budget; at most one may exist per (owner, category)
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()
	limit, err := decimalToPgNumeric(budget.MonthlyLimit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO budgets (owner_id, category, monthly_limit)
		 VALUES ($1, $2, $3)
		 RETURNING `+budgetColumns,
		budget.OwnerID, string(budget.Category), limit)
	created, err := scanBudget(row)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, domain.ErrBudgetAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// GetByCategory retrieves an owner's budget for a category
func (r *BudgetRepository) GetByCategory(ownerID int32, category domain.Category) (*domain.Budget, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 AND category = $2`,
		ownerID, string(category))
	budget, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

// GetAllByOwner retrieves all budgets for an owner ordered by category
func (r *BudgetRepository) GetAllByOwner(ownerID int32) ([]*domain.Budget, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE owner_id = $1 ORDER BY category ASC`,
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Budget
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, budget)
	}
	return result, rows.Err()
}

// UpdateLimit replaces the monthly limit of an owner's category budget
func (r *BudgetRepository) UpdateLimit(ownerID int32, category domain.Category, limit decimal.Decimal) (*domain.Budget, error) {
	ctx := context.Background()
	pgLimit, err := decimalToPgNumeric(limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE budgets SET monthly_limit = $1, updated_at = now()
		 WHERE owner_id = $2 AND category = $3
		 RETURNING `+budgetColumns,
		pgLimit, ownerID, string(category))
	updated, err := scanBudget(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an owner's category budget
func (r *BudgetRepository) Delete(ownerID int32, category domain.Category) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budgets WHERE owner_id = $1 AND category = $2`,
		ownerID, string(category))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
