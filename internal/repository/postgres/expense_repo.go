package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = "id, owner_id, amount, category, description, date, receipt_ref, created_at, updated_at"

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var e domain.Expense
	var amount pgtype.Numeric
	var description, receiptRef pgtype.Text
	var category string
	if err := row.Scan(&e.ID, &e.OwnerID, &amount, &category, &description, &e.Date, &receiptRef, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := pgNumericToDecimal(amount)
	if err != nil {
		return nil, fmt.Errorf("scan expense amount: %w", err)
	}
	e.Amount = d
	e.Category = domain.Category(category)
	if description.Valid {
		e.Description = &description.String
	}
	if receiptRef.Valid {
		e.ReceiptRef = &receiptRef.String
	}
	return &e, nil
}

// Create inserts a new expense
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (owner_id, amount, category, description, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+expenseColumns,
		expense.OwnerID, amount, string(expense.Category), expense.Description, expense.Date)
	return scanExpense(row)
}

// GetByID retrieves an expense by ID scoped to its owner
func (r *ExpenseRepository) GetByID(ownerID int32, id int32) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE owner_id = $1 AND id = $2`,
		ownerID, id)
	expense, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return expense, nil
}

// GetByOwner retrieves an owner's expenses, optionally narrowed by date window
// and category, ordered by date then insertion order
func (r *ExpenseRepository) GetByOwner(ownerID int32, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	ctx := context.Background()
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE owner_id = $1`
	args := []any{ownerID}
	if filters != nil {
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
		if filters.Category != nil {
			args = append(args, string(*filters.Category))
			query += fmt.Sprintf(" AND category = $%d", len(args))
		}
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, expense)
	}
	return result, rows.Err()
}

// Update updates an expense's mutable fields
func (r *ExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(expense.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(ctx,
		`UPDATE expenses
		 SET amount = $1, category = $2, description = $3, date = $4, updated_at = now()
		 WHERE owner_id = $5 AND id = $6
		 RETURNING `+expenseColumns,
		amount, string(expense.Category), expense.Description, expense.Date, expense.OwnerID, expense.ID)
	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(ownerID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM expenses WHERE owner_id = $1 AND id = $2`, ownerID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetReceiptRef attaches a receipt object reference to an expense
func (r *ExpenseRepository) SetReceiptRef(ownerID int32, id int32, receiptRef string) (*domain.Expense, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`UPDATE expenses SET receipt_ref = $1, updated_at = now()
		 WHERE owner_id = $2 AND id = $3
		 RETURNING `+expenseColumns,
		receiptRef, ownerID, id)
	updated, err := scanExpense(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}
	return updated, nil
}
