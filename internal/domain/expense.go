package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxExpenseAmount is the upper bound for a single expense amount
var MaxExpenseAmount = decimal.NewFromInt(1_000_000)

// Validation constants
const (
	MaxDescriptionLength = 500
)

type Expense struct {
	ID          int32           `json:"id"`
	OwnerID     int32           `json:"ownerId"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description *string         `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	ReceiptRef  *string         `json:"receiptRef,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ExpenseFilters narrows an owner's expense query to a window and/or category
type ExpenseFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  *Category
}

type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(ownerID int32, id int32) (*Expense, error)
	GetByOwner(ownerID int32, filters *ExpenseFilters) ([]*Expense, error)
	Update(expense *Expense) (*Expense, error)
	Delete(ownerID int32, id int32) error
	SetReceiptRef(ownerID int32, id int32, receiptRef string) (*Expense, error)
}
