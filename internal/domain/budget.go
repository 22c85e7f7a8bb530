package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a per-category monthly spending ceiling.
// At most one budget exists per (owner, category) pair.
type Budget struct {
	ID           int32           `json:"id"`
	OwnerID      int32           `json:"ownerId"`
	Category     Category        `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type BudgetRepository interface {
	Create(budget *Budget) (*Budget, error)
	GetByCategory(ownerID int32, category Category) (*Budget, error)
	GetAllByOwner(ownerID int32) ([]*Budget, error)
	UpdateLimit(ownerID int32, category Category, limit decimal.Decimal) (*Budget, error)
	Delete(ownerID int32, category Category) error
}
