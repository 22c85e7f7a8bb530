package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// IsValid reports whether f is a supported frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

type RecurringExpense struct {
	ID            int32           `json:"id"`
	OwnerID       int32           `json:"ownerId"`
	Amount        decimal.Decimal `json:"amount"`
	Category      Category        `json:"category"`
	Description   *string         `json:"description,omitempty"`
	Frequency     Frequency       `json:"frequency"`
	IsActive      bool            `json:"isActive"`
	LastGenerated *time.Time      `json:"lastGenerated,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type RecurringRepository interface {
	Create(re *RecurringExpense) (*RecurringExpense, error)
	GetByID(ownerID int32, id int32) (*RecurringExpense, error)
	GetByOwner(ownerID int32) ([]*RecurringExpense, error)
	ListActive() ([]*RecurringExpense, error)
	Update(re *RecurringExpense) (*RecurringExpense, error)
	Delete(ownerID int32, id int32) error
	MarkGenerated(id int32, at time.Time) error
}
