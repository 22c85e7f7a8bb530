package domain

import "github.com/shopspring/decimal"

// CategoryAggregate is the spend summary for one category within a window.
// Derived on read, never persisted.
type CategoryAggregate struct {
	Category   Category        `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Count      int             `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthlyTotal is one point on the monthly trend line.
// Month is a calendar-month label in YYYY-MM form.
type MonthlyTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// BudgetStatusLevel is the three-level classification of spend against a budget
type BudgetStatusLevel string

const (
	BudgetStatusSafe    BudgetStatusLevel = "safe"
	BudgetStatusWarning BudgetStatusLevel = "warning"
	BudgetStatusOver    BudgetStatusLevel = "over"
)

// BudgetWarningRatio is the fraction of the limit at which a budget enters
// warning. Fixed policy, not configurable.
var BudgetWarningRatio = decimal.NewFromFloat(0.8)

// BudgetStatus is the evaluated state of one budget for the current month
type BudgetStatus struct {
	Category   Category          `json:"category"`
	Spent      decimal.Decimal   `json:"spent"`
	Limit      decimal.Decimal   `json:"limit"`
	Percentage decimal.Decimal   `json:"percentage"`
	Status     BudgetStatusLevel `json:"status"`
}

// ClassifyBudgetStatus classifies spend against a limit. The limit is
// guaranteed positive by the Budget entity invariant.
//
//	spent >= limit       -> over
//	spent >= 0.8 * limit -> warning
//	otherwise            -> safe
func ClassifyBudgetStatus(spent, limit decimal.Decimal) BudgetStatusLevel {
	if spent.GreaterThanOrEqual(limit) {
		return BudgetStatusOver
	}
	if spent.GreaterThanOrEqual(limit.Mul(BudgetWarningRatio)) {
		return BudgetStatusWarning
	}
	return BudgetStatusSafe
}
