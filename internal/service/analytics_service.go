package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/util"
)

// Trend window bounds for the monthly trend endpoint
const (
	DefaultTrendMonths = 12
	MaxTrendMonths     = 60
)

var hundred = decimal.NewFromInt(100)

// AnalyticsService derives spending summaries from raw expenses. Aggregates
// are computed on every read and never persisted, so they cannot drift from
// the expense rows they summarize.
type AnalyticsService struct {
	expenseRepo domain.ExpenseRepository
	budgetRepo  domain.BudgetRepository
	now         func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(expenseRepo domain.ExpenseRepository, budgetRepo domain.BudgetRepository) *AnalyticsService {
	return &AnalyticsService{
		expenseRepo: expenseRepo,
		budgetRepo:  budgetRepo,
		now:         time.Now,
	}
}

// Summary is the combined spend overview for a trailing months window
type Summary struct {
	Total        decimal.Decimal             `json:"total"`
	Count        int                         `json:"count"`
	CurrentMonth decimal.Decimal             `json:"currentMonth"`
	ByCategory   []*domain.CategoryAggregate `json:"byCategory"`
	MonthlyTrend []domain.MonthlyTotal       `json:"monthlyTrend"`
}

// SummarizeByCategory groups the owner's expenses by category within the
// optional window. Categories appear in the order they are first encountered
// scanning expenses by date; categories with no expenses are omitted.
// Percentage is each category's share of the grand total, 0 when the grand
// total is zero.
func (s *AnalyticsService) SummarizeByCategory(ownerID int32, filters *domain.ExpenseFilters) ([]*domain.CategoryAggregate, decimal.Decimal, error) {
	if filters != nil && filters.Category != nil && !filters.Category.IsValid() {
		return nil, decimal.Zero, domain.ErrInvalidCategory
	}

	expenses, err := s.expenseRepo.GetByOwner(ownerID, filters)
	if err != nil {
		return nil, decimal.Zero, err
	}

	var order []domain.Category
	byCategory := make(map[domain.Category]*domain.CategoryAggregate)
	grandTotal := decimal.Zero

	for _, e := range expenses {
		agg, ok := byCategory[e.Category]
		if !ok {
			agg = &domain.CategoryAggregate{
				Category: e.Category,
				Total:    decimal.Zero,
			}
			byCategory[e.Category] = agg
			order = append(order, e.Category)
		}
		agg.Total = agg.Total.Add(e.Amount)
		agg.Count++
		grandTotal = grandTotal.Add(e.Amount)
	}

	result := make([]*domain.CategoryAggregate, 0, len(order))
	for _, category := range order {
		agg := byCategory[category]
		if grandTotal.IsPositive() {
			agg.Percentage = agg.Total.Div(grandTotal).Mul(hundred)
		} else {
			agg.Percentage = decimal.Zero
		}
		result = append(result, agg)
	}

	return result, grandTotal, nil
}

// Summarize returns the combined overview for the trailing months window:
// grand total, expense count, current calendar month's spend, per-category
// breakdown, and the zero-filled monthly trend. months outside [1,
// MaxTrendMonths] falls back to the default, same as MonthlyTrend.
func (s *AnalyticsService) Summarize(ownerID int32, months int) (*Summary, error) {
	if months < 1 || months > MaxTrendMonths {
		months = DefaultTrendMonths
	}

	windowStart := util.AddMonths(s.now(), -(months - 1))
	filters := &domain.ExpenseFilters{StartDate: &windowStart}

	aggregates, grandTotal, err := s.SummarizeByCategory(ownerID, filters)
	if err != nil {
		return nil, err
	}

	count := 0
	for _, agg := range aggregates {
		count += agg.Count
	}

	trend, err := s.MonthlyTrend(ownerID, months)
	if err != nil {
		return nil, err
	}

	// The trend window ends at the current month, so its last point is the
	// current month's spend.
	currentMonth := trend[len(trend)-1].Total

	return &Summary{
		Total:        grandTotal,
		Count:        count,
		CurrentMonth: currentMonth,
		ByCategory:   aggregates,
		MonthlyTrend: trend,
	}, nil
}

// MonthlyTrend returns one total per calendar month for exactly the trailing
// months window, oldest first. Months with no expenses carry a zero total so
// the series never has gaps. months is clamped to [1, MaxTrendMonths] by the
// handler; values outside that range here fall back to the default.
func (s *AnalyticsService) MonthlyTrend(ownerID int32, months int) ([]domain.MonthlyTotal, error) {
	if months < 1 || months > MaxTrendMonths {
		months = DefaultTrendMonths
	}

	now := s.now()
	windowStart := util.AddMonths(now, -(months - 1))
	filters := &domain.ExpenseFilters{StartDate: &windowStart}

	expenses, err := s.expenseRepo.GetByOwner(ownerID, filters)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		label := util.MonthLabel(e.Date)
		totals[label] = totals[label].Add(e.Amount)
	}

	trend := make([]domain.MonthlyTotal, 0, months)
	for _, month := range util.TrailingMonths(now, months) {
		label := util.MonthLabel(month)
		total, ok := totals[label]
		if !ok {
			total = decimal.Zero
		}
		trend = append(trend, domain.MonthlyTotal{Month: label, Total: total})
	}

	return trend, nil
}

// BudgetStatuses evaluates every budget of the owner against the current
// calendar month's spend in that category. Budgets with no spend this month
// still appear, as safe with zero spent.
func (s *AnalyticsService) BudgetStatuses(ownerID int32) ([]*domain.BudgetStatus, error) {
	budgets, err := s.budgetRepo.GetAllByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []*domain.BudgetStatus{}, nil
	}

	now := s.now()
	monthStart := util.MonthStart(now)
	filters := &domain.ExpenseFilters{StartDate: &monthStart}

	expenses, err := s.expenseRepo.GetByOwner(ownerID, filters)
	if err != nil {
		return nil, err
	}

	spentByCategory := make(map[domain.Category]decimal.Decimal)
	for _, e := range expenses {
		spentByCategory[e.Category] = spentByCategory[e.Category].Add(e.Amount)
	}

	statuses := make([]*domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[b.Category]
		statuses = append(statuses, &domain.BudgetStatus{
			Category:   b.Category,
			Spent:      spent,
			Limit:      b.MonthlyLimit,
			Percentage: spent.Div(b.MonthlyLimit).Mul(hundred),
			Status:     domain.ClassifyBudgetStatus(spent, b.MonthlyLimit),
		})
	}

	return statuses, nil
}
