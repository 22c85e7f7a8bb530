package service

import (
	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/websocket"
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo     domain.BudgetRepository
	eventPublisher websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository) *BudgetService {
	return &BudgetService{budgetRepo: budgetRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *BudgetService) publishEvent(ownerID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// CreateBudget creates a monthly budget for a category. At most one budget
// may exist per (owner, category) pair.
func (s *BudgetService) CreateBudget(ownerID int32, category domain.Category, limit decimal.Decimal) (*domain.Budget, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if limit.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidLimit
	}

	budget := &domain.Budget{
		OwnerID:      ownerID,
		Category:     category,
		MonthlyLimit: limit,
	}

	created, err := s.budgetRepo.Create(budget)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.BudgetCreated(created))
	return created, nil
}

// GetBudget retrieves the owner's budget for a category
func (s *BudgetService) GetBudget(ownerID int32, category domain.Category) (*domain.Budget, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	return s.budgetRepo.GetByCategory(ownerID, category)
}

// ListBudgets retrieves all budgets for the owner
func (s *BudgetService) ListBudgets(ownerID int32) ([]*domain.Budget, error) {
	return s.budgetRepo.GetAllByOwner(ownerID)
}

// UpdateBudget replaces the monthly limit on a category budget
func (s *BudgetService) UpdateBudget(ownerID int32, category domain.Category, limit decimal.Decimal) (*domain.Budget, error) {
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if limit.LessThanOrEqual(decimal.Zero) {
		return nil, domain.ErrInvalidLimit
	}

	updated, err := s.budgetRepo.UpdateLimit(ownerID, category, limit)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.BudgetUpdated(updated))
	return updated, nil
}

// DeleteBudget removes the owner's budget for a category
func (s *BudgetService) DeleteBudget(ownerID int32, category domain.Category) error {
	if !category.IsValid() {
		return domain.ErrInvalidCategory
	}

	budget, err := s.budgetRepo.GetByCategory(ownerID, category)
	if err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(ownerID, category); err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.BudgetDeleted(budget))
	return nil
}
