package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/websocket"
)

// ExpenseService handles expense business logic
type ExpenseService struct {
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *ExpenseService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *ExpenseService) publishEvent(ownerID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// ExpenseInput holds the input for creating or updating an expense
type ExpenseInput struct {
	Amount      decimal.Decimal
	Category    domain.Category
	Description *string
	Date        time.Time
}

// validateExpenseInput applies the shared create/update validation rules
func (s *ExpenseService) validateExpenseInput(input ExpenseInput) error {
	if !input.Category.IsValid() {
		return domain.ErrInvalidCategory
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if input.Amount.GreaterThan(domain.MaxExpenseAmount) {
		return domain.ErrAmountTooLarge
	}
	if input.Description != nil && len(*input.Description) > domain.MaxDescriptionLength {
		return domain.ErrDescriptionTooLong
	}
	if input.Date.After(s.now()) {
		return domain.ErrDateInFuture
	}
	return nil
}

// CreateExpense creates a new expense for the owner
func (s *ExpenseService) CreateExpense(ownerID int32, input ExpenseInput) (*domain.Expense, error) {
	if err := s.validateExpenseInput(input); err != nil {
		return nil, err
	}

	expense := &domain.Expense{
		OwnerID:     ownerID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.ExpenseCreated(created))
	return created, nil
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(ownerID int32, id int32) (*domain.Expense, error) {
	return s.expenseRepo.GetByID(ownerID, id)
}

// ListExpenses retrieves the owner's expenses, optionally filtered by date
// window and category
func (s *ExpenseService) ListExpenses(ownerID int32, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	if filters != nil && filters.Category != nil && !filters.Category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	return s.expenseRepo.GetByOwner(ownerID, filters)
}

// UpdateExpense replaces an expense's mutable fields
func (s *ExpenseService) UpdateExpense(ownerID int32, id int32, input ExpenseInput) (*domain.Expense, error) {
	if err := s.validateExpenseInput(input); err != nil {
		return nil, err
	}

	// Verify the expense exists and belongs to the owner
	existing, err := s.expenseRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	existing.Amount = input.Amount
	existing.Category = input.Category
	existing.Description = input.Description
	existing.Date = input.Date

	updated, err := s.expenseRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.ExpenseUpdated(updated))
	return updated, nil
}

// DeleteExpense removes an expense
func (s *ExpenseService) DeleteExpense(ownerID int32, id int32) error {
	expense, err := s.expenseRepo.GetByID(ownerID, id)
	if err != nil {
		return err
	}

	if err := s.expenseRepo.Delete(ownerID, id); err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.ExpenseDeleted(expense))
	return nil
}
