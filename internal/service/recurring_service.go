package service

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/util"
	"github.com/outgo-app/outgo-backend/internal/websocket"
)

// RecurringService handles recurring expense templates and the generation
// pass that materializes expenses from them
type RecurringService struct {
	recurringRepo  domain.RecurringRepository
	expenseRepo    domain.ExpenseRepository
	eventPublisher websocket.EventPublisher
	now            func() time.Time
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(recurringRepo domain.RecurringRepository, expenseRepo domain.ExpenseRepository) *RecurringService {
	return &RecurringService{
		recurringRepo: recurringRepo,
		expenseRepo:   expenseRepo,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *RecurringService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvent publishes a WebSocket event if a publisher is configured
func (s *RecurringService) publishEvent(ownerID int32, event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(ownerID, event)
	}
}

// RecurringInput holds the input for creating or updating a recurring expense
type RecurringInput struct {
	Amount      decimal.Decimal
	Category    domain.Category
	Description *string
	Frequency   domain.Frequency
	IsActive    bool
}

func validateRecurringInput(input RecurringInput) error {
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
	if !input.Frequency.IsValid() {
		return domain.ErrInvalidFrequency
	}
	return nil
}

// CreateRecurring creates a new recurring expense template
func (s *RecurringService) CreateRecurring(ownerID int32, input RecurringInput) (*domain.RecurringExpense, error) {
	if err := validateRecurringInput(input); err != nil {
		return nil, err
	}

	re := &domain.RecurringExpense{
		OwnerID:     ownerID,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Frequency:   input.Frequency,
		IsActive:    input.IsActive,
	}

	created, err := s.recurringRepo.Create(re)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.RecurringCreated(created))
	return created, nil
}

// GetRecurring retrieves a recurring expense by ID
func (s *RecurringService) GetRecurring(ownerID int32, id int32) (*domain.RecurringExpense, error) {
	return s.recurringRepo.GetByID(ownerID, id)
}

// ListRecurring retrieves all recurring expenses for the owner
func (s *RecurringService) ListRecurring(ownerID int32) ([]*domain.RecurringExpense, error) {
	return s.recurringRepo.GetByOwner(ownerID)
}

// UpdateRecurring replaces a recurring expense's mutable fields
func (s *RecurringService) UpdateRecurring(ownerID int32, id int32, input RecurringInput) (*domain.RecurringExpense, error) {
	if err := validateRecurringInput(input); err != nil {
		return nil, err
	}

	existing, err := s.recurringRepo.GetByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	existing.Amount = input.Amount
	existing.Category = input.Category
	existing.Description = input.Description
	existing.Frequency = input.Frequency
	existing.IsActive = input.IsActive

	updated, err := s.recurringRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ownerID, websocket.RecurringUpdated(updated))
	return updated, nil
}

// DeleteRecurring removes a recurring expense template
func (s *RecurringService) DeleteRecurring(ownerID int32, id int32) error {
	re, err := s.recurringRepo.GetByID(ownerID, id)
	if err != nil {
		return err
	}

	if err := s.recurringRepo.Delete(ownerID, id); err != nil {
		return err
	}

	s.publishEvent(ownerID, websocket.RecurringDeleted(re))
	return nil
}

// ProcessResult summarizes one generation pass
type ProcessResult struct {
	Processed int `json:"processed"`
	Generated int `json:"generated"`
}

// ProcessDue walks all active templates across owners and materializes an
// expense for each one that is due. A template is due when it has never
// generated, or when at least one full period has elapsed since the last
// generation. Errors on individual templates are logged and skipped so one
// bad row cannot stall the pass.
func (s *RecurringService) ProcessDue() (*ProcessResult, error) {
	templates, err := s.recurringRepo.ListActive()
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &ProcessResult{Processed: len(templates)}

	for _, re := range templates {
		if !isDue(re, now) {
			continue
		}

		expense := &domain.Expense{
			OwnerID:     re.OwnerID,
			Amount:      re.Amount,
			Category:    re.Category,
			Description: re.Description,
			Date:        now,
		}

		created, err := s.expenseRepo.Create(expense)
		if err != nil {
			log.Error().
				Err(err).
				Int32("recurring_id", re.ID).
				Int32("owner_id", re.OwnerID).
				Msg("Failed to generate expense from recurring template")
			continue
		}

		if err := s.recurringRepo.MarkGenerated(re.ID, now); err != nil {
			log.Error().
				Err(err).
				Int32("recurring_id", re.ID).
				Msg("Failed to mark recurring template as generated")
			continue
		}

		result.Generated++
		s.publishEvent(re.OwnerID, websocket.RecurringGenerated(created))
	}

	return result, nil
}

// isDue reports whether a template should generate an expense at now
func isDue(re *domain.RecurringExpense, now time.Time) bool {
	if re.LastGenerated == nil {
		return true
	}
	last := *re.LastGenerated

	switch re.Frequency {
	case domain.FrequencyDaily:
		return now.Sub(last) >= 24*time.Hour
	case domain.FrequencyWeekly:
		return now.Sub(last) >= 7*24*time.Hour
	case domain.FrequencyMonthly:
		return !util.SameCalendarMonth(last, now) && now.After(last)
	case domain.FrequencyYearly:
		return now.Year() > last.Year()
	}
	return false
}
