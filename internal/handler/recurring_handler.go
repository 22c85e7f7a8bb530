package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/middleware"
	"github.com/outgo-app/outgo-backend/internal/service"
)

// RecurringHandler handles recurring expense HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// RecurringRequest represents the create/update request body
type RecurringRequest struct {
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Frequency   string  `json:"frequency"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// RecurringResponse represents a recurring expense in API responses
type RecurringResponse struct {
	ID            int32   `json:"id"`
	Amount        string  `json:"amount"`
	Category      string  `json:"category"`
	Description   *string `json:"description,omitempty"`
	Frequency     string  `json:"frequency"`
	IsActive      bool    `json:"isActive"`
	LastGenerated *string `json:"lastGenerated,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

func toRecurringResponse(re *domain.RecurringExpense) RecurringResponse {
	resp := RecurringResponse{
		ID:          re.ID,
		Amount:      re.Amount.StringFixed(2),
		Category:    string(re.Category),
		Description: re.Description,
		Frequency:   string(re.Frequency),
		IsActive:    re.IsActive,
		CreatedAt:   re.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   re.UpdatedAt.Format(time.RFC3339),
	}
	if re.LastGenerated != nil {
		s := re.LastGenerated.Format(time.RFC3339)
		resp.LastGenerated = &s
	}
	return resp
}

func parseRecurringInput(req RecurringRequest) (service.RecurringInput, []ValidationError) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return service.RecurringInput{}, []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		}
	}

	// New templates default to active
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return service.RecurringInput{
		Amount:      amount,
		Category:    domain.Category(req.Category),
		Description: req.Description,
		Frequency:   domain.Frequency(req.Frequency),
		IsActive:    isActive,
	}, nil
}

func recurringErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Invalid category", []ValidationError{
			{Field: "category", Message: "Unknown category"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrAmountTooLarge):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Amount exceeds the maximum of 1,000,000"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Invalid description", []ValidationError{
			{Field: "description", Message: "Description too long"},
		})
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Invalid frequency", []ValidationError{
			{Field: "frequency", Message: "Must be daily, weekly, monthly, or yearly"},
		})
	case errors.Is(err, domain.ErrRecurringNotFound):
		return NewNotFoundError(c, "Recurring expense not found")
	}
	return NewInternalError(c, "Failed to process recurring expense")
}

func isRecurringKnownErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrAmountTooLarge) ||
		errors.Is(err, domain.ErrDescriptionTooLong) ||
		errors.Is(err, domain.ErrInvalidFrequency) ||
		errors.Is(err, domain.ErrRecurringNotFound)
}

// CreateRecurring godoc
// @Summary Create a recurring expense
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecurringRequest true "Recurring expense"
// @Success 201 {object} RecurringResponse
// @Failure 400 {object} ProblemDetails
// @Router /recurring-expenses [post]
func (h *RecurringHandler) CreateRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := parseRecurringInput(req)
	if errs != nil {
		return NewValidationError(c, "Invalid recurring expense", errs)
	}

	re, err := h.recurringService.CreateRecurring(userID, input)
	if err != nil {
		if isRecurringKnownErr(err) {
			return recurringErrorResponse(c, err)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create recurring expense")
		return NewInternalError(c, "Failed to create recurring expense")
	}

	return c.JSON(http.StatusCreated, toRecurringResponse(re))
}

// ListRecurring godoc
// @Summary List recurring expenses
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Success 200 {array} RecurringResponse
// @Router /recurring-expenses [get]
func (h *RecurringHandler) ListRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	templates, err := h.recurringService.ListRecurring(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list recurring expenses")
		return NewInternalError(c, "Failed to list recurring expenses")
	}

	result := make([]RecurringResponse, 0, len(templates))
	for _, re := range templates {
		result = append(result, toRecurringResponse(re))
	}
	return c.JSON(http.StatusOK, result)
}

// GetRecurring godoc
// @Summary Get a recurring expense
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recurring expense ID"
// @Success 200 {object} RecurringResponse
// @Failure 404 {object} ProblemDetails
// @Router /recurring-expenses/{id} [get]
func (h *RecurringHandler) GetRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid recurring expense ID", nil)
	}

	re, err := h.recurringService.GetRecurring(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecurringNotFound) {
			return NewNotFoundError(c, "Recurring expense not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("recurring_id", id).Msg("Failed to get recurring expense")
		return NewInternalError(c, "Failed to get recurring expense")
	}

	return c.JSON(http.StatusOK, toRecurringResponse(re))
}

// UpdateRecurring godoc
// @Summary Update a recurring expense
// @Tags recurring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recurring expense ID"
// @Param request body RecurringRequest true "Recurring expense"
// @Success 200 {object} RecurringResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /recurring-expenses/{id} [put]
func (h *RecurringHandler) UpdateRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid recurring expense ID", nil)
	}

	var req RecurringRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := parseRecurringInput(req)
	if errs != nil {
		return NewValidationError(c, "Invalid recurring expense", errs)
	}

	re, err := h.recurringService.UpdateRecurring(userID, id, input)
	if err != nil {
		if isRecurringKnownErr(err) {
			return recurringErrorResponse(c, err)
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("recurring_id", id).Msg("Failed to update recurring expense")
		return NewInternalError(c, "Failed to update recurring expense")
	}

	return c.JSON(http.StatusOK, toRecurringResponse(re))
}

// DeleteRecurring godoc
// @Summary Delete a recurring expense
// @Tags recurring
// @Security BearerAuth
// @Param id path int true "Recurring expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /recurring-expenses/{id} [delete]
func (h *RecurringHandler) DeleteRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid recurring expense ID", nil)
	}

	if err := h.recurringService.DeleteRecurring(userID, id); err != nil {
		if errors.Is(err, domain.ErrRecurringNotFound) {
			return NewNotFoundError(c, "Recurring expense not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("recurring_id", id).Msg("Failed to delete recurring expense")
		return NewInternalError(c, "Failed to delete recurring expense")
	}

	return c.NoContent(http.StatusNoContent)
}

// ProcessRecurring godoc
// @Summary Process due recurring expenses
// @Description Walk all active templates and materialize expenses for those that are due
// @Tags recurring
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ProcessResult
// @Router /recurring-expenses/process [post]
func (h *RecurringHandler) ProcessRecurring(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	result, err := h.recurringService.ProcessDue()
	if err != nil {
		log.Error().Err(err).Msg("Failed to process recurring expenses")
		return NewInternalError(c, "Failed to process recurring expenses")
	}

	return c.JSON(http.StatusOK, result)
}
