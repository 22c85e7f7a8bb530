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

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the create request body
type CreateBudgetRequest struct {
	Category     string `json:"category"`
	MonthlyLimit string `json:"monthlyLimit"`
}

// UpdateBudgetRequest represents the update request body
type UpdateBudgetRequest struct {
	MonthlyLimit string `json:"monthlyLimit"`
}

// BudgetResponse represents a budget in API responses
type BudgetResponse struct {
	ID           int32  `json:"id"`
	Category     string `json:"category"`
	MonthlyLimit string `json:"monthlyLimit"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toBudgetResponse(b *domain.Budget) BudgetResponse {
	return BudgetResponse{
		ID:           b.ID,
		Category:     string(b.Category),
		MonthlyLimit: b.MonthlyLimit.StringFixed(2),
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.Format(time.RFC3339),
	}
}

// CreateBudget godoc
// @Summary Create a budget
// @Description Set a monthly spending limit for a category; one budget per category
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "Budget"
// @Success 201 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	limit, err := decimal.NewFromString(req.MonthlyLimit)
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "monthlyLimit", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.CreateBudget(userID, domain.Category(req.Category), limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCategory):
			return NewValidationError(c, "Invalid category", []ValidationError{
				{Field: "category", Message: "Unknown category"},
			})
		case errors.Is(err, domain.ErrInvalidLimit):
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "monthlyLimit", Message: "Limit must be positive"},
			})
		case errors.Is(err, domain.ErrBudgetAlreadyExists):
			return NewConflictError(c, "A budget already exists for this category")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create budget")
		return NewInternalError(c, "Failed to create budget")
	}

	return c.JSON(http.StatusCreated, toBudgetResponse(budget))
}

// ListBudgets godoc
// @Summary List budgets
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetResponse
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgets, err := h.budgetService.ListBudgets(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list budgets")
		return NewInternalError(c, "Failed to list budgets")
	}

	result := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		result = append(result, toBudgetResponse(b))
	}
	return c.JSON(http.StatusOK, result)
}

// GetBudget godoc
// @Summary Get a budget
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param category path string true "Category"
// @Success 200 {object} BudgetResponse
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{category} [get]
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budget, err := h.budgetService.GetBudget(userID, domain.Category(c.Param("category")))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCategory):
			return NewValidationError(c, "Invalid category", nil)
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// UpdateBudget godoc
// @Summary Update a budget
// @Description Replace the monthly limit for a category budget
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category path string true "Category"
// @Param request body UpdateBudgetRequest true "Budget update"
// @Success 200 {object} BudgetResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{category} [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	limit, err := decimal.NewFromString(req.MonthlyLimit)
	if err != nil {
		return NewValidationError(c, "Invalid limit", []ValidationError{
			{Field: "monthlyLimit", Message: "Must be a valid decimal number"},
		})
	}

	budget, err := h.budgetService.UpdateBudget(userID, domain.Category(c.Param("category")), limit)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCategory):
			return NewValidationError(c, "Invalid category", nil)
		case errors.Is(err, domain.ErrInvalidLimit):
			return NewValidationError(c, "Invalid limit", []ValidationError{
				{Field: "monthlyLimit", Message: "Limit must be positive"},
			})
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to update budget")
		return NewInternalError(c, "Failed to update budget")
	}

	return c.JSON(http.StatusOK, toBudgetResponse(budget))
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budgets
// @Security BearerAuth
// @Param category path string true "Category"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /budgets/{category} [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	err := h.budgetService.DeleteBudget(userID, domain.Category(c.Param("category")))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCategory):
			return NewValidationError(c, "Invalid category", nil)
		case errors.Is(err, domain.ErrBudgetNotFound):
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to delete budget")
		return NewInternalError(c, "Failed to delete budget")
	}

	return c.NoContent(http.StatusNoContent)
}
