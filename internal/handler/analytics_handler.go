package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/middleware"
	"github.com/outgo-app/outgo-backend/internal/service"
)

// AnalyticsHandler handles analytics HTTP requests
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// CategoryAggregateResponse represents one category's summary
type CategoryAggregateResponse struct {
	Category   string `json:"category"`
	Total      string `json:"total"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// SummaryResponse represents the combined overview
type SummaryResponse struct {
	Total        string                      `json:"total"`
	Count        int                         `json:"count"`
	CurrentMonth string                      `json:"currentMonth"`
	ByCategory   []CategoryAggregateResponse `json:"byCategory"`
	MonthlyTrend []MonthlyTotalResponse      `json:"monthlyTrend"`
}

// MonthlyTotalResponse is one point on the monthly trend line
type MonthlyTotalResponse struct {
	Month string `json:"month"`
	Total string `json:"total"`
}

// BudgetStatusResponse represents one budget's evaluated state
type BudgetStatusResponse struct {
	Category   string `json:"category"`
	Spent      string `json:"spent"`
	Limit      string `json:"limit"`
	Percentage string `json:"percentage"`
	Status     string `json:"status"`
}

func toCategoryAggregateResponses(aggregates []*domain.CategoryAggregate) []CategoryAggregateResponse {
	result := make([]CategoryAggregateResponse, 0, len(aggregates))
	for _, agg := range aggregates {
		result = append(result, CategoryAggregateResponse{
			Category:   string(agg.Category),
			Total:      agg.Total.StringFixed(2),
			Count:      agg.Count,
			Percentage: agg.Percentage.StringFixed(2),
		})
	}
	return result
}

// GetSummary godoc
// @Summary Spend summary
// @Description Grand total, expense count, current-month spend, per-category breakdown, and monthly trend for the trailing months window
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of trailing months (1-60, default 12)"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ProblemDetails
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	months := service.DefaultTrendMonths
	if v := c.QueryParam("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > service.MaxTrendMonths {
			return NewValidationError(c, "Invalid months", []ValidationError{
				{Field: "months", Message: "Must be an integer between 1 and 60"},
			})
		}
		months = parsed
	}

	summary, err := h.analyticsService.Summarize(userID, months)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to compute summary")
		return NewInternalError(c, "Failed to compute summary")
	}

	trend := make([]MonthlyTotalResponse, 0, len(summary.MonthlyTrend))
	for _, point := range summary.MonthlyTrend {
		trend = append(trend, MonthlyTotalResponse{
			Month: point.Month,
			Total: point.Total.StringFixed(2),
		})
	}

	return c.JSON(http.StatusOK, SummaryResponse{
		Total:        summary.Total.StringFixed(2),
		Count:        summary.Count,
		CurrentMonth: summary.CurrentMonth.StringFixed(2),
		ByCategory:   toCategoryAggregateResponses(summary.ByCategory),
		MonthlyTrend: trend,
	})
}

// GetByCategory godoc
// @Summary Spend by category
// @Description Per-category totals, counts, and percentage shares for an optional window
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Window start (inclusive)"
// @Param end_date query string false "Window end (inclusive)"
// @Success 200 {array} CategoryAggregateResponse
// @Failure 400 {object} ProblemDetails
// @Router /analytics/by-category [get]
func (h *AnalyticsHandler) GetByCategory(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, errs := parseFilters(c)
	if errs != nil {
		return NewValidationError(c, "Invalid filters", errs)
	}

	aggregates, _, err := h.analyticsService.SummarizeByCategory(userID, filters)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to compute category breakdown")
		return NewInternalError(c, "Failed to compute category breakdown")
	}

	return c.JSON(http.StatusOK, toCategoryAggregateResponses(aggregates))
}

// GetByMonth godoc
// @Summary Monthly spend trend
// @Description Per-month totals for the trailing window, oldest first, with zero-filled gaps
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Param months query int false "Number of trailing months (1-60, default 12)"
// @Success 200 {array} MonthlyTotalResponse
// @Failure 400 {object} ProblemDetails
// @Router /analytics/by-month [get]
func (h *AnalyticsHandler) GetByMonth(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	months := service.DefaultTrendMonths
	if v := c.QueryParam("months"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > service.MaxTrendMonths {
			return NewValidationError(c, "Invalid months", []ValidationError{
				{Field: "months", Message: "Must be an integer between 1 and 60"},
			})
		}
		months = parsed
	}

	trend, err := h.analyticsService.MonthlyTrend(userID, months)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to compute monthly trend")
		return NewInternalError(c, "Failed to compute monthly trend")
	}

	result := make([]MonthlyTotalResponse, 0, len(trend))
	for _, point := range trend {
		result = append(result, MonthlyTotalResponse{
			Month: point.Month,
			Total: point.Total.StringFixed(2),
		})
	}
	return c.JSON(http.StatusOK, result)
}

// GetBudgetStatus godoc
// @Summary Budget status
// @Description Every budget evaluated against the current calendar month's spend
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {array} BudgetStatusResponse
// @Router /analytics/budget-status [get]
func (h *AnalyticsHandler) GetBudgetStatus(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	statuses, err := h.analyticsService.BudgetStatuses(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to compute budget status")
		return NewInternalError(c, "Failed to compute budget status")
	}

	result := make([]BudgetStatusResponse, 0, len(statuses))
	for _, s := range statuses {
		result = append(result, BudgetStatusResponse{
			Category:   string(s.Category),
			Spent:      s.Spent.StringFixed(2),
			Limit:      s.Limit.StringFixed(2),
			Percentage: s.Percentage.StringFixed(2),
			Status:     string(s.Status),
		})
	}
	return c.JSON(http.StatusOK, result)
}
