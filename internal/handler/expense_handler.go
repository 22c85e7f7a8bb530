package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/middleware"
	"github.com/outgo-app/outgo-backend/internal/service"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseService *service.ExpenseService
	exportService  *service.ExportService
	receiptService *service.ReceiptService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *service.ExpenseService, exportService *service.ExportService, receiptService *service.ReceiptService) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		exportService:  exportService,
		receiptService: receiptService,
	}
}

// ExpenseRequest represents the create/update request body
type ExpenseRequest struct {
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID          int32   `json:"id"`
	Amount      string  `json:"amount"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	HasReceipt  bool    `json:"hasReceipt"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

// ExpenseListResponse represents the list endpoint response
type ExpenseListResponse struct {
	Items       []ExpenseResponse `json:"items"`
	Total       int               `json:"total"`
	TotalAmount string            `json:"totalAmount"`
}

func toExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		Amount:      e.Amount.StringFixed(2),
		Category:    string(e.Category),
		Description: e.Description,
		Date:        e.Date.Format(time.RFC3339),
		HasReceipt:  e.ReceiptRef != nil,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
	}
}

// parseExpenseInput converts a request body into a service input
func parseExpenseInput(req ExpenseRequest) (service.ExpenseInput, []ValidationError) {
	var errs []ValidationError

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		errs = append(errs, ValidationError{Field: "amount", Message: "Must be a valid decimal number"})
	}

	date, err := parseDate(req.Date)
	if err != nil {
		errs = append(errs, ValidationError{Field: "date", Message: "Must be an RFC 3339 timestamp or YYYY-MM-DD date"})
	}

	if len(errs) > 0 {
		return service.ExpenseInput{}, errs
	}

	return service.ExpenseInput{
		Amount:      amount,
		Category:    domain.Category(req.Category),
		Description: req.Description,
		Date:        date,
	}, nil
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// parseFilters reads the shared start_date/end_date/category query parameters
func parseFilters(c echo.Context) (*domain.ExpenseFilters, []ValidationError) {
	var errs []ValidationError
	filters := &domain.ExpenseFilters{}

	if v := c.QueryParam("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: "start_date", Message: "Must be an RFC 3339 timestamp or YYYY-MM-DD date"})
		} else {
			filters.StartDate = &t
		}
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			errs = append(errs, ValidationError{Field: "end_date", Message: "Must be an RFC 3339 timestamp or YYYY-MM-DD date"})
		} else {
			filters.EndDate = &t
		}
	}
	if v := c.QueryParam("category"); v != "" {
		category := domain.Category(v)
		if !category.IsValid() {
			errs = append(errs, ValidationError{Field: "category", Message: "Unknown category"})
		} else {
			filters.Category = &category
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return filters, nil
}

func expenseErrorResponse(c echo.Context, err error) error {
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
			{Field: "description", Message: fmt.Sprintf("Must be at most %d characters", domain.MaxDescriptionLength)},
		})
	case errors.Is(err, domain.ErrDateInFuture):
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Date cannot be in the future"},
		})
	case errors.Is(err, domain.ErrExpenseNotFound):
		return NewNotFoundError(c, "Expense not found")
	}
	return NewInternalError(c, "Failed to process expense")
}

// CreateExpense godoc
// @Summary Create an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense"
// @Success 201 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses [post]
func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := parseExpenseInput(req)
	if errs != nil {
		return NewValidationError(c, "Invalid expense", errs)
	}

	expense, err := h.expenseService.CreateExpense(userID, input)
	if err != nil {
		if isExpenseValidationErr(err) {
			return expenseErrorResponse(c, err)
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create expense")
		return NewInternalError(c, "Failed to create expense")
	}

	return c.JSON(http.StatusCreated, toExpenseResponse(expense))
}

func isExpenseValidationErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrAmountTooLarge) ||
		errors.Is(err, domain.ErrDescriptionTooLong) ||
		errors.Is(err, domain.ErrDateInFuture) ||
		errors.Is(err, domain.ErrExpenseNotFound)
}

// ListExpenses godoc
// @Summary List expenses
// @Description List the caller's expenses, optionally filtered by date window and category
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "Window start (inclusive)"
// @Param end_date query string false "Window end (inclusive)"
// @Param category query string false "Category filter"
// @Success 200 {object} ExpenseListResponse
// @Failure 400 {object} ProblemDetails
// @Router /expenses [get]
func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, errs := parseFilters(c)
	if errs != nil {
		return NewValidationError(c, "Invalid filters", errs)
	}

	expenses, err := h.expenseService.ListExpenses(userID, filters)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to list expenses")
		return NewInternalError(c, "Failed to list expenses")
	}

	items := make([]ExpenseResponse, 0, len(expenses))
	totalAmount := decimal.Zero
	for _, e := range expenses {
		items = append(items, toExpenseResponse(e))
		totalAmount = totalAmount.Add(e.Amount)
	}

	return c.JSON(http.StatusOK, ExpenseListResponse{
		Items:       items,
		Total:       len(items),
		TotalAmount: totalAmount.StringFixed(2),
	})
}

// GetExpense godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} ExpenseResponse
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	expense, err := h.expenseService.GetExpense(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("expense_id", id).Msg("Failed to get expense")
		return NewInternalError(c, "Failed to get expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// UpdateExpense godoc
// @Summary Update an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param request body ExpenseRequest true "Expense"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input, errs := parseExpenseInput(req)
	if errs != nil {
		return NewValidationError(c, "Invalid expense", errs)
	}

	expense, err := h.expenseService.UpdateExpense(userID, id, input)
	if err != nil {
		if isExpenseValidationErr(err) {
			return expenseErrorResponse(c, err)
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("expense_id", id).Msg("Failed to update expense")
		return NewInternalError(c, "Failed to update expense")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// DeleteExpense godoc
// @Summary Delete an expense
// @Tags expenses
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 204
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	// Remove stored receipt objects before the row disappears
	if h.receiptService.IsEnabled() {
		if err := h.receiptService.DeleteReceipt(c.Request().Context(), userID, id); err != nil && !errors.Is(err, domain.ErrExpenseNotFound) {
			log.Warn().Err(err).Int32("expense_id", id).Msg("Failed to delete receipt objects")
		}
	}

	if err := h.expenseService.DeleteExpense(userID, id); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("expense_id", id).Msg("Failed to delete expense")
		return NewInternalError(c, "Failed to delete expense")
	}

	return c.NoContent(http.StatusNoContent)
}

// ExportCSV godoc
// @Summary Export expenses as CSV
// @Description Download the caller's expenses (optionally filtered) as a CSV file
// @Tags expenses
// @Produce text/csv
// @Security BearerAuth
// @Param start_date query string false "Window start (inclusive)"
// @Param end_date query string false "Window end (inclusive)"
// @Param category query string false "Category filter"
// @Success 200 {string} string "CSV data"
// @Failure 400 {object} ProblemDetails
// @Router /expenses/export/csv [get]
func (h *ExpenseHandler) ExportCSV(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters, errs := parseFilters(c)
	if errs != nil {
		return NewValidationError(c, "Invalid filters", errs)
	}

	filename := fmt.Sprintf("expenses_%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().WriteHeader(http.StatusOK)

	if err := h.exportService.WriteCSV(c.Response(), userID, filters); err != nil {
		// Headers are already written; log and abort the stream
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to export expenses")
		return err
	}
	return nil
}

// UploadReceipt godoc
// @Summary Attach a receipt image
// @Description Upload a receipt image (JPEG, PNG, or GIF, max 5MB) for an expense
// @Tags expenses
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param file formData file true "Receipt image"
// @Success 200 {object} ExpenseResponse
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [post]
func (h *ExpenseHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Receipt file is required", []ValidationError{
			{Field: "file", Message: "Required"},
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return NewValidationError(c, "Failed to read uploaded file", nil)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxReceiptSize+1))
	if err != nil {
		return NewValidationError(c, "Failed to read uploaded file", nil)
	}

	expense, err := h.receiptService.UploadReceipt(c.Request().Context(), userID, id, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewInternalError(c, "Receipt storage is not configured")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("expense_id", id).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	return c.JSON(http.StatusOK, toExpenseResponse(expense))
}

// GetReceipt godoc
// @Summary Get receipt URLs
// @Description Get short-lived presigned URLs for an expense's receipt image
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} service.ReceiptURLs
// @Failure 404 {object} ProblemDetails
// @Router /expenses/{id}/receipt [get]
func (h *ExpenseHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	urls, err := h.receiptService.GetReceiptURLs(c.Request().Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, domain.ErrReceiptNotFound):
			return NewNotFoundError(c, "Expense has no receipt")
		case errors.Is(err, service.ErrReceiptStorageNotConfigured):
			return NewInternalError(c, "Receipt storage is not configured")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("expense_id", id).Msg("Failed to get receipt")
		return NewInternalError(c, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, urls)
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id")
	}
	return int32(id), nil
}
