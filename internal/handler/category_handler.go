package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// CategoryHandler serves the fixed category set
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// ListCategories godoc
// @Summary List categories
// @Description The fixed set of expense categories
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.Categories)
}
