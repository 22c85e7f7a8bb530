package service

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// ExportService renders an owner's expenses as CSV
type ExportService struct {
	expenseRepo domain.ExpenseRepository
}

// NewExportService creates a new ExportService
func NewExportService(expenseRepo domain.ExpenseRepository) *ExportService {
	return &ExportService{expenseRepo: expenseRepo}
}

// csvHeader is the fixed column set of an export
var csvHeader = []string{"Date", "Category", "Amount", "Description"}

// WriteCSV streams the owner's expenses (optionally filtered) to w as CSV.
// Rows are ordered by date ascending; amounts carry two decimal places.
func (s *ExportService) WriteCSV(w io.Writer, ownerID int32, filters *domain.ExpenseFilters) error {
	if filters != nil && filters.Category != nil && !filters.Category.IsValid() {
		return domain.ErrInvalidCategory
	}

	expenses, err := s.expenseRepo.GetByOwner(ownerID, filters)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range expenses {
		description := ""
		if e.Description != nil {
			description = *e.Description
		}
		record := []string{
			e.Date.Format("2006-01-02"),
			string(e.Category),
			e.Amount.StringFixed(2),
			description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
