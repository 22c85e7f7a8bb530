package service

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
	"github.com/outgo-app/outgo-backend/internal/testutil"
)

func validExpenseInput() ExpenseInput {
	description := "Lunch"
	return ExpenseInput{
		Amount:      decimal.RequireFromString("12.50"),
		Category:    domain.CategoryFood,
		Description: &description,
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateExpense_Success(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	ownerID := int32(1)
	expense, err := expenseService.CreateExpense(ownerID, validExpenseInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if expense.ID == 0 {
		t.Error("Expected expense to be assigned an ID")
	}
	if expense.OwnerID != ownerID {
		t.Errorf("Expected owner ID %d, got %d", ownerID, expense.OwnerID)
	}
	if !expense.Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("Expected amount 12.50, got %s", expense.Amount)
	}
	if expense.Category != domain.CategoryFood {
		t.Errorf("Expected category Food, got %s", expense.Category)
	}
}

func TestCreateExpense_InvalidCategory(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := validExpenseInput()
	input.Category = domain.Category("Rent")

	_, err := expenseService.CreateExpense(1, input)
	if err != domain.ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestCreateExpense_NonPositiveAmount(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	for _, amount := range []string{"0", "-5.00"} {
		input := validExpenseInput()
		input.Amount = decimal.RequireFromString(amount)

		_, err := expenseService.CreateExpense(1, input)
		if err != domain.ErrInvalidAmount {
			t.Errorf("Expected ErrInvalidAmount for amount %s, got %v", amount, err)
		}
	}
}

func TestCreateExpense_AmountAtMaximum(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	input := validExpenseInput()
	input.Amount = domain.MaxExpenseAmount

	if _, err := expenseService.CreateExpense(1, input); err != nil {
		t.Errorf("Expected amount at the maximum to be accepted, got %v", err)
	}

	input.Amount = domain.MaxExpenseAmount.Add(decimal.RequireFromString("0.01"))
	if _, err := expenseService.CreateExpense(1, input); err != domain.ErrAmountTooLarge {
		t.Errorf("Expected ErrAmountTooLarge, got %v", err)
	}
}

func TestCreateExpense_DescriptionTooLong(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	long := strings.Repeat("a", domain.MaxDescriptionLength+1)
	input := validExpenseInput()
	input.Description = &long

	_, err := expenseService.CreateExpense(1, input)
	if err != domain.ErrDescriptionTooLong {
		t.Errorf("Expected ErrDescriptionTooLong, got %v", err)
	}
}

func TestCreateExpense_DateInFuture(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	expenseService.now = func() time.Time { return now }

	input := validExpenseInput()
	input.Date = now.Add(time.Hour)

	_, err := expenseService.CreateExpense(1, input)
	if err != domain.ErrDateInFuture {
		t.Errorf("Expected ErrDateInFuture, got %v", err)
	}

	// Today is not the future
	input.Date = now
	if _, err := expenseService.CreateExpense(1, input); err != nil {
		t.Errorf("Expected the current instant to be accepted, got %v", err)
	}
}

func TestGetExpense_OwnerScoped(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created, err := expenseService.CreateExpense(1, validExpenseInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := expenseService.GetExpense(1, created.ID); err != nil {
		t.Errorf("Expected owner to read their expense, got %v", err)
	}

	if _, err := expenseService.GetExpense(2, created.ID); err != domain.ErrExpenseNotFound {
		t.Errorf("Expected ErrExpenseNotFound for another owner, got %v", err)
	}
}

func TestListExpenses_Filters(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	ownerID := int32(1)
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	seedExpense(t, expenseRepo, ownerID, "10.00", domain.CategoryFood, jan)
	seedExpense(t, expenseRepo, ownerID, "20.00", domain.CategoryTransport, feb)
	seedExpense(t, expenseRepo, int32(2), "99.00", domain.CategoryFood, jan)

	all, err := expenseService.ListExpenses(ownerID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 expenses for owner, got %d", len(all))
	}

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	filtered, err := expenseService.ListExpenses(ownerID, &domain.ExpenseFilters{StartDate: &start})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(filtered) != 1 || filtered[0].Category != domain.CategoryTransport {
		t.Errorf("Expected only the February expense, got %d entries", len(filtered))
	}

	food := domain.CategoryFood
	byCategory, err := expenseService.ListExpenses(ownerID, &domain.ExpenseFilters{Category: &food})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(byCategory) != 1 || !byCategory[0].Amount.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("Expected only the Food expense, got %d entries", len(byCategory))
	}
}

func TestListExpenses_InvalidFilterCategory(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	bad := domain.Category("bogus")
	_, err := expenseService.ListExpenses(1, &domain.ExpenseFilters{Category: &bad})
	if err != domain.ErrInvalidCategory {
		t.Errorf("Expected ErrInvalidCategory, got %v", err)
	}
}

func TestListExpenses_OrderedByDateThenID(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	ownerID := int32(1)
	day := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	seedExpense(t, expenseRepo, ownerID, "3.00", domain.CategoryFood, day.AddDate(0, 0, 2))
	seedExpense(t, expenseRepo, ownerID, "1.00", domain.CategoryFood, day)
	seedExpense(t, expenseRepo, ownerID, "2.00", domain.CategoryFood, day)

	expenses, err := expenseService.ListExpenses(ownerID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(expenses) != 3 {
		t.Fatalf("Expected 3 expenses, got %d", len(expenses))
	}
	for i, amount := range []string{"1.00", "2.00", "3.00"} {
		if !expenses[i].Amount.Equal(decimal.RequireFromString(amount)) {
			t.Errorf("Expected amount %s at index %d, got %s", amount, i, expenses[i].Amount)
		}
	}
}

func TestUpdateExpense_Success(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created, err := expenseService.CreateExpense(1, validExpenseInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	input := validExpenseInput()
	input.Amount = decimal.RequireFromString("99.99")
	input.Category = domain.CategoryShopping

	updated, err := expenseService.UpdateExpense(1, created.ID, input)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.Amount.Equal(decimal.RequireFromString("99.99")) {
		t.Errorf("Expected amount 99.99, got %s", updated.Amount)
	}
	if updated.Category != domain.CategoryShopping {
		t.Errorf("Expected category Shopping, got %s", updated.Category)
	}
}

func TestUpdateExpense_NotFound(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	_, err := expenseService.UpdateExpense(1, 999, validExpenseInput())
	if err != domain.ErrExpenseNotFound {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
}

func TestDeleteExpense_Success(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created, err := expenseService.CreateExpense(1, validExpenseInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := expenseService.DeleteExpense(1, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := expenseService.GetExpense(1, created.ID); err != domain.ErrExpenseNotFound {
		t.Errorf("Expected expense to be gone, got %v", err)
	}
}

func TestDeleteExpense_OtherOwner(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	expenseService := NewExpenseService(expenseRepo)

	created, err := expenseService.CreateExpense(1, validExpenseInput())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := expenseService.DeleteExpense(2, created.ID); err != domain.ErrExpenseNotFound {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
}
