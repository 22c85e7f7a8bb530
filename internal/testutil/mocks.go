package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/outgo-app/outgo-backend/internal/domain"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users   map[int32]*domain.User
	ByEmail map[string]*domain.User
	NextID  int32
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:   make(map[int32]*domain.User),
		ByEmail: make(map[string]*domain.User),
		NextID:  1,
	}
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	user.ID = m.NextID
	m.NextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.Users[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id int32) (*domain.User, error) {
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Update updates a user's profile fields
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	existing, ok := m.Users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if other, taken := m.ByEmail[user.Email]; taken && other.ID != user.ID {
		return nil, domain.ErrEmailTaken
	}
	delete(m.ByEmail, existing.Email)
	user.UpdatedAt = time.Now()
	m.Users[user.ID] = user
	m.ByEmail[user.Email] = user
	return user, nil
}

// UpdatePassword replaces a user's password hash
func (m *MockUserRepository) UpdatePassword(id int32, passwordHash string) error {
	user, ok := m.Users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	NextID   int32
	CreateFn func(expense *domain.Expense) (*domain.Expense, error)
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{
		Expenses: make(map[int32]*domain.Expense),
		NextID:   1,
	}
}

// Create creates a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	if m.CreateFn != nil {
		return m.CreateFn(expense)
	}
	expense.ID = m.NextID
	m.NextID++
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an expense scoped to its owner
func (m *MockExpenseRepository) GetByID(ownerID int32, id int32) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.OwnerID != ownerID {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

// GetByOwner retrieves an owner's expenses matching the filters, ordered by
// date then ID the way the SQL layer does
func (m *MockExpenseRepository) GetByOwner(ownerID int32, filters *domain.ExpenseFilters) ([]*domain.Expense, error) {
	var result []*domain.Expense
	for _, e := range m.Expenses {
		if e.OwnerID != ownerID {
			continue
		}
		if filters != nil {
			if filters.StartDate != nil && e.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && e.Date.After(*filters.EndDate) {
				continue
			}
			if filters.Category != nil && e.Category != *filters.Category {
				continue
			}
		}
		result = append(result, e)
	}
	sortExpenses(result)
	return result, nil
}

func sortExpenses(expenses []*domain.Expense) {
	for i := 1; i < len(expenses); i++ {
		for j := i; j > 0; j-- {
			a, b := expenses[j-1], expenses[j]
			if a.Date.After(b.Date) || (a.Date.Equal(b.Date) && a.ID > b.ID) {
				expenses[j-1], expenses[j] = b, a
			} else {
				break
			}
		}
	}
}

// Update updates an expense's mutable fields
func (m *MockExpenseRepository) Update(expense *domain.Expense) (*domain.Expense, error) {
	existing, ok := m.Expenses[expense.ID]
	if !ok || existing.OwnerID != expense.OwnerID {
		return nil, domain.ErrExpenseNotFound
	}
	expense.UpdatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// Delete removes an expense
func (m *MockExpenseRepository) Delete(ownerID int32, id int32) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.OwnerID != ownerID {
		return domain.ErrExpenseNotFound
	}
	delete(m.Expenses, id)
	return nil
}

// SetReceiptRef attaches a receipt object reference to an expense
func (m *MockExpenseRepository) SetReceiptRef(ownerID int32, id int32, receiptRef string) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.OwnerID != ownerID {
		return nil, domain.ErrExpenseNotFound
	}
	expense.ReceiptRef = &receiptRef
	expense.UpdatedAt = time.Now()
	return expense, nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]map[domain.Category]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]map[domain.Category]*domain.Budget),
		NextID:  1,
	}
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	if m.Budgets[budget.OwnerID] == nil {
		m.Budgets[budget.OwnerID] = make(map[domain.Category]*domain.Budget)
	}
	if _, ok := m.Budgets[budget.OwnerID][budget.Category]; ok {
		return nil, domain.ErrBudgetAlreadyExists
	}
	budget.ID = m.NextID
	m.NextID++
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	m.Budgets[budget.OwnerID][budget.Category] = budget
	return budget, nil
}

// GetByCategory retrieves an owner's budget for a category
func (m *MockBudgetRepository) GetByCategory(ownerID int32, category domain.Category) (*domain.Budget, error) {
	if budget, ok := m.Budgets[ownerID][category]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// GetAllByOwner retrieves all budgets for an owner in a stable category order
func (m *MockBudgetRepository) GetAllByOwner(ownerID int32) ([]*domain.Budget, error) {
	var result []*domain.Budget
	for _, category := range domain.Categories {
		if budget, ok := m.Budgets[ownerID][category]; ok {
			result = append(result, budget)
		}
	}
	return result, nil
}

// UpdateLimit replaces the monthly limit of an owner's category budget
func (m *MockBudgetRepository) UpdateLimit(ownerID int32, category domain.Category, limit decimal.Decimal) (*domain.Budget, error) {
	budget, ok := m.Budgets[ownerID][category]
	if !ok {
		return nil, domain.ErrBudgetNotFound
	}
	budget.MonthlyLimit = limit
	budget.UpdatedAt = time.Now()
	return budget, nil
}

// Delete removes an owner's category budget
func (m *MockBudgetRepository) Delete(ownerID int32, category domain.Category) error {
	if _, ok := m.Budgets[ownerID][category]; !ok {
		return domain.ErrBudgetNotFound
	}
	delete(m.Budgets[ownerID], category)
	return nil
}

// MockRecurringRepository is a mock implementation of domain.RecurringRepository
type MockRecurringRepository struct {
	Templates map[int32]*domain.RecurringExpense
	NextID    int32
}

// NewMockRecurringRepository creates a new MockRecurringRepository
func NewMockRecurringRepository() *MockRecurringRepository {
	return &MockRecurringRepository{
		Templates: make(map[int32]*domain.RecurringExpense),
		NextID:    1,
	}
}

// Create creates a new recurring expense
func (m *MockRecurringRepository) Create(re *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	re.ID = m.NextID
	m.NextID++
	re.CreatedAt = time.Now()
	re.UpdatedAt = re.CreatedAt
	m.Templates[re.ID] = re
	return re, nil
}

// GetByID retrieves a recurring expense scoped to its owner
func (m *MockRecurringRepository) GetByID(ownerID int32, id int32) (*domain.RecurringExpense, error) {
	re, ok := m.Templates[id]
	if !ok || re.OwnerID != ownerID {
		return nil, domain.ErrRecurringNotFound
	}
	return re, nil
}

// GetByOwner retrieves all recurring expenses for an owner ordered by ID
func (m *MockRecurringRepository) GetByOwner(ownerID int32) ([]*domain.RecurringExpense, error) {
	var result []*domain.RecurringExpense
	for id := int32(1); id < m.NextID; id++ {
		if re, ok := m.Templates[id]; ok && re.OwnerID == ownerID {
			result = append(result, re)
		}
	}
	return result, nil
}

// ListActive retrieves all active recurring expenses across owners
func (m *MockRecurringRepository) ListActive() ([]*domain.RecurringExpense, error) {
	var result []*domain.RecurringExpense
	for id := int32(1); id < m.NextID; id++ {
		if re, ok := m.Templates[id]; ok && re.IsActive {
			result = append(result, re)
		}
	}
	return result, nil
}

// Update updates a recurring expense's mutable fields
func (m *MockRecurringRepository) Update(re *domain.RecurringExpense) (*domain.RecurringExpense, error) {
	existing, ok := m.Templates[re.ID]
	if !ok || existing.OwnerID != re.OwnerID {
		return nil, domain.ErrRecurringNotFound
	}
	re.UpdatedAt = time.Now()
	m.Templates[re.ID] = re
	return re, nil
}

// Delete removes a recurring expense
func (m *MockRecurringRepository) Delete(ownerID int32, id int32) error {
	re, ok := m.Templates[id]
	if !ok || re.OwnerID != ownerID {
		return domain.ErrRecurringNotFound
	}
	delete(m.Templates, id)
	return nil
}

// MarkGenerated records the instant an expense was last generated
func (m *MockRecurringRepository) MarkGenerated(id int32, at time.Time) error {
	re, ok := m.Templates[id]
	if !ok {
		return domain.ErrRecurringNotFound
	}
	re.LastGenerated = &at
	re.UpdatedAt = time.Now()
	return nil
}
