package testutil

import (
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// Update updates an existing user
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByID[user.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// TouchLastLogin stamps the user's last login time
func (m *MockUserRepository) TouchLastLogin(id uuid.UUID) error {
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	Order        []uuid.UUID
	ListErr      error
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	t := *transaction
	t.ID = uuid.New()
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	m.Transactions[t.ID] = &t
	m.Order = append(m.Order, t.ID)
	return &t, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// ListByUser retrieves the user's transactions honoring filters
func (m *MockTransactionRepository) ListByUser(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var result []*domain.Transaction
	for _, id := range m.Order {
		t := m.Transactions[id]
		if t.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && t.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && t.Category != *filters.Category {
				continue
			}
			if filters.StartDate != nil && t.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && t.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, t)
	}
	return result, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	existing, ok := m.Transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	t := *transaction
	t.UpdatedAt = time.Now()
	m.Transactions[t.ID] = &t
	return &t, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(userID, id uuid.UUID) error {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.Transactions, id)
	for i, oid := range m.Order {
		if oid == id {
			m.Order = append(m.Order[:i], m.Order[i+1:]...)
			break
		}
	}
	return nil
}

// AddIncome is a convenience for seeding an income row
func (m *MockTransactionRepository) AddIncome(userID uuid.UUID, category string, amount decimal.Decimal, date time.Time) *domain.Transaction {
	created, _ := m.Create(&domain.Transaction{
		UserID:   userID,
		Name:     category,
		Category: category,
		Amount:   amount,
		Type:     domain.TransactionTypeIncome,
		Date:     date,
	})
	return created
}

// AddExpense is a convenience for seeding an expense row
func (m *MockTransactionRepository) AddExpense(userID uuid.UUID, category string, amount decimal.Decimal, date time.Time) *domain.Transaction {
	created, _ := m.Create(&domain.Transaction{
		UserID:   userID,
		Name:     category,
		Category: category,
		Amount:   amount,
		Type:     domain.TransactionTypeExpense,
		Date:     date,
	})
	return created
}

// MockGoalRepository is a mock implementation of domain.GoalRepository.
// UpdateErrFor lets a test force Update failures for specific goals.
type MockGoalRepository struct {
	Goals        map[uuid.UUID]*domain.Goal
	Order        []uuid.UUID
	UpdateErrFor map[uuid.UUID]error
	UpdateCalls  int
}

// NewMockGoalRepository creates a new MockGoalRepository
func NewMockGoalRepository() *MockGoalRepository {
	return &MockGoalRepository{
		Goals:        make(map[uuid.UUID]*domain.Goal),
		UpdateErrFor: make(map[uuid.UUID]error),
	}
}

// Create creates a new goal
func (m *MockGoalRepository) Create(goal *domain.Goal) (*domain.Goal, error) {
	g := *goal
	g.ID = uuid.New()
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
	m.Goals[g.ID] = &g
	m.Order = append(m.Order, g.ID)
	return &g, nil
}

// GetByID retrieves a goal by ID
func (m *MockGoalRepository) GetByID(userID, id uuid.UUID) (*domain.Goal, error) {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return nil, domain.ErrGoalNotFound
	}
	return goal, nil
}

// ListByUser retrieves all goals for a user in creation order
func (m *MockGoalRepository) ListByUser(userID uuid.UUID) ([]*domain.Goal, error) {
	var result []*domain.Goal
	for _, id := range m.Order {
		if m.Goals[id].UserID == userID {
			result = append(result, m.Goals[id])
		}
	}
	return result, nil
}

// Update updates an existing goal
func (m *MockGoalRepository) Update(goal *domain.Goal) (*domain.Goal, error) {
	m.UpdateCalls++
	if err, ok := m.UpdateErrFor[goal.ID]; ok {
		return nil, err
	}
	existing, ok := m.Goals[goal.ID]
	if !ok || existing.UserID != goal.UserID {
		return nil, domain.ErrGoalNotFound
	}
	g := *goal
	g.UpdatedAt = time.Now()
	m.Goals[g.ID] = &g
	return &g, nil
}

// Delete removes a goal
func (m *MockGoalRepository) Delete(userID, id uuid.UUID) error {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID {
		return domain.ErrGoalNotFound
	}
	delete(m.Goals, id)
	for i, oid := range m.Order {
		if oid == id {
			m.Order = append(m.Order[:i], m.Order[i+1:]...)
			break
		}
	}
	return nil
}

// AddGoal is a convenience for seeding a goal row
func (m *MockGoalRepository) AddGoal(userID uuid.UUID, name string, target, current decimal.Decimal) *domain.Goal {
	created, _ := m.Create(&domain.Goal{
		UserID:        userID,
		Name:          name,
		Category:      "savings",
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    time.Now().AddDate(1, 0, 0),
	})
	return created
}

// MockEventRepository is a mock implementation of domain.EventRepository
type MockEventRepository struct {
	Events map[uuid.UUID]*domain.Event
	Order  []uuid.UUID
}

// NewMockEventRepository creates a new MockEventRepository
func NewMockEventRepository() *MockEventRepository {
	return &MockEventRepository{
		Events: make(map[uuid.UUID]*domain.Event),
	}
}

// Create creates a new event
func (m *MockEventRepository) Create(event *domain.Event) (*domain.Event, error) {
	e := *event
	e.ID = uuid.New()
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	m.Events[e.ID] = &e
	m.Order = append(m.Order, e.ID)
	return &e, nil
}

// GetByID retrieves an event by ID
func (m *MockEventRepository) GetByID(userID, id uuid.UUID) (*domain.Event, error) {
	event, ok := m.Events[id]
	if !ok || event.UserID != userID {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

// ListByUser retrieves the user's events honoring filters
func (m *MockEventRepository) ListByUser(userID uuid.UUID, filters *domain.EventFilters) ([]*domain.Event, error) {
	var result []*domain.Event
	for _, id := range m.Order {
		e := m.Events[id]
		if e.UserID != userID {
			continue
		}
		if filters != nil {
			if filters.Type != nil && e.Type != *filters.Type {
				continue
			}
			if filters.Category != nil && e.Category != *filters.Category {
				continue
			}
			if filters.StartDate != nil && e.Date.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && e.Date.After(*filters.EndDate) {
				continue
			}
		}
		result = append(result, e)
	}
	return result, nil
}

// Update updates an existing event
func (m *MockEventRepository) Update(event *domain.Event) (*domain.Event, error) {
	existing, ok := m.Events[event.ID]
	if !ok || existing.UserID != event.UserID {
		return nil, domain.ErrEventNotFound
	}
	e := *event
	e.UpdatedAt = time.Now()
	m.Events[e.ID] = &e
	return &e, nil
}

// Delete removes an event
func (m *MockEventRepository) Delete(userID, id uuid.UUID) error {
	event, ok := m.Events[id]
	if !ok || event.UserID != userID {
		return domain.ErrEventNotFound
	}
	delete(m.Events, id)
	for i, oid := range m.Order {
		if oid == id {
			m.Order = append(m.Order[:i], m.Order[i+1:]...)
			break
		}
	}
	return nil
}
