package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/fintrack-app/fintrack-backend/internal/testutil"
	"github.com/fintrack-app/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTransactionFixture() (*TransactionService, *testutil.MockTransactionRepository, uuid.UUID) {
	transactionRepo := testutil.NewMockTransactionRepository()
	svc := NewTransactionService(transactionRepo, websocket.NewNoOpPublisher())
	return svc, transactionRepo, uuid.New()
}

func TestCreateTransaction(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	created, err := svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(3000),
		Type:     domain.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("Expected assigned ID")
	}
	if created.UserID != userID {
		t.Errorf("Expected user %s, got %s", userID, created.UserID)
	}
	if created.Date.IsZero() {
		t.Error("Expected default date when none provided")
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	cases := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateTransactionInput{Name: "  ", Category: "x", Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeIncome},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "name too long",
			input:   CreateTransactionInput{Name: strings.Repeat("a", 256), Category: "x", Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeIncome},
			wantErr: domain.ErrNameTooLong,
		},
		{
			name:    "empty category",
			input:   CreateTransactionInput{Name: "Salary", Category: " ", Amount: decimal.NewFromInt(1), Type: domain.TransactionTypeIncome},
			wantErr: domain.ErrCategoryRequired,
		},
		{
			name:    "negative amount",
			input:   CreateTransactionInput{Name: "Salary", Category: "x", Amount: decimal.NewFromInt(-5), Type: domain.TransactionTypeIncome},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name:    "bad type",
			input:   CreateTransactionInput{Name: "Salary", Category: "x", Amount: decimal.NewFromInt(1), Type: "transfer"},
			wantErr: domain.ErrInvalidType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateTransaction(userID, tc.input); !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateTransaction_NotesNormalized(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	blank := "   "
	created, err := svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(1),
		Type:     domain.TransactionTypeIncome,
		Notes:    &blank,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.Notes != nil {
		t.Errorf("Expected blank notes dropped, got %q", *created.Notes)
	}

	long := strings.Repeat("n", domain.MaxNotesLength+1)
	_, err = svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(1),
		Type:     domain.TransactionTypeIncome,
		Notes:    &long,
	})
	if !errors.Is(err, domain.ErrNotesTooLong) {
		t.Errorf("Expected ErrNotesTooLong, got %v", err)
	}
}

func TestUpdateTransaction_PartialUpdate(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	created, err := svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(3000),
		Type:     domain.TransactionTypeIncome,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	newAmount := decimal.NewFromInt(3200)
	updated, err := svc.UpdateTransaction(userID, created.ID, UpdateTransactionInput{
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.Amount.Equal(newAmount) {
		t.Errorf("Expected amount 3200, got %s", updated.Amount)
	}
	if updated.Name != "Salary" || updated.Category != "Employment" {
		t.Errorf("Untouched fields changed: %s / %s", updated.Name, updated.Category)
	}
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	name := "Rent"
	_, err := svc.UpdateTransaction(userID, uuid.New(), UpdateTransactionInput{Name: &name})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("Expected ErrTransactionNotFound, got %v", err)
	}
}

func TestUpdateTransaction_WrongUser(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	created, _ := svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(3000),
		Type:     domain.TransactionTypeIncome,
	})

	name := "Stolen"
	_, err := svc.UpdateTransaction(uuid.New(), created.ID, UpdateTransactionInput{Name: &name})
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("Expected ErrTransactionNotFound for other user, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	svc, transactionRepo, userID := newTransactionFixture()

	created, _ := svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(3000),
		Type:     domain.TransactionTypeIncome,
	})

	if err := svc.DeleteTransaction(userID, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, ok := transactionRepo.Transactions[created.ID]; ok {
		t.Error("Expected transaction removed")
	}

	if err := svc.DeleteTransaction(userID, created.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("Expected ErrTransactionNotFound on second delete, got %v", err)
	}
}

func TestSetReceiptPath(t *testing.T) {
	svc, _, userID := newTransactionFixture()

	created, _ := svc.CreateTransaction(userID, CreateTransactionInput{
		Name:     "Salary",
		Category: "Employment",
		Amount:   decimal.NewFromInt(3000),
		Type:     domain.TransactionTypeIncome,
	})

	path := userID.String() + "/receipts/" + created.ID.String() + "/receipt.jpg"
	updated, err := svc.SetReceiptPath(userID, created.ID, &path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.ReceiptPath == nil || *updated.ReceiptPath != path {
		t.Errorf("Expected receipt path set, got %v", updated.ReceiptPath)
	}

	cleared, err := svc.SetReceiptPath(userID, created.ID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cleared.ReceiptPath != nil {
		t.Errorf("Expected receipt path cleared, got %v", cleared.ReceiptPath)
	}
}

func TestListTransactions_Filters(t *testing.T) {
	svc, transactionRepo, userID := newTransactionFixture()

	transactionRepo.AddIncome(userID, "Salary", decimal.NewFromInt(3000), time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	transactionRepo.AddExpense(userID, "Rent", decimal.NewFromInt(1200), time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC))
	transactionRepo.AddExpense(userID, "Food", decimal.NewFromInt(300), time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC))

	expenseType := domain.TransactionTypeExpense
	end := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	records, err := svc.ListTransactions(userID, &domain.TransactionFilters{
		Type:    &expenseType,
		EndDate: &end,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 1 || records[0].Category != "Rent" {
		t.Errorf("Expected only the March expense, got %d records", len(records))
	}
}
