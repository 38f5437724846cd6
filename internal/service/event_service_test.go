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

func newEventFixture() (*EventService, *testutil.MockEventRepository, uuid.UUID) {
	repo := testutil.NewMockEventRepository()
	svc := NewEventService(repo, websocket.NewNoOpPublisher())
	return svc, repo, uuid.New()
}

func TestEventService_CreateEvent(t *testing.T) {
	svc, _, userID := newEventFixture()

	created, err := svc.CreateEvent(userID, CreateEventInput{
		Title:    "  Rent due  ",
		Type:     domain.TransactionTypeExpense,
		Category: "Housing",
		Amount:   decimal.NewFromInt(1200),
		Date:     time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if created.ID == uuid.Nil {
		t.Error("expected generated ID")
	}
	if created.Title != "Rent due" {
		t.Errorf("expected trimmed title, got %q", created.Title)
	}
	if created.UserID != userID {
		t.Errorf("expected owner %s, got %s", userID, created.UserID)
	}
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	svc, _, userID := newEventFixture()

	valid := CreateEventInput{
		Title:    "Paycheck",
		Type:     domain.TransactionTypeIncome,
		Category: "Salary",
		Amount:   decimal.NewFromInt(3000),
		Date:     time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name    string
		mutate  func(in *CreateEventInput)
		wantErr error
	}{
		{
			name:    "blank title",
			mutate:  func(in *CreateEventInput) { in.Title = "   " },
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "title too long",
			mutate:  func(in *CreateEventInput) { in.Title = strings.Repeat("x", 256) },
			wantErr: domain.ErrNameTooLong,
		},
		{
			name:    "invalid type",
			mutate:  func(in *CreateEventInput) { in.Type = domain.TransactionType("transfer") },
			wantErr: domain.ErrInvalidType,
		},
		{
			name:    "negative amount",
			mutate:  func(in *CreateEventInput) { in.Amount = decimal.NewFromInt(-5) },
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			_, err := svc.CreateEvent(userID, in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEventService_GetEvent(t *testing.T) {
	svc, _, userID := newEventFixture()

	created, err := svc.CreateEvent(userID, CreateEventInput{
		Title:    "Car payment",
		Type:     domain.TransactionTypeExpense,
		Category: "Transport",
		Amount:   decimal.NewFromInt(250),
		Date:     time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	got, err := svc.GetEvent(userID, created.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Title != "Car payment" {
		t.Errorf("expected 'Car payment', got %q", got.Title)
	}

	if _, err := svc.GetEvent(uuid.New(), created.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound for other user, got %v", err)
	}
}

func TestEventService_UpdateEvent_Partial(t *testing.T) {
	svc, _, userID := newEventFixture()

	created, err := svc.CreateEvent(userID, CreateEventInput{
		Title:    "Phone bill",
		Type:     domain.TransactionTypeExpense,
		Category: "Utilities",
		Amount:   decimal.NewFromInt(40),
		Date:     time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	newAmount := decimal.NewFromInt(45)
	updated, err := svc.UpdateEvent(userID, created.ID, UpdateEventInput{
		Amount: &newAmount,
	})
	if err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}

	if !updated.Amount.Equal(newAmount) {
		t.Errorf("expected amount %s, got %s", newAmount, updated.Amount)
	}
	if updated.Title != "Phone bill" {
		t.Errorf("title should be unchanged, got %q", updated.Title)
	}
	if updated.Category != "Utilities" {
		t.Errorf("category should be unchanged, got %q", updated.Category)
	}
}

func TestEventService_UpdateEvent_NotFound(t *testing.T) {
	svc, _, userID := newEventFixture()

	title := "Anything"
	_, err := svc.UpdateEvent(userID, uuid.New(), UpdateEventInput{Title: &title})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_UpdateEvent_WrongUser(t *testing.T) {
	svc, _, userID := newEventFixture()

	created, err := svc.CreateEvent(userID, CreateEventInput{
		Title:    "Insurance",
		Type:     domain.TransactionTypeExpense,
		Category: "Insurance",
		Amount:   decimal.NewFromInt(80),
		Date:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	title := "Hijacked"
	_, err = svc.UpdateEvent(uuid.New(), created.ID, UpdateEventInput{Title: &title})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound for other user, got %v", err)
	}
}

func TestEventService_DeleteEvent(t *testing.T) {
	svc, repo, userID := newEventFixture()

	created, err := svc.CreateEvent(userID, CreateEventInput{
		Title:    "Gym membership",
		Type:     domain.TransactionTypeExpense,
		Category: "Health",
		Amount:   decimal.NewFromInt(30),
		Date:     time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := svc.DeleteEvent(userID, created.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if len(repo.Events) != 0 {
		t.Errorf("expected no remaining events, got %d", len(repo.Events))
	}

	if err := svc.DeleteEvent(userID, created.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound on second delete, got %v", err)
	}
}

func TestEventService_ListEvents_Filters(t *testing.T) {
	svc, _, userID := newEventFixture()

	mustCreate := func(title string, txType domain.TransactionType, category string, date time.Time) {
		t.Helper()
		_, err := svc.CreateEvent(userID, CreateEventInput{
			Title:    title,
			Type:     txType,
			Category: category,
			Amount:   decimal.NewFromInt(10),
			Date:     date,
		})
		if err != nil {
			t.Fatalf("CreateEvent %q failed: %v", title, err)
		}
	}

	mustCreate("Rent", domain.TransactionTypeExpense, "Housing", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	mustCreate("Paycheck", domain.TransactionTypeIncome, "Salary", time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC))
	mustCreate("Electricity", domain.TransactionTypeExpense, "Utilities", time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC))

	expense := domain.TransactionTypeExpense
	events, err := svc.ListEvents(userID, &domain.EventFilters{Type: &expense})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 expense events, got %d", len(events))
	}

	end := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)
	events, err = svc.ListEvents(userID, &domain.EventFilters{EndDate: &end})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events in April, got %d", len(events))
	}

	category := "Housing"
	events, err = svc.ListEvents(userID, &domain.EventFilters{Category: &category})
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 housing event, got %d", len(events))
	}
	if events[0].Title != "Rent" {
		t.Errorf("expected Rent, got %q", events[0].Title)
	}
}
