package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fintrack-app/fintrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, name, category, amount, type, date, payment_method, notes, receipt_path, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		t             domain.Transaction
		amount        pgtype.Numeric
		date          pgtype.Date
		paymentMethod pgtype.Text
		notes         pgtype.Text
		receiptPath   pgtype.Text
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Category, &amount, &t.Type, &date,
		&paymentMethod, &notes, &receiptPath, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Amount = pgNumericToDecimal(amount)
	t.Date = pgDateToTime(date)
	t.PaymentMethod = pgTextToPtr(paymentMethod)
	t.Notes = pgTextToPtr(notes)
	t.ReceiptPath = pgTextToPtr(receiptPath)
	return &t, nil
}

// Create creates a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, name, category, amount, type, date, payment_method, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+transactionColumns,
		uuid.New(), transaction.UserID, transaction.Name, transaction.Category, amount,
		string(transaction.Type), timeToPgDate(transaction.Date),
		ptrToPgText(transaction.PaymentMethod), ptrToPgText(transaction.Notes))
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID within a user's scope
func (r *TransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2`,
		userID, id)
	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return transaction, nil
}

// ListByUser retrieves the user's transactions, newest first, honoring
// optional filters.
func (r *TransactionRepository) ListByUser(userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if filters != nil {
		if filters.Type != nil {
			args = append(args, string(*filters.Type))
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
		if filters.Category != nil {
			args = append(args, *filters.Category)
			query += fmt.Sprintf(" AND category = $%d", len(args))
		}
		if filters.StartDate != nil {
			args = append(args, timeToPgDate(*filters.StartDate))
			query += fmt.Sprintf(" AND date >= $%d", len(args))
		}
		if filters.EndDate != nil {
			args = append(args, timeToPgDate(*filters.EndDate))
			query += fmt.Sprintf(" AND date <= $%d", len(args))
		}
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// Update updates an existing transaction
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE transactions SET
		   name = $3, category = $4, amount = $5, type = $6, date = $7,
		   payment_method = $8, notes = $9, receipt_path = $10, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 RETURNING `+transactionColumns,
		transaction.UserID, transaction.ID, transaction.Name, transaction.Category, amount,
		string(transaction.Type), timeToPgDate(transaction.Date),
		ptrToPgText(transaction.PaymentMethod), ptrToPgText(transaction.Notes),
		ptrToPgText(transaction.ReceiptPath))
	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes a transaction
func (r *TransactionRepository) Delete(userID, id uuid.UUID) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
