package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veloxpay/payment-service/internal/apperrors"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	"github.com/veloxpay/payment-service/internal/models"
	"github.com/veloxpay/payment-service/internal/utils/mapping"
)

const uniqueViolationCode = "23505"

const transactionColumns = `
	id, transaction_reference, type, amount, currency, source_account_id,
	destination_account_id, status, description, failure_reason, user_id,
	metadata, created_at, completed_at`

// PgxTransactionRepository persists transaction records in PostgreSQL.
type PgxTransactionRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// NewTransactionRepository creates a new repository for transaction data.
func NewTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{pool: pool}
}

// SaveTransaction inserts a new transaction row and returns the record with
// its database-assigned id.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (
			transaction_reference, type, amount, currency, source_account_id,
			destination_account_id, status, description, failure_reason, user_id,
			metadata, created_at, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id;
	`
	err := r.pool.QueryRow(ctx, query,
		m.TransactionReference,
		m.Type,
		m.Amount,
		m.Currency,
		m.SourceAccountID,
		m.DestinationAccountID,
		m.Status,
		m.Description,
		m.FailureReason,
		m.UserID,
		m.Metadata,
		m.CreatedAt,
		m.CompletedAt,
	).Scan(&m.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("transaction reference %s: %w", m.TransactionReference, apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to insert transaction %s: %w", m.TransactionReference, err)
	}

	saved := mapping.ToDomainTransaction(m)
	return &saved, nil
}

// UpdateTransactionStatus moves a transaction to a terminal status.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, reference string, status domain.TransactionStatus, failureReason string, completedAt *time.Time) error {
	var reason *string
	if failureReason != "" {
		reason = &failureReason
	}

	query := `
		UPDATE transactions
		SET status = $2, failure_reason = $3, completed_at = $4
		WHERE transaction_reference = $1;
	`
	tag, err := r.pool.Exec(ctx, query, reference, string(status), reason, completedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", reference, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s: %w", reference, apperrors.ErrNotFound)
	}
	return nil
}

// FindTransactionByReference retrieves a transaction by its external reference.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_reference = $1;`

	m, err := scanTransaction(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", reference, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", reference, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactionsByUserID retrieves all transactions initiated by a user, newest first.
func (r *PgxTransactionRepository) ListTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC;`
	return r.list(ctx, query, userID)
}

// ListTransactionsByAccountID retrieves transactions where the account is the
// source or the destination, newest first.
func (r *PgxTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE source_account_id = $1 OR destination_account_id = $1
		ORDER BY created_at DESC;`
	return r.list(ctx, query, accountID)
}

// ListTransactions retrieves transactions matching the filter, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []any{}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.CreatedTo.IsZero() {
		args = append(args, filter.CreatedTo)
		query += fmt.Sprintf(" AND created_at < $%d", len(args))
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.list(ctx, query+";", args...)
}

func (r *PgxTransactionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.ID,
		&m.TransactionReference,
		&m.Type,
		&m.Amount,
		&m.Currency,
		&m.SourceAccountID,
		&m.DestinationAccountID,
		&m.Status,
		&m.Description,
		&m.FailureReason,
		&m.UserID,
		&m.Metadata,
		&m.CreatedAt,
		&m.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
