package repositories

import (
	"context"
	"time"

	"github.com/veloxpay/payment-service/internal/core/domain"
)

// TransactionFilter narrows a transaction listing. Zero-value fields are
// ignored.
type TransactionFilter struct {
	Status      domain.TransactionStatus
	Type        domain.TransactionType
	CreatedFrom time.Time
	CreatedTo   time.Time
	Limit       int
	Offset      int
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByReference retrieves a transaction by its external reference.
	FindTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// ListTransactionsByUserID retrieves all transactions initiated by a user.
	ListTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)

	// ListTransactionsByAccountID retrieves all transactions where the account
	// is either the source or the destination.
	ListTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error)

	// ListTransactions retrieves transactions matching the filter, newest first.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction and returns it with the
	// database-assigned numeric id. Fails with apperrors.ErrDuplicate when the
	// reference already exists.
	SaveTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// UpdateTransactionStatus moves a transaction to a terminal status,
	// recording the failure reason or completion time alongside it.
	UpdateTransactionStatus(ctx context.Context, reference string, status domain.TransactionStatus, failureReason string, completedAt *time.Time) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
