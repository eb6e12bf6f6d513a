package services

import (
	"context"

	"github.com/veloxpay/payment-service/internal/core/domain"
	"github.com/veloxpay/payment-service/internal/dto"
)

// TransactionSvcFacade is the issuance and query surface for transactions.
type TransactionSvcFacade interface {
	// CreateDepositTransaction validates the request, persists a PENDING
	// deposit and publishes it to the deposit queue.
	CreateDepositTransaction(ctx context.Context, req dto.CreateDepositRequest) (*domain.Transaction, error)

	// CreateWithdrawalTransaction validates the request, persists a PENDING
	// withdrawal and publishes it to the withdrawal queue.
	CreateWithdrawalTransaction(ctx context.Context, req dto.CreateWithdrawalRequest) (*domain.Transaction, error)

	// CreateTransferTransaction validates the request, persists a PENDING
	// transfer and publishes it to the transfer queue.
	CreateTransferTransaction(ctx context.Context, req dto.CreateTransferRequest) (*domain.Transaction, error)

	// GetTransactionByReference retrieves a transaction by its external reference.
	GetTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error)

	// GetTransactionsByUserID retrieves all transactions initiated by a user.
	GetTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error)

	// GetTransactionsByAccountID retrieves all transactions touching an account.
	GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}
