package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/veloxpay/payment-service/internal/apperrors"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/dto"
	"github.com/veloxpay/payment-service/internal/middleware"
	"github.com/veloxpay/payment-service/internal/utils"
)

// TransactionService validates transaction requests, persists them PENDING
// and hands them to the type-routed queues. Settlement happens out of band in
// the execution consumers.
type TransactionService struct {
	repo      portsrepo.TransactionRepositoryFacade
	ledger    portssvc.LedgerClient
	publisher portssvc.TransactionPublisher
	locks     portssvc.AccountLockSvcFacade
}

var _ portssvc.TransactionSvcFacade = (*TransactionService)(nil)

// NewTransactionService creates the issuance service.
func NewTransactionService(
	repo portsrepo.TransactionRepositoryFacade,
	ledger portssvc.LedgerClient,
	publisher portssvc.TransactionPublisher,
	locks portssvc.AccountLockSvcFacade,
) *TransactionService {
	return &TransactionService{
		repo:      repo,
		ledger:    ledger,
		publisher: publisher,
		locks:     locks,
	}
}

// CreateDepositTransaction validates the deposit request, persists it PENDING
// and publishes it to the deposit queue.
func (s *TransactionService) CreateDepositTransaction(ctx context.Context, req dto.CreateDepositRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	if !s.ledger.IsAccountActive(ctx, req.AccountID) {
		return nil, fmt.Errorf("account is not active or does not exist: %w", apperrors.ErrValidation)
	}

	return s.issueWithLock(ctx, []int64{req.AccountID}, domain.Transaction{
		Type:            domain.Deposit,
		Amount:          req.Amount,
		Currency:        req.Currency,
		SourceAccountID: req.AccountID,
		Description:     req.Description,
		UserID:          req.UserID,
	})
}

// CreateWithdrawalTransaction validates the withdrawal request, persists it
// PENDING and publishes it to the withdrawal queue.
func (s *TransactionService) CreateWithdrawalTransaction(ctx context.Context, req dto.CreateWithdrawalRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}

	if !s.ledger.IsAccountActive(ctx, req.AccountID) {
		return nil, fmt.Errorf("account is not active or does not exist: %w", apperrors.ErrValidation)
	}

	return s.issueWithLock(ctx, []int64{req.AccountID}, domain.Transaction{
		Type:            domain.Withdrawal,
		Amount:          req.Amount,
		Currency:        req.Currency,
		SourceAccountID: req.AccountID,
		Description:     req.Description,
		UserID:          req.UserID,
	})
}

// CreateTransferTransaction validates the transfer request, persists it
// PENDING and publishes it to the transfer queue. The source account is
// checked before the destination; an inactive source short-circuits.
func (s *TransactionService) CreateTransferTransaction(ctx context.Context, req dto.CreateTransferRequest) (*domain.Transaction, error) {
	if err := validateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.SourceAccountID == req.DestinationAccountID {
		return nil, fmt.Errorf("source and destination accounts must be different: %w", apperrors.ErrValidation)
	}

	if !s.ledger.IsAccountActive(ctx, req.SourceAccountID) {
		return nil, fmt.Errorf("source account is not active or does not exist: %w", apperrors.ErrValidation)
	}
	if !s.ledger.IsAccountActive(ctx, req.DestinationAccountID) {
		return nil, fmt.Errorf("destination account is not active or does not exist: %w", apperrors.ErrValidation)
	}

	destinationID := req.DestinationAccountID
	return s.issueWithLock(ctx, []int64{req.SourceAccountID, req.DestinationAccountID}, domain.Transaction{
		Type:                 domain.Transfer,
		Amount:               req.Amount,
		Currency:             req.Currency,
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: &destinationID,
		Description:          req.Description,
		UserID:               req.UserID,
	})
}

// issueWithLock holds the per-account locks across persist and publish so a
// second request against the same account is rejected instead of racing.
func (s *TransactionService) issueWithLock(ctx context.Context, accountIDs []int64, txn domain.Transaction) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	held := make([]int64, 0, len(accountIDs))
	defer func() {
		for _, id := range held {
			if err := s.locks.ReleaseAccountLock(ctx, id); err != nil {
				logger.Error("Failed to release account lock", slog.Int64("account_id", id), slog.String("error", err.Error()))
			}
		}
	}()

	for _, id := range accountIDs {
		acquired, err := s.locks.AcquireAccountLock(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock for account %d: %w", id, err)
		}
		if !acquired {
			return nil, fmt.Errorf("account %d: %w", id, apperrors.ErrConcurrentTransaction)
		}
		held = append(held, id)
	}

	txn.TransactionReference = utils.NewTransactionReference()
	txn.Status = domain.Pending
	txn.CreatedAt = time.Now().UTC()

	saved, err := s.repo.SaveTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to save transaction", slog.String("reference", txn.TransactionReference), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Created transaction",
		slog.String("reference", saved.TransactionReference),
		slog.String("type", string(saved.Type)),
	)

	if err := s.publisher.PublishTransaction(ctx, *saved); err != nil {
		logger.Error("Failed to publish transaction", slog.String("reference", saved.TransactionReference), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to publish transaction %s: %w", saved.TransactionReference, err)
	}
	logger.Info("Published transaction to queue", slog.String("reference", saved.TransactionReference))

	return saved, nil
}

// GetTransactionByReference retrieves a transaction by its external reference.
func (s *TransactionService) GetTransactionByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.repo.FindTransactionByReference(ctx, reference)
}

// GetTransactionsByUserID retrieves all transactions initiated by a user.
func (s *TransactionService) GetTransactionsByUserID(ctx context.Context, userID int64) ([]domain.Transaction, error) {
	return s.repo.ListTransactionsByUserID(ctx, userID)
}

// GetTransactionsByAccountID retrieves all transactions touching an account.
func (s *TransactionService) GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	return s.repo.ListTransactionsByAccountID(ctx, accountID)
}

func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be greater than zero: %w", apperrors.ErrValidation)
	}
	return nil
}
