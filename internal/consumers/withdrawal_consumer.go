package consumers

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/middleware"
)

const failedToDebitReason = "Failed to debit account"

// WithdrawalConsumer settles queued withdrawal transactions by debiting the
// account on the store-of-value service.
type WithdrawalConsumer struct {
	executor
}

// NewWithdrawalConsumer creates the withdrawal execution consumer.
func NewWithdrawalConsumer(
	repo portsrepo.TransactionRepositoryFacade,
	ledger portssvc.LedgerClient,
	locks portssvc.AccountLockSvcFacade,
	notifier portssvc.NotificationPublisher,
) *WithdrawalConsumer {
	return &WithdrawalConsumer{executor{
		repo:     repo,
		ledger:   ledger,
		locks:    locks,
		notifier: notifier,
		now:      time.Now,
	}}
}

// Handle processes one withdrawal message.
func (c *WithdrawalConsumer) Handle(ctx context.Context, body []byte) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := c.loadTransaction(ctx, logger, body)
	if err != nil || txn == nil {
		return err
	}
	logger = logger.With(slog.String("reference", txn.TransactionReference))
	logger.Info("Received withdrawal transaction")

	if err := c.acquireLocks(ctx, txn.SourceAccountID); err != nil {
		return err
	}
	defer c.releaseLocks(ctx, logger, txn.SourceAccountID)

	debited := c.ledger.DebitAccount(ctx, txn.SourceAccountID, txn.Amount, txn.Currency, txn.TransactionReference)
	if debited {
		txn.MarkCompleted(c.now().UTC())
		logger.Info("Withdrawal transaction completed")
	} else {
		txn.MarkFailed(failedToDebitReason)
		logger.Error("Failed to complete withdrawal transaction")
	}

	return c.persistAndNotify(ctx, logger, txn)
}
