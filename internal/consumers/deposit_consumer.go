package consumers

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/middleware"
)

const failedToCreditReason = "Failed to credit account"

// DepositConsumer settles queued deposit transactions by crediting the
// account on the store-of-value service.
type DepositConsumer struct {
	executor
}

// NewDepositConsumer creates the deposit execution consumer.
func NewDepositConsumer(
	repo portsrepo.TransactionRepositoryFacade,
	ledger portssvc.LedgerClient,
	locks portssvc.AccountLockSvcFacade,
	notifier portssvc.NotificationPublisher,
) *DepositConsumer {
	return &DepositConsumer{executor{
		repo:     repo,
		ledger:   ledger,
		locks:    locks,
		notifier: notifier,
		now:      time.Now,
	}}
}

// Handle processes one deposit message.
func (c *DepositConsumer) Handle(ctx context.Context, body []byte) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := c.loadTransaction(ctx, logger, body)
	if err != nil || txn == nil {
		return err
	}
	logger = logger.With(slog.String("reference", txn.TransactionReference))
	logger.Info("Received deposit transaction")

	if err := c.acquireLocks(ctx, txn.SourceAccountID); err != nil {
		return err
	}
	defer c.releaseLocks(ctx, logger, txn.SourceAccountID)

	credited := c.ledger.CreditAccount(ctx, txn.SourceAccountID, txn.Amount, txn.Currency, txn.TransactionReference)
	if credited {
		txn.MarkCompleted(c.now().UTC())
		logger.Info("Deposit transaction completed")
	} else {
		txn.MarkFailed(failedToCreditReason)
		logger.Error("Failed to complete deposit transaction")
	}

	return c.persistAndNotify(ctx, logger, txn)
}
