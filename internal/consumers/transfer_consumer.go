package consumers

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/middleware"
)

const (
	missingDestinationReason = "Destination account ID is required for transfers"
	debitFailedReason        = "Failed to debit source account"
	debitReversedReason      = "Failed to credit destination account, debit was reversed"
	reversalFailedReason     = "Failed to credit destination account, debit reversal also failed"

	reversalSuffix = "-reversal"
)

// TransferConsumer settles queued transfers with a two-step debit-then-credit
// sequence. A credit failure after a successful debit triggers a compensating
// credit back to the source; there is no distributed transaction behind the
// two ledger calls.
type TransferConsumer struct {
	executor
}

// NewTransferConsumer creates the transfer execution consumer.
func NewTransferConsumer(
	repo portsrepo.TransactionRepositoryFacade,
	ledger portssvc.LedgerClient,
	locks portssvc.AccountLockSvcFacade,
	notifier portssvc.NotificationPublisher,
) *TransferConsumer {
	return &TransferConsumer{executor{
		repo:     repo,
		ledger:   ledger,
		locks:    locks,
		notifier: notifier,
		now:      time.Now,
	}}
}

// Handle processes one transfer message.
func (c *TransferConsumer) Handle(ctx context.Context, body []byte) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := c.loadTransaction(ctx, logger, body)
	if err != nil || txn == nil {
		return err
	}
	logger = logger.With(slog.String("reference", txn.TransactionReference))
	logger.Info("Received transfer transaction")

	if txn.DestinationAccountID == nil {
		txn.MarkFailed(missingDestinationReason)
		logger.Error("Transfer failed: destination account missing")
		return c.persistAndNotify(ctx, logger, txn)
	}
	destinationID := *txn.DestinationAccountID

	if err := c.acquireLocks(ctx, txn.SourceAccountID, destinationID); err != nil {
		return err
	}
	defer c.releaseLocks(ctx, logger, txn.SourceAccountID, destinationID)

	// Step 1: debit the source. Failure here leaves no partial state.
	if !c.ledger.DebitAccount(ctx, txn.SourceAccountID, txn.Amount, txn.Currency, txn.TransactionReference) {
		txn.MarkFailed(debitFailedReason)
		logger.Error("Transfer failed: could not debit source account", slog.Int64("source_account_id", txn.SourceAccountID))
		return c.persistAndNotify(ctx, logger, txn)
	}

	// Step 2: credit the destination.
	if c.ledger.CreditAccount(ctx, destinationID, txn.Amount, txn.Currency, txn.TransactionReference) {
		txn.MarkCompleted(c.now().UTC())
		logger.Info("Transfer transaction completed")
		return c.persistAndNotify(ctx, logger, txn)
	}

	// Credit failed after a successful debit: return the funds to the source
	// with a compensating credit under a distinct idempotency key.
	reversed := c.ledger.CreditAccount(ctx, txn.SourceAccountID, txn.Amount, txn.Currency, txn.TransactionReference+reversalSuffix)
	if reversed {
		txn.MarkFailed(debitReversedReason)
		logger.Warn("Transfer failed but debit was successfully reversed")
	} else {
		txn.MarkFailed(reversalFailedReason)
		// Funds left the source and never arrived; manual reconciliation required.
		logger.Error("Critical: transfer failed and debit reversal also failed",
			slog.Int64("source_account_id", txn.SourceAccountID),
			slog.Int64("destination_account_id", destinationID),
		)
	}

	return c.persistAndNotify(ctx, logger, txn)
}
