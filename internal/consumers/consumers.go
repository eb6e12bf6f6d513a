// Package consumers holds the per-type execution consumers that settle queued
// transactions against the store-of-value service and the notification
// consumer that records delivery attempts.
//
// A consumer trusts nothing from the queue payload except the transaction
// reference: the authoritative record is re-read from the store before any
// mutation decision. Returning an error from a handler dead-letters the
// message; returning nil acknowledges it.
package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/veloxpay/payment-service/internal/apperrors"
	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
	"github.com/veloxpay/payment-service/internal/dto"
)

// executor bundles the collaborators shared by the three execution consumers.
type executor struct {
	repo     portsrepo.TransactionRepositoryFacade
	ledger   portssvc.LedgerClient
	locks    portssvc.AccountLockSvcFacade
	notifier portssvc.NotificationPublisher
	now      func() time.Time
}

// loadTransaction decodes the message and re-reads the authoritative record.
// A record that no longer exists is an unrecoverable anomaly for this message:
// it is logged and dropped (nil transaction, nil error) with no retry.
func (e *executor) loadTransaction(ctx context.Context, logger *slog.Logger, body []byte) (*domain.Transaction, error) {
	var msg dto.TransactionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction message: %w", err)
	}

	txn, err := e.repo.FindTransactionByReference(ctx, msg.TransactionReference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Transaction not found, dropping message", slog.String("reference", msg.TransactionReference))
			return nil, nil
		}
		return nil, err
	}
	return txn, nil
}

// acquireLocks takes the per-account locks in order, rolling back on a refusal
// so a partly locked message never wedges an account until the TTL.
func (e *executor) acquireLocks(ctx context.Context, accountIDs ...int64) error {
	held := make([]int64, 0, len(accountIDs))
	for _, id := range accountIDs {
		acquired, err := e.locks.AcquireAccountLock(ctx, id)
		if err == nil && !acquired {
			err = fmt.Errorf("account %d: %w", id, apperrors.ErrConcurrentTransaction)
		}
		if err != nil {
			for _, heldID := range held {
				_ = e.locks.ReleaseAccountLock(ctx, heldID)
			}
			return err
		}
		held = append(held, id)
	}
	return nil
}

func (e *executor) releaseLocks(ctx context.Context, logger *slog.Logger, accountIDs ...int64) {
	for _, id := range accountIDs {
		if err := e.locks.ReleaseAccountLock(ctx, id); err != nil {
			logger.Error("Failed to release account lock", slog.Int64("account_id", id), slog.String("error", err.Error()))
		}
	}
}

// persistAndNotify writes the terminal status and publishes the notification.
// A failed notification publish is logged but does not fail the message: the
// terminal status is already durable and delivery is fire-and-forget.
func (e *executor) persistAndNotify(ctx context.Context, logger *slog.Logger, txn *domain.Transaction) error {
	if err := e.repo.UpdateTransactionStatus(ctx, txn.TransactionReference, txn.Status, txn.FailureReason, txn.CompletedAt); err != nil {
		return err
	}

	if err := e.notifier.PublishTransactionNotification(ctx, *txn); err != nil {
		logger.Error("Failed to publish notification", slog.String("reference", txn.TransactionReference), slog.String("error", err.Error()))
	}
	return nil
}
