package services

import (
	"context"

	"github.com/veloxpay/payment-service/internal/core/domain"
)

// TransactionPublisher routes a freshly persisted PENDING transaction onto the
// queue matching its type.
type TransactionPublisher interface {
	PublishTransaction(ctx context.Context, txn domain.Transaction) error
}

// NotificationPublisher emits a notification event for a transaction that has
// reached a terminal status. Delivery is fire-and-forget from the caller's
// perspective.
type NotificationPublisher interface {
	PublishTransactionNotification(ctx context.Context, txn domain.Transaction) error
}
