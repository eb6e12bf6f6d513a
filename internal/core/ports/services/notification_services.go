package services

import (
	"context"

	"github.com/veloxpay/payment-service/internal/core/domain"
)

// NotificationSvcFacade is the query surface for notification delivery records.
type NotificationSvcFacade interface {
	// GetNotificationsByUserID retrieves delivery records for a user, newest first.
	GetNotificationsByUserID(ctx context.Context, userID int64) ([]domain.NotificationDelivery, error)
}
