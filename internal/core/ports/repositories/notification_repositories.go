package repositories

import (
	"context"

	"github.com/veloxpay/payment-service/internal/core/domain"
)

// NotificationRepository persists notification delivery attempts.
type NotificationRepository interface {
	// SaveNotificationDelivery records one delivery attempt and returns it
	// with the database-assigned id.
	SaveNotificationDelivery(ctx context.Context, delivery domain.NotificationDelivery) (*domain.NotificationDelivery, error)

	// ListNotificationsByUserID retrieves delivery records for a user, newest first.
	ListNotificationsByUserID(ctx context.Context, userID int64) ([]domain.NotificationDelivery, error)
}
