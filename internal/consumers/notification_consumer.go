package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	"github.com/veloxpay/payment-service/internal/middleware"
)

// NotificationConsumer drains the notification queue and persists one
// delivery-attempt record per message. Actual delivery to the user (push,
// email) is another service's job; this consumer records the attempt.
type NotificationConsumer struct {
	repo portsrepo.NotificationRepository
	now  func() time.Time
}

// NewNotificationConsumer creates the notification consumer.
func NewNotificationConsumer(repo portsrepo.NotificationRepository) *NotificationConsumer {
	return &NotificationConsumer{repo: repo, now: time.Now}
}

// Handle processes one notification message.
func (c *NotificationConsumer) Handle(ctx context.Context, body []byte) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	var msg domain.NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("failed to unmarshal notification message: %w", err)
	}
	logger = logger.With(slog.String("reference", msg.TransactionReference))
	logger.Info("Received notification", slog.Int64("user_id", msg.UserID))

	delivery := domain.NotificationDelivery{
		UserID:               msg.UserID,
		TransactionReference: msg.TransactionReference,
		TransactionType:      msg.TransactionType,
		TransactionStatus:    msg.TransactionStatus,
		Amount:               msg.Amount,
		Currency:             msg.Currency,
		Message:              msg.Message,
		Delivered:            true,
		CreatedAt:            c.now().UTC(),
	}

	saved, err := c.repo.SaveNotificationDelivery(ctx, delivery)
	if err != nil {
		return err
	}

	logger.Info("Saved notification delivery record", slog.Int64("notification_id", saved.ID))
	return nil
}
