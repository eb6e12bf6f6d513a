package services

import (
	"context"

	"github.com/veloxpay/payment-service/internal/core/domain"
	portsrepo "github.com/veloxpay/payment-service/internal/core/ports/repositories"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
)

// NotificationService serves read queries over persisted notification
// delivery records. Writes happen only in the notification consumer.
type NotificationService struct {
	repo portsrepo.NotificationRepository
}

var _ portssvc.NotificationSvcFacade = (*NotificationService)(nil)

// NewNotificationService creates the notification query service.
func NewNotificationService(repo portsrepo.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// GetNotificationsByUserID retrieves delivery records for a user, newest first.
func (s *NotificationService) GetNotificationsByUserID(ctx context.Context, userID int64) ([]domain.NotificationDelivery, error) {
	return s.repo.ListNotificationsByUserID(ctx, userID)
}
