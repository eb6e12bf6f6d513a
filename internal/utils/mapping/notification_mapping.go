package mapping

import (
	"github.com/veloxpay/payment-service/internal/core/domain"
	"github.com/veloxpay/payment-service/internal/models"
)

// ToModelNotificationDelivery converts a domain NotificationDelivery to its model form
func ToModelNotificationDelivery(d domain.NotificationDelivery) models.NotificationDelivery {
	return models.NotificationDelivery{
		ID:                   d.ID,
		UserID:               d.UserID,
		TransactionReference: d.TransactionReference,
		TransactionType:      string(d.TransactionType),
		TransactionStatus:    string(d.TransactionStatus),
		Amount:               d.Amount,
		Currency:             d.Currency,
		Message:              d.Message,
		Delivered:            d.Delivered,
		CreatedAt:            d.CreatedAt,
	}
}

// ToDomainNotificationDelivery converts a model NotificationDelivery to its domain form
func ToDomainNotificationDelivery(m models.NotificationDelivery) domain.NotificationDelivery {
	return domain.NotificationDelivery{
		ID:                   m.ID,
		UserID:               m.UserID,
		TransactionReference: m.TransactionReference,
		TransactionType:      domain.TransactionType(m.TransactionType),
		TransactionStatus:    domain.TransactionStatus(m.TransactionStatus),
		Amount:               m.Amount,
		Currency:             m.Currency,
		Message:              m.Message,
		Delivered:            m.Delivered,
		CreatedAt:            m.CreatedAt,
	}
}
