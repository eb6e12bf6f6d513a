package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/veloxpay/payment-service/internal/core/domain"
)

// NotificationDetails is the read-only projection of a persisted notification
// delivery record.
type NotificationDetails struct {
	ID                   int64                    `json:"id"`
	TransactionReference string                   `json:"transactionReference"`
	TransactionType      domain.TransactionType   `json:"transactionType"`
	TransactionStatus    domain.TransactionStatus `json:"transactionStatus"`
	Amount               decimal.Decimal          `json:"amount"`
	Currency             string                   `json:"currency"`
	Message              string                   `json:"message"`
	Delivered            bool                     `json:"delivered"`
	CreatedAt            time.Time                `json:"createdAt"`
}

// ToNotificationDetails maps a delivery record onto its API projection.
func ToNotificationDetails(d domain.NotificationDelivery) NotificationDetails {
	return NotificationDetails{
		ID:                   d.ID,
		TransactionReference: d.TransactionReference,
		TransactionType:      d.TransactionType,
		TransactionStatus:    d.TransactionStatus,
		Amount:               d.Amount,
		Currency:             d.Currency,
		Message:              d.Message,
		Delivered:            d.Delivered,
		CreatedAt:            d.CreatedAt,
	}
}
