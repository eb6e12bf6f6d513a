package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationDelivery is the persisted record of one attempt to deliver a
// notification message to a user.
type NotificationDelivery struct {
	ID                   int64             `json:"id"`
	UserID               int64             `json:"userId"`
	TransactionReference string            `json:"transactionReference"`
	TransactionType      TransactionType   `json:"transactionType"`
	TransactionStatus    TransactionStatus `json:"transactionStatus"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	Message              string            `json:"message"`
	Delivered            bool              `json:"delivered"`
	CreatedAt            time.Time         `json:"createdAt"`
}
