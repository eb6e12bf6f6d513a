package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationDelivery is the database row shape for the notifications table.
type NotificationDelivery struct {
	ID                   int64           `db:"id"`
	UserID               int64           `db:"user_id"`
	TransactionReference string          `db:"transaction_reference"`
	TransactionType      string          `db:"transaction_type"`
	TransactionStatus    string          `db:"transaction_status"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	Message              string          `db:"message"`
	Delivered            bool            `db:"delivered"`
	CreatedAt            time.Time       `db:"created_at"`
}
