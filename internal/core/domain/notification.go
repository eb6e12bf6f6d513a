package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NotificationMessage is the ephemeral payload published to the notification
// queue after a transaction reaches a terminal status. The core never reads it
// back; the events consumer persists a delivery-attempt record from it.
type NotificationMessage struct {
	UserID               int64             `json:"userId"`
	TransactionReference string            `json:"transactionReference"`
	TransactionType      TransactionType   `json:"transactionType"`
	TransactionStatus    TransactionStatus `json:"transactionStatus"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	Timestamp            time.Time         `json:"timestamp"`
	Message              string            `json:"message"`
}

// NewNotificationMessage builds the notification payload for a transaction.
// The message text is a pure function of the transaction fields.
func NewNotificationMessage(txn Transaction, now time.Time) NotificationMessage {
	return NotificationMessage{
		UserID:               txn.UserID,
		TransactionReference: txn.TransactionReference,
		TransactionType:      txn.Type,
		TransactionStatus:    txn.Status,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		Timestamp:            now,
		Message:              NotificationText(txn),
	}
}

// NotificationText renders the human-readable status line, e.g.
// "Your deposit transaction of 100.00 USD has been completed."
func NotificationText(txn Transaction) string {
	return fmt.Sprintf("Your %s transaction of %s %s has been %s.",
		strings.ToLower(string(txn.Type)),
		txn.Amount.StringFixed(2),
		txn.Currency,
		strings.ToLower(string(txn.Status)),
	)
}
