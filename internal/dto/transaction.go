package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/veloxpay/payment-service/internal/core/domain"
)

// CreateDepositRequest is the payload for POST /transactions/deposit.
type CreateDepositRequest struct {
	AccountID   int64           `json:"accountId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	Description string          `json:"description"`
	UserID      int64           `json:"userId" binding:"required"`
}

// CreateWithdrawalRequest is the payload for POST /transactions/withdrawal.
type CreateWithdrawalRequest struct {
	AccountID   int64           `json:"accountId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	Description string          `json:"description"`
	UserID      int64           `json:"userId" binding:"required"`
}

// CreateTransferRequest is the payload for POST /transactions/transfer.
type CreateTransferRequest struct {
	SourceAccountID      int64           `json:"sourceAccountId" binding:"required"`
	DestinationAccountID int64           `json:"destinationAccountId" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	Currency             string          `json:"currency" binding:"required"`
	Description          string          `json:"description"`
	UserID               int64           `json:"userId" binding:"required"`
}

// TransactionResponse acknowledges an accepted transaction request. The
// terminal outcome is only observable through the query endpoints.
type TransactionResponse struct {
	Message              string                   `json:"message"`
	TransactionReference string                   `json:"transactionReference"`
	Status               domain.TransactionStatus `json:"status"`
}

// TransactionDetails is the read-only projection of a persisted transaction.
type TransactionDetails struct {
	TransactionReference string                   `json:"transactionReference"`
	Type                 domain.TransactionType   `json:"type"`
	Amount               decimal.Decimal          `json:"amount"`
	Currency             string                   `json:"currency"`
	SourceAccountID      int64                    `json:"sourceAccountId"`
	DestinationAccountID *int64                   `json:"destinationAccountId,omitempty"`
	Status               domain.TransactionStatus `json:"status"`
	Description          string                   `json:"description,omitempty"`
	FailureReason        string                   `json:"failureReason,omitempty"`
	UserID               int64                    `json:"userId"`
	CreatedAt            time.Time                `json:"createdAt"`
	CompletedAt          *time.Time               `json:"completedAt,omitempty"`
}

// ToTransactionDetails maps a domain transaction onto its API projection.
func ToTransactionDetails(txn domain.Transaction) TransactionDetails {
	return TransactionDetails{
		TransactionReference: txn.TransactionReference,
		Type:                 txn.Type,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Status:               txn.Status,
		Description:          txn.Description,
		FailureReason:        txn.FailureReason,
		UserID:               txn.UserID,
		CreatedAt:            txn.CreatedAt,
		CompletedAt:          txn.CompletedAt,
	}
}

// TransactionMessage is the JSON payload routed to the per-type queues.
// Consumers trust only the reference; the authoritative record is re-read
// from the store before any mutation decision.
type TransactionMessage struct {
	ID                   int64                    `json:"id"`
	TransactionReference string                   `json:"transactionReference"`
	Type                 domain.TransactionType   `json:"type"`
	Amount               decimal.Decimal          `json:"amount"`
	Currency             string                   `json:"currency"`
	SourceAccountID      int64                    `json:"sourceAccountId"`
	DestinationAccountID *int64                   `json:"destinationAccountId,omitempty"`
	Status               domain.TransactionStatus `json:"status"`
	Description          string                   `json:"description,omitempty"`
	UserID               int64                    `json:"userId"`
	CreatedAt            time.Time                `json:"createdAt"`
}

// ToTransactionMessage maps a persisted transaction onto its queue payload.
func ToTransactionMessage(txn domain.Transaction) TransactionMessage {
	return TransactionMessage{
		ID:                   txn.ID,
		TransactionReference: txn.TransactionReference,
		Type:                 txn.Type,
		Amount:               txn.Amount,
		Currency:             txn.Currency,
		SourceAccountID:      txn.SourceAccountID,
		DestinationAccountID: txn.DestinationAccountID,
		Status:               txn.Status,
		Description:          txn.Description,
		UserID:               txn.UserID,
		CreatedAt:            txn.CreatedAt,
	}
}
