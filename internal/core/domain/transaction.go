package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the fixed execution script for a transaction.
type TransactionType string

const (
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
	Transfer   TransactionType = "TRANSFER"
)

// TransactionStatus is the lifecycle state of a transaction. The only legal
// transitions are Pending -> Completed and Pending -> Failed.
type TransactionStatus string

const (
	Pending   TransactionStatus = "PENDING"
	Completed TransactionStatus = "COMPLETED"
	Failed    TransactionStatus = "FAILED"
	// Reversed is reserved for administrative reversal tooling; no code path
	// in this service assigns it.
	Reversed TransactionStatus = "REVERSED"
)

// Transaction is a single deposit, withdrawal or transfer moving through the
// pipeline. It is created PENDING by the issuance service and mutated exactly
// once, by the matching consumer, to a terminal status.
type Transaction struct {
	ID                   int64             `json:"id"`
	TransactionReference string            `json:"transactionReference"` // TXN-XXXXXXXX, assigned at issuance, immutable
	Type                 TransactionType   `json:"type"`
	Amount               decimal.Decimal   `json:"amount"`
	Currency             string            `json:"currency"`
	SourceAccountID      int64             `json:"sourceAccountId"`
	DestinationAccountID *int64            `json:"destinationAccountId,omitempty"` // transfers only
	Status               TransactionStatus `json:"status"`
	Description          string            `json:"description"`
	FailureReason        string            `json:"failureReason,omitempty"`
	UserID               int64             `json:"userId"`
	Metadata             string            `json:"metadata,omitempty"`
	CreatedAt            time.Time         `json:"createdAt"`
	CompletedAt          *time.Time        `json:"completedAt,omitempty"` // set only on COMPLETED
}

// MarkCompleted moves the transaction into its successful terminal state.
func (t *Transaction) MarkCompleted(now time.Time) {
	t.Status = Completed
	t.CompletedAt = &now
	t.FailureReason = ""
}

// MarkFailed moves the transaction into its failed terminal state.
func (t *Transaction) MarkFailed(reason string) {
	t.Status = Failed
	t.FailureReason = reason
}
