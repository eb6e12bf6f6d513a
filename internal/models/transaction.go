package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the database row shape for the transactions table.
type Transaction struct {
	ID                   int64           `db:"id"`
	TransactionReference string          `db:"transaction_reference"`
	Type                 string          `db:"type"`
	Amount               decimal.Decimal `db:"amount"`
	Currency             string          `db:"currency"`
	SourceAccountID      int64           `db:"source_account_id"`
	DestinationAccountID *int64          `db:"destination_account_id"`
	Status               string          `db:"status"`
	Description          string          `db:"description"`
	FailureReason        *string         `db:"failure_reason"`
	UserID               int64           `db:"user_id"`
	Metadata             *string         `db:"metadata"`
	CreatedAt            time.Time       `db:"created_at"`
	CompletedAt          *time.Time      `db:"completed_at"`
}
