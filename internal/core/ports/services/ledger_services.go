package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// LedgerClient wraps the external store-of-value service's HTTP contract.
// Every failure mode (non-2xx, transport error, auth failure) is collapsed
// into a false return; callers cannot distinguish rejection from outage.
type LedgerClient interface {
	// IsAccountActive reports whether the account exists and is ACTIVE.
	// Fail-closed: any error yields false.
	IsAccountActive(ctx context.Context, accountID int64) bool

	// CreditAccount credits the account, idempotency-keyed by reference.
	CreditAccount(ctx context.Context, accountID int64, amount decimal.Decimal, currency, reference string) bool

	// DebitAccount debits the account, idempotency-keyed by reference.
	DebitAccount(ctx context.Context, accountID int64, amount decimal.Decimal, currency, reference string) bool
}
