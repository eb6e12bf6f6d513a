package services

import "context"

// AccountLockSvcFacade is the distributed per-account mutual exclusion used to
// keep two in-flight transactions from mutating the same account. The lock
// entry expires on its own after a fixed TTL, so a crashed holder cannot wedge
// an account; a holder that outlives the TTL silently loses exclusivity.
type AccountLockSvcFacade interface {
	// AcquireAccountLock returns true only if this call created the lock entry.
	AcquireAccountLock(ctx context.Context, accountID int64) (bool, error)

	// ReleaseAccountLock removes the lock entry. Idempotent; releasing a lock
	// that does not exist is not an error.
	ReleaseAccountLock(ctx context.Context, accountID int64) error
}
