package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	portssvc "github.com/veloxpay/payment-service/internal/core/ports/services"
)

// LockTTL bounds how long a crashed holder can keep an account locked. A
// holder that runs past the TTL silently loses exclusivity.
const LockTTL = 12 * time.Second

const keyPrefix = "transaction:account:"

// RedisLockService implements per-account mutual exclusion on an expiring
// Redis key. There is no ownership token: any caller, or the TTL, can clear
// the entry.
type RedisLockService struct {
	client *redis.Client
	logger *slog.Logger
}

var _ portssvc.AccountLockSvcFacade = (*RedisLockService)(nil)

// NewRedisLockService creates a lock service backed by the given Redis client.
func NewRedisLockService(client *redis.Client, logger *slog.Logger) *RedisLockService {
	return &RedisLockService{client: client, logger: logger}
}

// LockKey returns the Redis key guarding accountID.
func LockKey(accountID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, accountID)
}

// AcquireAccountLock atomically creates the lock entry with the fixed TTL.
// It returns true only if this call created the entry.
func (s *RedisLockService) AcquireAccountLock(ctx context.Context, accountID int64) (bool, error) {
	acquired, err := s.client.SetNX(ctx, LockKey(accountID), "LOCKED", LockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for account %d: %w", accountID, err)
	}

	if acquired {
		s.logger.Info("Acquired transaction lock", slog.Int64("account_id", accountID))
	} else {
		s.logger.Warn("Failed to acquire transaction lock, concurrent transaction in progress", slog.Int64("account_id", accountID))
	}

	return acquired, nil
}

// ReleaseAccountLock deletes the lock entry unconditionally. Idempotent.
func (s *RedisLockService) ReleaseAccountLock(ctx context.Context, accountID int64) error {
	if err := s.client.Del(ctx, LockKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to release lock for account %d: %w", accountID, err)
	}
	s.logger.Info("Released transaction lock", slog.Int64("account_id", accountID))
	return nil
}
