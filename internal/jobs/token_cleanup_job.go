package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// TokenCleanupJobName is the name of the expired-token purge job
const TokenCleanupJobName = "token_cleanup"

// DefaultTokenCleanupTimeout bounds a single purge run
const DefaultTokenCleanupTimeout = 30 * time.Second

// TokenStore is the persistence surface the cleanup job needs.
// Implemented by repository.UserRepository.
type TokenStore interface {
	// ClearExpiredTokens nulls out every stored token whose expiry has
	// passed and returns the number of users affected.
	ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// TokenCleanupJob purges expired bearer tokens from user records.
// Expired tokens already fail validation; the purge keeps the table from
// accumulating dead rows in the token index.
type TokenCleanupJob struct {
	store   TokenStore
	logger  *zap.Logger
	timeout time.Duration
}

// NewTokenCleanupJob creates a new token cleanup job.
func NewTokenCleanupJob(store TokenStore, logger *zap.Logger, timeout time.Duration) *TokenCleanupJob {
	if timeout == 0 {
		timeout = DefaultTokenCleanupTimeout
	}
	return &TokenCleanupJob{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the purge. Called by the scheduler according to the
// configured cron expression.
func (j *TokenCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	cleared, err := j.store.ClearExpiredTokens(ctx, start)
	if err != nil {
		j.logger.Error("token cleanup failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("token cleanup finished",
		zap.Int64("tokens_cleared", cleared),
		zap.Duration("duration", time.Since(start)))
}
