package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/config"
)

const invoiceLockTTL = 30 * time.Second

// WithInvoiceLock runs fn while holding the Redis lock `lock:invoice:<id>` when
// REDIS_FINALIZE_LOCK is on. The lock is best-effort: when Redis is down or the
// lock is taken, fn runs anyway and the row lock inside the store serializes.
func WithInvoiceLock(ctx context.Context, logger *logrus.Logger, invoiceID uuid.UUID, fn func(ctx context.Context) error) error {
	redisLock := config.GetRedisLock()
	if !config.RedisFinalizeLockEnabled() || redisLock == nil {
		return fn(ctx)
	}

	fields := logrus.Fields{
		"field":      "WithInvoiceLock",
		"invoice_id": invoiceID.String(),
	}
	lock, err := redisLock.Obtain(ctx, "lock:invoice:"+invoiceID.String(), invoiceLockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.WithFields(fields).Warn("could not obtain redis lock; proceeding without redis lock")
		lock = nil
	} else if err != nil {
		logger.WithFields(fields).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		lock = nil
	}
	defer func() {
		if lock == nil {
			return
		}
		if releaseErr := lock.Release(context.Background()); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
			logger.WithFields(fields).Warn("failed to release redis lock: " + releaseErr.Error())
		}
	}()

	return fn(ctx)
}
