package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/internal/testdb"
)

func TestWithInvoiceLock_HoldsAndReleases(t *testing.T) {
	testdb.RequireIntegration(t)
	testdb.StartRedis(t)
	t.Setenv("REDIS_FINALIZE_LOCK", "true")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	config.ConnectRedisWithRetry(ctx)
	if config.GetRedisLock() == nil {
		t.Fatalf("redis lock client not initialised")
	}

	invoiceID := uuid.New()
	key := "lock:invoice:" + invoiceID.String()

	ran := false
	err := WithInvoiceLock(ctx, testLogger(), invoiceID, func(ctx context.Context) error {
		ran = true
		if _, err := config.GetRedisLock().Obtain(ctx, key, time.Second, nil); !errors.Is(err, redislock.ErrNotObtained) {
			t.Fatalf("expected lock to be held during fn, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithInvoiceLock: %v", err)
	}
	if !ran {
		t.Fatalf("fn was not called")
	}

	lock, err := config.GetRedisLock().Obtain(ctx, key, time.Second, nil)
	if err != nil {
		t.Fatalf("expected lock to be released, got %v", err)
	}

	// A taken lock does not block the caller.
	ran = false
	if err := WithInvoiceLock(ctx, testLogger(), invoiceID, func(context.Context) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("WithInvoiceLock while taken: %v", err)
	}
	if !ran {
		t.Fatalf("fn was not called while lock was taken")
	}
	_ = lock.Release(ctx)
}
