package config

import (
	"os"
	"strings"
)

// OutboxEnabled makes invoice finalization write an `invoice.finalized` outbox row
// in the same transaction, for the dispatcher to publish to Pub/Sub after commit.
//
// Set via env:
// - OUTBOX_ENABLED=true
func OutboxEnabled() bool {
	return envBool("OUTBOX_ENABLED")
}

// RedisFinalizeLockEnabled turns on the best-effort Redis lock taken around
// finalization by the HTTP and CLI adapters. Row locks still serialize without it.
//
// Set via env:
// - REDIS_FINALIZE_LOCK=true
func RedisFinalizeLockEnabled() bool {
	return envBool("REDIS_FINALIZE_LOCK")
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
