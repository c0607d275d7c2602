package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/internal/testdb"
	"github.com/smsagro/books_backend/workflow"
)

func TestInvalidateReports_UsesInvoiceOrganization(t *testing.T) {
	testdb.RequireIntegration(t)
	testdb.StartRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	config.ConnectRedisWithRetry(ctx)

	orgId := uuid.New()
	key := "BalanceSheet:" + orgId.String()
	if err := config.SetRedisObject(ctx, key, map[string]string{"cached": "yes"}, time.Minute); err != nil {
		t.Fatalf("SetRedisObject: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	// no organization in ctx, as when finalize runs without --org
	invalidateReports(ctx, logger, &workflow.FinalizeResult{InvoiceId: uuid.New(), OrganizationId: orgId})

	var dest map[string]string
	found, err := config.GetRedisObject(ctx, key, &dest)
	if err != nil {
		t.Fatalf("GetRedisObject: %v", err)
	}
	if found {
		t.Fatalf("balance sheet cache for %s still present", orgId)
	}
}
