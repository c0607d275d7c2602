package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/internal/testdb"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
)

func TestPublishBackoff(t *testing.T) {
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 5 * time.Second},
		{1, 5 * time.Second},
		{2, 10 * time.Second},
		{4, 40 * time.Second},
		{8, 10 * time.Minute},
		{30, 10 * time.Minute},
	}
	for _, tc := range cases {
		if got := publishBackoff(5*time.Second, tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %s, got %s", tc.attempt, tc.want, got)
		}
	}
}

func TestConvertToEventMessage_DeterministicID(t *testing.T) {
	ref := uuid.New()
	msg := models.ConvertToEventMessage(models.OutboxEvent{
		OrganizationId: uuid.New(),
		EventType:      models.EventTypeInvoiceFinalized,
		ReferenceType:  models.JournalReferenceInvoice,
		ReferenceId:    ref,
	})
	if msg.ID != ref.String()+":"+models.EventTypeInvoiceFinalized {
		t.Fatalf("unexpected message id %q", msg.ID)
	}
}

func TestOutboxDispatcher_PublishesAndRetries(t *testing.T) {
	testdb.RequireIntegration(t)
	testdb.StartMySQL(t)

	db, err := config.OpenDatabase()
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	ok := models.OutboxEvent{
		OrganizationId: uuid.New(),
		EventType:      models.EventTypeInvoiceFinalized,
		ReferenceType:  models.JournalReferenceInvoice,
		ReferenceId:    uuid.New(),
		OccurredAt:     time.Now().UTC(),
		Payload:        []byte(`{}`),
		PublishStatus:  models.OutboxPublishStatusPending,
	}
	bad := ok
	bad.ReferenceId = uuid.New()
	if err := db.Create(&ok).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Create(&bad).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	d := NewOutboxDispatcher(db, testLogger())
	d.Publish = func(ctx context.Context, msg config.EventMessage) (string, error) {
		if msg.ReferenceId == bad.ReferenceId.String() {
			return "", errors.New("broker unavailable")
		}
		return "msg-1", nil
	}

	if sent := d.DispatchOnce(ctx); sent != 1 {
		t.Fatalf("expected 1 sent, got %d", sent)
	}

	var got models.OutboxEvent
	if err := db.First(&got, ok.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PublishStatus != models.OutboxPublishStatusSent || got.PubSubMessageId == nil || *got.PubSubMessageId != "msg-1" {
		t.Fatalf("unexpected sent row %+v", got)
	}
	if err := db.First(&got, bad.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.PublishStatus != models.OutboxPublishStatusFailed || got.NextAttemptAt == nil || got.PublishAttempts != 1 {
		t.Fatalf("unexpected failed row %+v", got)
	}

	// Not yet due for retry.
	if sent := d.DispatchOnce(ctx); sent != 0 {
		t.Fatalf("expected nothing due, got %d", sent)
	}

	if err := ReplayOutboxEvent(ctx, db, ok.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("sent rows must not replay, got %v", err)
	}
	if err := ReplayOutboxEvent(ctx, db, bad.ID); err != nil {
		t.Fatalf("ReplayOutboxEvent: %v", err)
	}
	d.Publish = func(ctx context.Context, msg config.EventMessage) (string, error) {
		return "msg-2", nil
	}
	if sent := d.DispatchOnce(ctx); sent != 1 {
		t.Fatalf("expected replayed event to publish, got %d", sent)
	}
}

func TestNewOutboxDispatcher_EnvPolicy(t *testing.T) {
	t.Setenv("OUTBOX_PUBLISH_MAX_ATTEMPTS", "3")
	t.Setenv("OUTBOX_PUBLISH_BASE_BACKOFF_SECONDS", "junk")
	d := NewOutboxDispatcher(nil, testLogger())
	if d.MaxAttempts != 3 || d.InitialBackoff != 5*time.Second {
		t.Fatalf("unexpected policy attempts=%d backoff=%s", d.MaxAttempts, d.InitialBackoff)
	}
	if d.DispatchOnce(context.Background()) != 0 {
		t.Fatalf("dispatcher without a database should do nothing")
	}
}
