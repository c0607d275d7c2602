package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
)

// Outbox publish statuses for OutboxEvent.PublishStatus.
const (
	OutboxPublishStatusPending    = "PENDING"
	OutboxPublishStatusProcessing = "PROCESSING"
	OutboxPublishStatusSent       = "SENT"
	OutboxPublishStatusFailed     = "FAILED"
	OutboxPublishStatusDead       = "DEAD"
)

const EventTypeInvoiceFinalized = "invoice.finalized"

// OutboxEvent is written inside the business transaction and published after commit.
type OutboxEvent struct {
	ID               int                  `gorm:"primaryKey;autoIncrement;index:idx_outbox_dispatch,priority:3" json:"id"`
	OrganizationId   uuid.UUID            `gorm:"type:char(36);not null;index" json:"organization_id"`
	EventType        string               `gorm:"size:64;not null" json:"event_type"`
	ReferenceType    JournalReferenceType `gorm:"size:20;not null" json:"reference_type"`
	ReferenceId      uuid.UUID            `gorm:"type:char(36);not null;index" json:"reference_id"`
	OccurredAt       time.Time            `gorm:"not null" json:"occurred_at"`
	Payload          []byte               `json:"payload"`
	CorrelationId    string               `gorm:"size:64;index" json:"correlation_id"`
	PublishStatus    string               `gorm:"size:20;index;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"publish_status"`
	PublishedAt      *time.Time           `json:"published_at"`
	PubSubMessageId  *string              `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int                  `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time           `gorm:"index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time           `json:"locked_at"`
	LockedBy         *string              `gorm:"size:100" json:"locked_by"`
	LastPublishError *string              `gorm:"type:text" json:"last_publish_error"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

func ConvertToEventMessage(record OutboxEvent) config.EventMessage {
	return config.EventMessage{
		ID:             record.ReferenceId.String() + ":" + record.EventType,
		OrganizationId: record.OrganizationId.String(),
		EventType:      record.EventType,
		ReferenceType:  string(record.ReferenceType),
		ReferenceId:    record.ReferenceId.String(),
		OccurredAt:     record.OccurredAt,
		Payload:        record.Payload,
		CorrelationId:  record.CorrelationId,
	}
}
