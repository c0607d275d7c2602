package models

import "github.com/google/uuid"

// Data is a row a dataloader resolves by its own id.
type Data interface {
	GetId() uuid.UUID
}

// RelatedData is a row a dataloader groups under its parent's id.
type RelatedData interface {
	GetReferenceId() uuid.UUID
}
