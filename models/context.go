package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/utils"
)

func organizationIdFromContext(ctx context.Context) (uuid.UUID, error) {
	v, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || v == "" {
		return uuid.Nil, utils.ErrorOrganizationRequired
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid organization id %q: %w", v, err)
	}
	return id, nil
}

func errInvalidField(field string, value string) error {
	return fmt.Errorf("invalid %s %q", field, value)
}
