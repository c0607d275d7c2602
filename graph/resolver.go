package graph

import (
	"context"

	_ "github.com/99designs/gqlgen/plugin"
	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

//go:generate go run github.com/99designs/gqlgen
// This file will not be regenerated automatically.
//
// It serves as dependency injection for your app, add any dependencies you require here.

type Resolver struct {
	Tracer trace.Tracer
}

func (r *Resolver) tracer() trace.Tracer {
	if r.Tracer == nil {
		return otel.Tracer("github.com/smsagro/books_backend/graph")
	}
	return r.Tracer
}

// organizationId is the tenant the request was scoped to by the organization middleware.
func organizationId(ctx context.Context) (uuid.UUID, error) {
	if err := databaseReady(); err != nil {
		return uuid.Nil, err
	}
	v, ok := utils.GetOrganizationIdFromContext(ctx)
	if !ok || v == "" {
		return uuid.Nil, utils.ErrorOrganizationRequired
	}
	return uuid.Parse(v)
}

func databaseReady() error {
	if config.GetDB() == nil {
		return errDatabaseNotReady
	}
	return nil
}
