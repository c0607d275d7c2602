package graph

import (
	"context"
	"errors"

	"github.com/99designs/gqlgen/graphql"
	"github.com/go-playground/validator/v10"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
	"github.com/smsagro/books_backend/workflow"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Error codes carried in extensions.code. HTTP routes map them to status codes.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeOrganizationRequired = "ORGANIZATION_REQUIRED"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeMissingAccount       = "MISSING_ACCOUNT"
	CodeUnavailable          = "UNAVAILABLE"
)

var errDatabaseNotReady = errors.New("database not ready")

// ErrorCode classifies a domain error.
func ErrorCode(err error) string {
	var (
		gstErr        *gst.ValidationError
		validationErr validator.ValidationErrors
		finalizeErr   *workflow.FinalizationError
	)
	switch {
	case errors.As(err, &finalizeErr):
		switch finalizeErr.Kind {
		case workflow.KindValidation:
			return CodeBadRequest
		case workflow.KindInvalidTransition:
			if errors.Is(err, utils.ErrorRecordNotFound) {
				return CodeNotFound
			}
			return CodeConflict
		case workflow.KindMissingAccount:
			return CodeMissingAccount
		default:
			return CodeUnavailable
		}
	case errors.As(err, &gstErr), errors.As(err, &validationErr):
		return CodeBadRequest
	case errors.Is(err, models.ErrInvoiceNotDraft):
		return CodeConflict
	case errors.Is(err, utils.ErrorRecordNotFound):
		return CodeNotFound
	case errors.Is(err, utils.ErrorOrganizationRequired):
		return CodeOrganizationRequired
	case errors.Is(err, errDatabaseNotReady):
		return CodeUnavailable
	default:
		return CodeBadRequest
	}
}

// ErrorExtensions lists the machine readable details of err.
func ErrorExtensions(ctx context.Context, err error) map[string]interface{} {
	ext := map[string]interface{}{"code": ErrorCode(err)}

	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		ext["fields"] = utils.ProcessValidationErrors(err)
	}
	var gstErr *gst.ValidationError
	if errors.As(err, &gstErr) {
		ext["field"] = gstErr.Field
	}
	var finalizeErr *workflow.FinalizationError
	if errors.As(err, &finalizeErr) {
		ext["kind"] = finalizeErr.Kind
		if len(finalizeErr.Missing) > 0 {
			ext["missingAccounts"] = finalizeErr.Missing
		}
		ext["retryable"] = finalizeErr.Retryable
	}
	if cid, ok := utils.GetCorrelationIdFromContext(ctx); ok {
		ext["correlationId"] = cid
	}
	return ext
}

// ErrorPresenter keeps gqlgen's message and path and adds ErrorExtensions.
// Parser and schema errors already carry their own shape and pass through.
func ErrorPresenter(ctx context.Context, err error) *gqlerror.Error {
	presented := graphql.DefaultErrorPresenter(ctx, err)
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) && gqlErr.Err == nil {
		return presented
	}
	if presented.Extensions == nil {
		presented.Extensions = map[string]interface{}{}
	}
	for k, v := range ErrorExtensions(ctx, err) {
		presented.Extensions[k] = v
	}
	return presented
}
