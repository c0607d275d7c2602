package utils

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/internal/validation"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator; decimal fields work with numeric tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validation.New()
	})
	return validate
}

func ValidateStruct(s interface{}) error {
	return Validator().Struct(s)
}

func ValidateUnique[T any](ctx context.Context, organizationId uuid.UUID, column string, value interface{}, exceptId uuid.UUID) error {
	var count int64
	var err error
	if exceptId == uuid.Nil {
		count, err = ResourceCountWhere[T](ctx, organizationId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, organizationId, column+" = ? AND NOT id = ?", value, exceptId)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records, using WHERE organization_id = ? AND $condition
func ResourceCountWhere[T any](ctx context.Context, organizationId uuid.UUID, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	if organizationId != uuid.Nil {
		dbCtx = dbCtx.Where("organization_id = ?", organizationId)
	}
	dbCtx = dbCtx.Where(condition, value...)
	var count int64
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
