package gst

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/smsagro/books_backend/internal/validation"
)

// ValidationError reports a tax input the engine refuses to compute with.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gst: invalid %s: %s", e.Field, e.Reason)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validation.New()
	})
	return validate
}

func validateLineInput(in LineInput) error {
	err := getValidator().Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fieldName(fe.Field()), Reason: reasonFor(fe)}
	}
	return &ValidationError{Field: "line", Reason: err.Error()}
}

func fieldName(structField string) string {
	switch structField {
	case "UnitPrice":
		return "unitPrice"
	case "Quantity":
		return "quantity"
	case "TaxRatePercent":
		return "taxRatePercent"
	case "SupplierJurisdiction":
		return "supplierJurisdiction"
	case "CustomerJurisdiction":
		return "customerJurisdiction"
	case "PricingMode":
		return "pricingMode"
	default:
		return structField
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte":
		return "must not be negative"
	case "required":
		return "is required"
	case "oneof":
		return "unknown pricing mode"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}
