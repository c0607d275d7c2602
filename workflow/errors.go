package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type FinalizationErrorKind string

const (
	KindValidation          FinalizationErrorKind = "Validation"
	KindInvalidTransition   FinalizationErrorKind = "InvalidTransition"
	KindMissingAccount      FinalizationErrorKind = "MissingAccount"
	KindPersistenceConflict FinalizationErrorKind = "PersistenceConflict"
)

var (
	ErrValidation          = errors.New("invalid invoice")
	ErrInvalidTransition   = errors.New("invalid invoice transition")
	ErrMissingAccount      = errors.New("required chart of accounts not found")
	ErrPersistenceConflict = errors.New("persistence conflict")
)

// FinalizationError is returned for every failed finalization. Nothing was written when it is returned.
type FinalizationError struct {
	Kind      FinalizationErrorKind
	InvoiceID uuid.UUID
	// Missing lists the account names absent from the chart (MissingAccount only).
	Missing []string
	// Retryable marks conflicts a caller may retry as-is (deadlock, lock timeout, serialization failure).
	Retryable bool
	Err       error
}

func (e *FinalizationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "finalize invoice %s: %s", e.InvoiceID, e.sentinel().Error())
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FinalizationError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *FinalizationError) sentinel() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindInvalidTransition:
		return ErrInvalidTransition
	case KindMissingAccount:
		return ErrMissingAccount
	default:
		return ErrPersistenceConflict
	}
}

func newFinalizationError(kind FinalizationErrorKind, invoiceID uuid.UUID, err error) *FinalizationError {
	return &FinalizationError{Kind: kind, InvoiceID: invoiceID, Err: err}
}

// asFinalizationError keeps typed errors and maps everything else coming out of
// the store to PersistenceConflict.
func asFinalizationError(invoiceID uuid.UUID, err error) *FinalizationError {
	var fe *FinalizationError
	if errors.As(err, &fe) {
		return fe
	}
	return &FinalizationError{
		Kind:      KindPersistenceConflict,
		InvoiceID: invoiceID,
		Retryable: isConflictErr(err),
		Err:       err,
	}
}

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockDeadlock    = 1213
	mysqlErrLockWaitTimeout = 1205
)

var pgConflictCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"23505": true, // unique_violation
}

// isConflictErr reports driver errors caused by concurrent writers or lock timeouts.
func isConflictErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDuplicateEntry, mysqlErrLockDeadlock, mysqlErrLockWaitTimeout:
			return true
		}
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgConflictCodes[pgErr.Code]
	}
	return false
}
