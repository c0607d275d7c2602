package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsConflictErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062}, true},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213}, true},
		{"mysql lock wait", &mysqlDriver.MySQLError{Number: 1205}, true},
		{"mysql syntax", &mysqlDriver.MySQLError{Number: 1064}, false},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, true},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"pg unique", &pgconn.PgError{Code: "23505"}, true},
		{"pg undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadlock", fmt.Errorf("insert ledger: %w", &mysqlDriver.MySQLError{Number: 1213}), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := isConflictErr(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestFinalizationError_Message(t *testing.T) {
	id := uuid.MustParse("2f1d7c8e-5a4b-4c3d-9e8f-0a1b2c3d4e5f")
	err := &FinalizationError{Kind: KindMissingAccount, InvoiceID: id, Missing: []string{"Sales Revenue"}}
	msg := err.Error()
	if !strings.Contains(msg, id.String()) || !strings.Contains(msg, "Sales Revenue") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !errors.Is(err, ErrMissingAccount) || errors.Is(err, ErrValidation) {
		t.Fatalf("sentinel matching wrong for %q", msg)
	}
}

func TestAsFinalizationError_UnknownErrorIsConflict(t *testing.T) {
	id := uuid.New()
	fe := asFinalizationError(id, errors.New("connection reset"))
	if fe.Kind != KindPersistenceConflict || fe.Retryable {
		t.Fatalf("unexpected %+v", fe)
	}
	typed := newFinalizationError(KindInvalidTransition, id, nil)
	if asFinalizationError(id, fmt.Errorf("tx: %w", typed)) != typed {
		t.Fatalf("typed error should pass through")
	}
}
