package database

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "contracts_application_id_key"})
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation")
	}
	if IsForeignKeyViolation(err) {
		t.Fatalf("did not expect fk violation")
	}
	if got := ConstraintName(err); got != "contracts_application_id_key" {
		t.Fatalf("unexpected constraint: %s", got)
	}
	if IsUniqueViolation(fmt.Errorf("plain")) {
		t.Fatalf("plain error is not a unique violation")
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(sql.ErrNoRows) || !IsNoRows(fmt.Errorf("x: %w", pgx.ErrNoRows)) {
		t.Fatalf("expected no rows")
	}
	if IsNoRows(fmt.Errorf("other")) {
		t.Fatalf("unexpected no rows")
	}
}
