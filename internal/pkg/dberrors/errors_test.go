package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_center_memberships"}

	if !IsUniqueViolation(uniqueErr) {
		t.Error("expected 23505 to classify as unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("error assigning student: %w", uniqueErr)) {
		t.Error("expected wrapped 23505 to classify as unique violation")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Error("expected non-pg error to not classify")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("expected 23503 to not classify as unique violation")
	}
}

func TestIsUniqueConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_enrollments"})

	if !IsUniqueConstraintError(err, "uq_enrollments") {
		t.Error("expected match on the named constraint")
	}
	if IsUniqueConstraintError(err, "uq_center_memberships") {
		t.Error("expected no match on a different constraint")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "enrollments_course_id_fkey"}

	if !IsForeignKeyViolation(fkErr) {
		t.Error("expected 23503 to classify as foreign key violation")
	}
	if !IsForeignKeyViolation(fmt.Errorf("error deleting course: %w", fkErr)) {
		t.Error("expected wrapped 23503 to classify as foreign key violation")
	}
	if IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}) {
		t.Error("expected 23505 to not classify as foreign key violation")
	}
	if IsForeignKeyViolation(nil) {
		t.Error("expected nil to not classify")
	}
}
