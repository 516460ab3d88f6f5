package db

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	constraint, ok := UniqueViolation(err)
	if !ok {
		t.Fatal("Expected unique violation to be detected through wrapping")
	}
	if constraint != "users_email_key" {
		t.Errorf("Expected users_email_key, got %s", constraint)
	}

	if _, ok := UniqueViolation(&pgconn.PgError{Code: "23503"}); ok {
		t.Error("Expected foreign key violation not to count as unique violation")
	}
	if _, ok := UniqueViolation(errors.New("boom")); ok {
		t.Error("Expected plain error not to count as unique violation")
	}
	constraint, ok = ForeignKeyViolation(&pgconn.PgError{Code: "23503", ConstraintName: "tasks_user_id_fkey"})
	if !ok || constraint != "tasks_user_id_fkey" {
		t.Errorf("Expected tasks_user_id_fkey violation, got %q (%t)", constraint, ok)
	}
	if _, ok := ForeignKeyViolation(&pgconn.PgError{Code: "23505"}); ok {
		t.Error("Expected unique violation not to count as foreign key violation")
	}
}

func TestMigrationsAreEmbeddedInPairs(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	ups, downs := 0, 0
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".up.sql"):
			ups++
		case strings.HasSuffix(f, ".down.sql"):
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Errorf("Expected matching up/down migrations, got %d up and %d down", ups, downs)
	}

	tasks, err := fs.ReadFile(migrationsFS, "migrations/000003_create_tasks.up.sql")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	for _, want := range []string{"ON DELETE CASCADE", "ON DELETE SET NULL", "completed_at IS NOT NULL"} {
		if !strings.Contains(string(tasks), want) {
			t.Errorf("Expected tasks migration to contain %q", want)
		}
	}
}
