// Package db is responsible for database connections and schema migrations.
// It hands out a `pgxpool.Pool`, the only shared resource in the service, and
// provides the transaction helper every repository builds on.
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "postgres" database driver (backed by lib/pq) used by migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgreSQL error codes the repositories translate into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Conn is what repositories need from PostgreSQL. Both *pgxpool.Pool and pgx.Tx
// satisfy it, so the same repository code runs inside or outside a transaction.
type Conn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewPool creates the application connection pool and verifies it with a ping.
func NewPool(cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, apperror.NewDatabaseError("error parsing DATABASE_URL", err)
	}

	// pgxpool has no separate overflow; the configured size plus overflow is the hard limit.
	poolConfig.MaxConns = int32(cfg.MaxConns())
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolConfig.HealthCheckPeriod = time.Minute
	if cfg.StatementTimeout > 0 {
		poolConfig.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, apperror.NewDatabaseError("error creating pgxpool", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, apperror.NewDatabaseError("error connecting to the database", err)
	}

	return pool, nil
}

// InTx runs fn inside a transaction on conn. The transaction is committed when fn
// returns nil and rolled back otherwise (including on panic). Calling InTx with a
// pgx.Tx creates a savepoint.
func InTx(ctx context.Context, conn Conn, fn func(Conn) error) error {
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		return fn(tx)
	})
}

// UniqueViolation reports whether err is a unique constraint violation and, if so,
// which constraint was hit.
func UniqueViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// ForeignKeyViolation reports whether err is a foreign key violation and, if so,
// which constraint was hit.
func ForeignKeyViolation(err error) (constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func newMigrator(dsn string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, apperror.NewMigrationError("failed to open embedded migrations", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, apperror.NewMigrationError("failed to create migrator", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.Printf("Warning: error closing migrator (source: %v, database: %v)", srcErr, dbErr)
	}
}

// RunMigrations applies all pending up migrations.
func RunMigrations(dsn string) error {
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to run migrations", err)
	}
	version, dirty, err := m.Version()
	if err == nil {
		log.Printf("Database schema at version %d (dirty=%t)", version, dirty)
	}
	return nil
}

// RollbackMigrations reverts the last `steps` migrations.
func RollbackMigrations(dsn string, steps int) error {
	if steps <= 0 {
		return apperror.NewMigrationError(fmt.Sprintf("invalid number of steps: %d", steps), nil)
	}
	m, err := newMigrator(dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperror.NewMigrationError("failed to roll back migrations", err)
	}
	return nil
}
