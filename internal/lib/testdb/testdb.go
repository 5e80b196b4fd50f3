// Package testdb starts a disposable PostgreSQL container for tests and applies the
// goose migrations to it.
package testdb

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/Houeta/employee-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	image    = "postgres:16-alpine"
	dbName   = "tests"
	username = "postgres"
	password = "0000"
)

// DB is a running PostgreSQL container with the schema applied.
type DB struct {
	Pool *pgxpool.Pool
	DSN  string
}

// MigrationsDir returns the absolute path of the repository migrations directory.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// Start runs a PostgreSQL container, applies migrations and registers cleanup on t.
func Start(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	startupTimeout := 60 * time.Second
	readyOccurrences := 2

	container, err := postgres.Run(ctx, image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(username),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(readyOccurrences).
				WithStartupTimeout(startupTimeout)),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := repository.NewDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, goose.SetDialect("postgres"))
	sqlDB := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, goose.Up(sqlDB, MigrationsDir()))

	return &DB{Pool: pool, DSN: dsn}
}

// Truncate removes every employee and resets the id sequence.
func (d *DB) Truncate(t *testing.T) {
	t.Helper()

	_, err := d.Pool.Exec(context.Background(), "TRUNCATE TABLE employees RESTART IDENTITY")
	require.NoError(t, err)
}
