// Package postgres implements the store.CounterStore interface backed by
// PostgreSQL. The increment is a single upsert statement, so concurrent
// visitors across any number of processes never lose an update.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/haowan-apps/fangboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.CounterStore backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.CounterStore.
var _ store.CounterStore = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Today returns the count recorded for the given day; a missing row reads
// as zero.
func (s *PostgresStore) Today(ctx context.Context, day string) (int, error) {
	return queryToday(ctx, s.db, day)
}

// Increment adds one visit to the given day and returns the new total.
func (s *PostgresStore) Increment(ctx context.Context, day string) (int, error) {
	return queryIncrement(ctx, s.db, day)
}

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryToday(ctx context.Context, db executor, day string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT count FROM daily_visits WHERE day = $1`, day).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query daily count: %w", err)
	}
	return count, nil
}

// queryIncrement performs the whole read-modify-write in one statement so
// concurrent increments are serialized by the database row lock.
func queryIncrement(ctx context.Context, db executor, day string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		INSERT INTO daily_visits (day, count)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET count = daily_visits.count + 1
		RETURNING count`, day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment daily count: %w", err)
	}
	return count, nil
}
