package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/gophticket/internal/client/migrations"
	"github.com/dmitrijs2005/gophticket/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder style and migrations for SQLStorage.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

type queries struct {
	get, set, remove string
}

var dialectQueries = map[Dialect]queries{
	DialectSQLite: {
		get: `SELECT value FROM kv_storage WHERE key = ?`,
		set: `INSERT INTO kv_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv_storage WHERE key = ?`,
	},
	DialectPostgres: {
		get: `SELECT value FROM kv_storage WHERE key = $1`,
		set: `INSERT INTO kv_storage (key, value, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		remove: `DELETE FROM kv_storage WHERE key = $1`,
	},
}

// SQLStorage keeps every key as one row of the kv_storage table.
type SQLStorage struct {
	db *sql.DB
	q  queries
}

// NewSQLStorage wraps an already migrated database.
func NewSQLStorage(db *sql.DB, dialect Dialect) *SQLStorage {
	q, ok := dialectQueries[dialect]
	if !ok {
		q = dialectQueries[DialectSQLite]
	}
	return &SQLStorage{db: db, q: q}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations for dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect Dialect) error {
	goose.SetBaseFS(migrations.Migrations)

	gooseDialect, dir := "sqlite3", migrations.DirSQLite
	if dialect == DialectPostgres {
		gooseDialect, dir = "pgx", migrations.DirPostgres
	}
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return gooseUpContext(ctx, db, dir)
}

// OpenSQLite opens (creating if needed) the SQLite database at dsn and
// applies migrations.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStorage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases coherent and avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db, DialectSQLite); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite storage: %w", err)
	}
	return NewSQLStorage(db, DialectSQLite), nil
}

// OpenPostgres connects through the pgx stdlib driver and applies migrations.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStorage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := RunMigrations(ctx, db, DialectPostgres); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate postgres storage: %w", err)
	}
	return NewSQLStorage(db, DialectPostgres), nil
}

func (s *SQLStorage) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStorage) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.q.set, key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// SetMany writes all values in one transaction, in key order.
func (s *SQLStorage) SetMany(ctx context.Context, values map[string][]byte) error {
	rows := make([][]any, 0, len(values))
	for _, k := range slices.Sorted(maps.Keys(values)) {
		rows = append(rows, []any{k, values[k]})
	}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return dbx.ExecEach(ctx, tx, s.q.set, rows)
	})
	if err != nil {
		return fmt.Errorf("failed to set batch: %w", err)
	}
	return nil
}

func (s *SQLStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.q.remove, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
