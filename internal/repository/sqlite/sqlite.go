// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo (calls C code from Go), which means you need a C
// compiler installed and cross-compilation becomes painful. modernc.org/sqlite
// is a pure Go translation of the SQLite C code — no C compiler needed, works
// everywhere Go works.
//
// TRANSACTIONS:
// Every repository method runs against a `querier`, an interface satisfied by
// both *sql.DB and *sql.Tx. The Store returned by New runs directly on the
// connection pool; InTx hands the callback a Store view whose repositories
// all share one *sql.Tx. The audited-operation runner relies on this to make
// "mutate then append audit row" a single atomic unit.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init function.
	_ "modernc.org/sqlite"

	"github.com/sakif/snippetbin/internal/repository"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repository methods are written against it so the same code runs inside
// and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// compile-time check that *DB implements repository.Store
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out repository views.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath (":memory:" for tests), applies
// the connection pragmas, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows a single writer at a time, and the pragmas below apply
	// per connection. One pooled connection sidesteps both problems (and
	// keeps ":memory:" databases from silently splitting across
	// connections).
	conn.SetMaxOpenConns(1)

	// Ping forces an immediate connection so a bad path or permissions
	// problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// default SQLite locks the whole database during writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them: snippets and
	// audit rows both reference users(id).
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Snippets() repository.SnippetRepository {
	return &snippetRepo{q: db.conn}
}

func (db *DB) Users() repository.UserRepository {
	return &userRepo{q: db.conn}
}

func (db *DB) AuditLogs() repository.AuditLogRepository {
	return &auditLogRepo{q: db.conn}
}

// InTx runs fn inside a single database transaction. Any error from fn
// rolls the transaction back; otherwise it is committed. The Store passed
// to fn serves repositories bound to the transaction.
func (db *DB) InTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	if err := fn(&txStore{tx: tx}); err != nil {
		// Rollback error is secondary — the fn error is the one that matters.
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// txStore is the transactional view of the store. All repositories it hands
// out share the same *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

var _ repository.Store = (*txStore)(nil)

func (s *txStore) Snippets() repository.SnippetRepository {
	return &snippetRepo{q: s.tx}
}

func (s *txStore) Users() repository.UserRepository {
	return &userRepo{q: s.tx}
}

func (s *txStore) AuditLogs() repository.AuditLogRepository {
	return &auditLogRepo{q: s.tx}
}

// InTx on an already-transactional store reuses the open transaction.
// SQLite has no nested transactions, and the caller's semantics ("these
// writes are atomic") already hold.
func (s *txStore) InTx(_ context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			is_active     INTEGER NOT NULL DEFAULT 1,
			is_staff      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id         TEXT PRIMARY KEY,
			title      TEXT NOT NULL DEFAULT '',
			code       TEXT NOT NULL,
			language   TEXT NOT NULL DEFAULT 'plaintext',
			style      TEXT NOT NULL DEFAULT 'monokai',
			linenos    INTEGER NOT NULL DEFAULT 0,
			owner_id   TEXT NOT NULL REFERENCES users(id),
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
		CREATE INDEX IF NOT EXISTS idx_snippets_owner_id ON snippets(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	// No UPDATE or DELETE ever targets this table; the schema stays plain
	// and the append-only rule is enforced in the authorization layer.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			action     TEXT NOT NULL,
			model_name TEXT NOT NULL,
			model_id   TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating audit_logs table: %w", err)
	}

	return nil
}
