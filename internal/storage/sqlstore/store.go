// Package sqlstore implements storage.Store on database/sql. The same
// repositories serve SQLite (modernc, pure Go) and PostgreSQL (pgx); queries
// are written with ? placeholders and rebound per dialect.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver

	"github.com/mmynk/splitledger/internal/dbx"
	"github.com/mmynk/splitledger/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	txOpts  *sql.TxOptions
}

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies migrations. Transactions take the database write lock when they
// begin, so concurrent writers queue instead of interleaving.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := "file:" + path +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return open(ctx, db, SQLite, nil)
}

// OpenPostgres connects to PostgreSQL using a pgx connection string and
// applies migrations. Transactions run at SERIALIZABLE isolation.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return open(ctx, db, Postgres, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

func open(ctx context.Context, db *sql.DB, dialect Dialect, txOpts *sql.TxOptions) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(ctx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, dialect: dialect, txOpts: txOpts}, nil
}

// New wraps an already migrated database handle.
func New(db *sql.DB, dialect Dialect) *Store {
	s := &Store{db: db, dialect: dialect}
	if dialect == Postgres {
		s.txOpts = &sql.TxOptions{Isolation: sql.LevelSerializable}
	}
	return s
}

// Dialect reports which SQL dialect the store speaks.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

func (s *Store) Repos() storage.Repositories {
	return NewRepositories(s.db, s.dialect)
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) error {
	return dbx.WithTx(ctx, s.db, s.txOpts, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewRepositories(tx, s.dialect))
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Repositories binds every repository to one DBTX.
type Repositories struct {
	db      dbx.DBTX
	dialect Dialect
}

// NewRepositories returns repositories that run on db, which may be a
// *sql.DB or a *sql.Tx.
func NewRepositories(db dbx.DBTX, dialect Dialect) *Repositories {
	return &Repositories{db: db, dialect: dialect}
}

func (r *Repositories) base() base { return base{db: r.db, dialect: r.dialect} }

func (r *Repositories) Users() storage.UserRepository { return &UserRepository{r.base()} }

func (r *Repositories) Friends() storage.FriendRepository { return &FriendRepository{r.base()} }

func (r *Repositories) Groups() storage.GroupRepository { return &GroupRepository{r.base()} }

func (r *Repositories) Categories() storage.CategoryRepository {
	return &CategoryRepository{r.base()}
}

func (r *Repositories) Expenses() storage.ExpenseRepository { return &ExpenseRepository{r.base()} }

func (r *Repositories) SharedExpenses() storage.SharedExpenseRepository {
	return &SharedExpenseRepository{r.base()}
}

func (r *Repositories) SettledExpenses() storage.SettledExpenseRepository {
	return &SettledExpenseRepository{r.base()}
}

func (r *Repositories) Settlements() storage.SettlementRepository {
	return &SettlementRepository{r.base()}
}

func (r *Repositories) Feedback() storage.FeedbackRepository { return &FeedbackRepository{r.base()} }
