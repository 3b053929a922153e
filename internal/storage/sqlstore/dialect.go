package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/splitledger/internal/dbx"
	"github.com/mmynk/splitledger/internal/storage"
)

// Dialect selects placeholder syntax, migrations and case-insensitive
// matching for a database engine.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
// Queries must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// like returns the case-insensitive pattern match against a single
// placeholder, with backslash as the escape character. SQLite LIKE already
// ignores ASCII case.
func (d Dialect) like() string {
	if d == Postgres {
		return `ILIKE ? ESCAPE '\'`
	}
	return `LIKE ? ESCAPE '\'`
}

// isUniqueViolation reports whether err is a uniqueness constraint failure
// from either driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE")
		}
	}
	return false
}

// dbError wraps a driver error, translating uniqueness failures to
// storage.ErrDuplicate.
func dbError(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", storage.ErrDuplicate, err)
	}
	return fmt.Errorf("db error: %w", err)
}

// base carries the handle and dialect every repository runs on.
type base struct {
	db      dbx.DBTX
	dialect Dialect
}

func (b base) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return b.db.QueryRowContext(ctx, b.dialect.Rebind(query), args...)
}

func (b base) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := b.db.QueryContext(ctx, b.dialect.Rebind(query), args...)
	if err != nil {
		return nil, dbError(err)
	}
	return rows, nil
}

// insert runs an INSERT ... RETURNING id statement.
func (b base) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := b.queryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, dbError(err)
	}
	return id, nil
}

// exec runs a statement and returns the number of affected rows.
func (b base) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := b.db.ExecContext(ctx, b.dialect.Rebind(query), args...)
	if err != nil {
		return 0, dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbError(err)
	}
	return n, nil
}

// scanOne maps sql.ErrNoRows to storage.ErrNotFound.
func scanOne(row *sql.Row, dest ...any) error {
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		return dbError(err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
