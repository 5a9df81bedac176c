package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifies the SQL flavour spoken by the backing database.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// sqlitePragmas are appended to every SQLite DSN. _time_format makes the driver
// write timestamps in a sortable layout.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"

// DBTX is the subset of *sql.DB, *sql.Tx and *sql.Conn the stores need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB is a connection pool that knows its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open creates a new database connection pool from a URL.
//
// postgres:// and postgresql:// URLs are served by pgx. sqlite://path, file:
// DSNs and bare paths are served by the pure-Go SQLite driver.
func Open(ctx context.Context, rawURL string) (*DB, error) {
	driver, dialect, dsn, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping %s database: %w", dialect, err)
	}
	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

func parseURL(rawURL string) (driver string, dialect Dialect, dsn string, err error) {
	switch {
	case rawURL == "":
		return "", "", "", errors.New("empty database URL")
	case strings.HasPrefix(rawURL, "postgres://"), strings.HasPrefix(rawURL, "postgresql://"):
		return "pgx", Postgres, rawURL, nil
	case strings.HasPrefix(rawURL, "sqlite://"):
		return "sqlite", SQLite, withPragmas(strings.TrimPrefix(rawURL, "sqlite://")), nil
	default:
		return "sqlite", SQLite, withPragmas(rawURL), nil
	}
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

// Rebind rewrites ? placeholders into the form the dialect expects.
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

// WithConn runs fn on a dedicated connection taken from the pool. The
// connection is returned to the pool when fn returns, whatever the outcome.
func WithConn(ctx context.Context, db *sql.DB, fn func(conn *sql.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}

// IsUniqueViolation reports whether err was caused by a UNIQUE or PRIMARY KEY
// constraint, for either supported backend.
func IsUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(liteErr.Error(), "UNIQUE constraint failed")
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
