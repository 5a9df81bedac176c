// Package store persists users and scores. Each store works on any DBTX, so
// callers decide whether it runs on the pool, a transaction or a dedicated
// connection.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/falling-game-be/internal/database"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when a user with the same email exists.
	ErrDuplicateEmail = errors.New("email already exists")
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

type queryer struct {
	db      database.DBTX
	dialect database.Dialect
}

func (q queryer) rebind(query string) string {
	return q.dialect.Rebind(query)
}

// timestampLayouts are the text forms SQLite may hand back for a timestamp.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// timestamp scans a column that a driver may return as time.Time or as text.
type timestamp struct {
	time.Time
}

func (t *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}
