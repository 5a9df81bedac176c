// Package databasetest provides migrated in-memory databases for tests.
package databasetest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/stretchr/testify/require"
)

// New opens a fresh, fully migrated in-memory SQLite database that is closed
// when the test finishes.
func New(t testing.TB) *database.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(ctx, db))
	return db
}
