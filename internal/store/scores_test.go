package store

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/isdelr/falling-game-be/internal/database/databasetest"
	"github.com/isdelr/falling-game-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func seedScores(t *testing.T, scores *Scores, rows ...models.Score) []models.Score {
	t.Helper()
	out := make([]models.Score, 0, len(rows))
	for _, r := range rows {
		created, err := scores.Create(context.Background(), r)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func summary(scores []models.Score) []string {
	out := make([]string, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.Email+"/"+strconv.FormatInt(s.Score, 10))
	}
	return out
}

func TestScores_Create(t *testing.T) {
	db := databasetest.New(t)
	scores := NewScores(db, db.Dialect)

	created, err := scores.Create(context.Background(), models.Score{
		Email: "alice@example.com", Nickname: ptr("Alice"), Score: 0, CreatedAt: base,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(0), created.Score)

	top, err := scores.Top(context.Background(), 10, models.ScopeAll)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, created.ID, top[0].ID)
	require.NotNil(t, top[0].Nickname)
	assert.Equal(t, "Alice", *top[0].Nickname)
	assert.True(t, base.Equal(top[0].CreatedAt))
}

func TestScores_Top_AllAndBest(t *testing.T) {
	db := databasetest.New(t)
	scores := NewScores(db, db.Dialect)
	seedScores(t, scores,
		models.Score{Email: "alice", Score: 100, CreatedAt: base},
		models.Score{Email: "alice", Score: 150, CreatedAt: base.Add(time.Minute)},
		models.Score{Email: "bob", Score: 200, CreatedAt: base.Add(2 * time.Minute)},
	)
	ctx := context.Background()

	all, err := scores.Top(ctx, 3, models.ScopeAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob/200", "alice/150", "alice/100"}, summary(all))

	best, err := scores.Top(ctx, 3, models.ScopeBest)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob/200", "alice/150"}, summary(best))
}

func TestScores_Top_TiesPreferLatest(t *testing.T) {
	db := databasetest.New(t)
	scores := NewScores(db, db.Dialect)
	rows := seedScores(t, scores,
		models.Score{Email: "carol", Score: 300, CreatedAt: base.Add(5 * time.Minute)},
		models.Score{Email: "carol", Score: 300, CreatedAt: base},
		models.Score{Email: "carol", Score: 10, CreatedAt: base.Add(10 * time.Minute)},
	)
	ctx := context.Background()

	best, err := scores.Top(ctx, 10, models.ScopeBest)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, rows[0].ID, best[0].ID)
	assert.True(t, base.Add(5*time.Minute).Equal(best[0].CreatedAt))

	all, err := scores.Top(ctx, 10, models.ScopeAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{rows[0].ID, rows[1].ID, rows[2].ID}, []int64{all[0].ID, all[1].ID, all[2].ID})
}

func TestScores_Top_SubSecondOrdering(t *testing.T) {
	db := databasetest.New(t)
	scores := NewScores(db, db.Dialect)
	rows := seedScores(t, scores,
		models.Score{Email: "a", Score: 50, CreatedAt: base.Add(500 * time.Millisecond)},
		models.Score{Email: "b", Score: 50, CreatedAt: base.Add(1500 * time.Millisecond)},
		models.Score{Email: "c", Score: 50, CreatedAt: base.Add(time.Second)},
		models.Score{Email: "d", Score: 50, CreatedAt: base},
	)

	all, err := scores.Top(context.Background(), 10, models.ScopeAll)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []int64{rows[1].ID, rows[2].ID, rows[0].ID, rows[3].ID},
		[]int64{all[0].ID, all[1].ID, all[2].ID, all[3].ID})
}

func TestScores_Top_Limit(t *testing.T) {
	db := databasetest.New(t)
	scores := NewScores(db, db.Dialect)
	for i := 0; i < 5; i++ {
		seedScores(t, scores, models.Score{Email: "p", Score: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Second)})
	}
	ctx := context.Background()

	top, err := scores.Top(ctx, 2, models.ScopeAll)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(4), top[0].Score)
	assert.Equal(t, int64(3), top[1].Score)

	best, err := scores.Top(ctx, 2, models.ScopeBest)
	require.NoError(t, err)
	require.Len(t, best, 1)
	assert.Equal(t, int64(4), best[0].Score)
}

func TestScores_Top_Empty(t *testing.T) {
	db := databasetest.New(t)
	scores := NewScores(db, db.Dialect)

	top, err := scores.Top(context.Background(), 20, models.ScopeBest)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)
}

func TestScores_Top_DBError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT").WithArgs(20).WillReturnError(errors.New("db down"))

	_, err = NewScores(sqlDB, database.Postgres).Top(context.Background(), 20, models.ScopeAll)
	assert.ErrorContains(t, err, "db down")
	assert.NoError(t, mock.ExpectationsWereMet())
}
