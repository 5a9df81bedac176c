package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/isdelr/falling-game-be/internal/models"
	"github.com/isdelr/falling-game-be/internal/store"
)

// DefaultLeaderboardLimit is used when no positive limit is requested.
const DefaultLeaderboardLimit = 20

// ScoreServiceProvider defines the interface for score services.
type ScoreServiceProvider interface {
	Submit(ctx context.Context, user models.User, score int64) (models.Score, error)
	Top(ctx context.Context, limit int, scope models.Scope) ([]models.Score, error)
}

// ScoreService records scores and builds leaderboards.
type ScoreService struct {
	db  *database.DB
	now func() time.Time
}

// NewScoreService creates a new ScoreService.
func NewScoreService(db *database.DB) *ScoreService {
	return &ScoreService{db: db, now: time.Now}
}

// Submit records a score for user. The user's current email and nickname are
// copied onto the row.
func (s *ScoreService) Submit(ctx context.Context, user models.User, score int64) (models.Score, error) {
	if score < 0 {
		return models.Score{}, ErrInvalidScore
	}

	record := models.Score{
		Email:     user.Email,
		Nickname:  user.Nickname,
		Score:     score,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	err := database.WithConn(ctx, s.db.DB, func(conn *sql.Conn) error {
		var err error
		record, err = store.NewScores(conn, s.db.Dialect).Create(ctx, record)
		return err
	})
	if err != nil {
		return models.Score{}, fmt.Errorf("create score: %w", err)
	}
	return record, nil
}

// Top returns the leaderboard for scope. Non-positive limits use the default.
func (s *ScoreService) Top(ctx context.Context, limit int, scope models.Scope) ([]models.Score, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	var scores []models.Score
	err := database.WithConn(ctx, s.db.DB, func(conn *sql.Conn) error {
		var err error
		scores, err = store.NewScores(conn, s.db.Dialect).Top(ctx, limit, scope)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list top scores: %w", err)
	}
	return scores, nil
}
