package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/isdelr/falling-game-be/internal/models"
)

const (
	topAllQuery = `
		SELECT id, email, nickname, score, created_at
		FROM scores
		ORDER BY score DESC, created_at DESC, id DESC
		LIMIT ?`

	// Rank each email's rows by score, then recency, and keep the first.
	topBestQuery = `
		SELECT id, email, nickname, score, created_at
		FROM (
			SELECT id, email, nickname, score, created_at,
				ROW_NUMBER() OVER (
					PARTITION BY email
					ORDER BY score DESC, created_at DESC, id DESC
				) AS rn
			FROM scores
		) ranked
		WHERE rn = 1
		ORDER BY score DESC, created_at DESC, id DESC
		LIMIT ?`
)

// Scores is the score store.
type Scores struct {
	queryer
}

// NewScores creates a score store on db.
func NewScores(db database.DBTX, dialect database.Dialect) *Scores {
	return &Scores{queryer{db: db, dialect: dialect}}
}

// Create inserts a score row and returns it with its assigned ID.
func (s *Scores) Create(ctx context.Context, score models.Score) (models.Score, error) {
	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO scores (email, nickname, score, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		score.Email, nullString(score.Nickname), score.Score, score.CreatedAt,
	).Scan(&score.ID)
	if err != nil {
		return models.Score{}, fmt.Errorf("db error: %w", err)
	}
	return score, nil
}

// Top returns at most limit scores ranked by score, then by recency.
func (s *Scores) Top(ctx context.Context, limit int, scope models.Scope) ([]models.Score, error) {
	query := topAllQuery
	if scope == models.ScopeBest {
		query = topBestQuery
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	scores := []models.Score{}
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return scores, nil
}

func scanScore(row scanner) (models.Score, error) {
	var (
		score     models.Score
		nickname  sql.NullString
		createdAt timestamp
	)
	if err := row.Scan(&score.ID, &score.Email, &nickname, &score.Score, &createdAt); err != nil {
		return models.Score{}, err
	}
	score.Nickname = stringPtr(nickname)
	score.CreatedAt = createdAt.Time
	return score, nil
}
