package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/isdelr/falling-game-be/internal/models"
)

// Users is the credential store.
type Users struct {
	queryer
}

// NewUsers creates a credential store on db.
func NewUsers(db database.DBTX, dialect database.Dialect) *Users {
	return &Users{queryer{db: db, dialect: dialect}}
}

// FindByEmail retrieves a single user by email, including the password digest.
func (s *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, email, password_hash, nickname, created_at FROM users WHERE email = ?"), email)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// Create inserts a new user. The UNIQUE constraint on email decides races
// between concurrent signups.
func (s *Users) Create(ctx context.Context, email, passwordHash string, nickname *string, createdAt time.Time) (models.User, error) {
	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Nickname:     nickname,
		CreatedAt:    createdAt,
	}

	err := s.db.QueryRowContext(ctx,
		s.rebind("INSERT INTO users (email, password_hash, nickname, created_at) VALUES (?, ?, ?, ?) RETURNING id"),
		user.Email, user.PasswordHash, nullString(user.Nickname), user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func scanUser(row scanner) (models.User, error) {
	var (
		user      models.User
		nickname  sql.NullString
		createdAt timestamp
	)
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &nickname, &createdAt); err != nil {
		return models.User{}, err
	}
	user.Nickname = stringPtr(nickname)
	user.CreatedAt = createdAt.Time
	return user, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
