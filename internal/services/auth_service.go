package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/isdelr/falling-game-be/internal/auth"
	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/isdelr/falling-game-be/internal/models"
	"github.com/isdelr/falling-game-be/internal/store"
)

const (
	maxEmailLength    = 255
	maxNicknameLength = 50
)

// TokenService issues and verifies bearer tokens bound to an email.
type TokenService interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

// AuthServiceProvider defines the interface for account services.
type AuthServiceProvider interface {
	Signup(ctx context.Context, in SignupInput) (models.User, error)
	Login(ctx context.Context, email, password string) (models.AccessToken, error)
	CurrentUser(ctx context.Context, token string) (models.User, error)
}

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Email    string
	Password string
	Nickname *string
}

// AuthService provides signup, login and current-user resolution.
type AuthService struct {
	db     *database.DB
	tokens TokenService
	hasher auth.PasswordHasher
	now    func() time.Time

	// dummyDigest is compared against when the email is unknown, so a failed
	// login costs the same whether or not the account exists.
	dummyDigest string
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *database.DB, tokens TokenService, hasher auth.PasswordHasher) (*AuthService, error) {
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	return &AuthService{
		db:          db,
		tokens:      tokens,
		hasher:      hasher,
		now:         time.Now,
		dummyDigest: dummy,
	}, nil
}

// Signup registers a new account and returns it.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	if err := validateSignup(in); err != nil {
		return models.User{}, err
	}

	_, err := s.findByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return models.User{}, ErrDuplicateEmail
	case !errors.Is(err, store.ErrNotFound):
		return models.User{}, err
	}

	// Hash without holding a connection; the UNIQUE constraint still
	// rejects a competing signup that lands in the meantime.
	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return models.User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, auth.MaxPasswordBytes)
		}
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = database.WithConn(ctx, s.db.DB, func(conn *sql.Conn) error {
		var err error
		user, err = store.NewUsers(conn, s.db.Dialect).Create(ctx, in.Email, digest, in.Nickname, s.timestamp())
		if err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				return ErrDuplicateEmail
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues an access token bound to the email.
// An unknown email and a wrong password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.AccessToken, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return models.AccessToken{}, ErrInvalidCredentials
		}
		return models.AccessToken{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return models.AccessToken{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return models.AccessToken{AccessToken: token, TokenType: models.TokenTypeBearer}, nil
}

// CurrentUser resolves the account a bearer token was issued to.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.User, error) {
	email, err := s.tokens.Verify(token)
	if err != nil {
		return models.User{}, ErrUnauthorized
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrUnauthorized
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := database.WithConn(ctx, s.db.DB, func(conn *sql.Conn) error {
		var err error
		user, err = store.NewUsers(conn, s.db.Dialect).FindByEmail(ctx, email)
		return err
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.User{}, fmt.Errorf("look up user: %w", err)
	}
	return user, err
}

func (s *AuthService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func validateSignup(in SignupInput) error {
	switch {
	case in.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	case in.Password == "":
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	case utf8.RuneCountInString(in.Email) > maxEmailLength:
		return fmt.Errorf("%w: email must be at most %d characters", ErrInvalidInput, maxEmailLength)
	case in.Nickname != nil && utf8.RuneCountInString(*in.Nickname) > maxNicknameLength:
		return fmt.Errorf("%w: nickname must be at most %d characters", ErrInvalidInput, maxNicknameLength)
	}
	return nil
}
