package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/isdelr/falling-game-be/internal/auth"
	"github.com/isdelr/falling-game-be/internal/database"
	"github.com/isdelr/falling-game-be/internal/database/databasetest"
	"github.com/isdelr/falling-game-be/internal/models"
	"github.com/isdelr/falling-game-be/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func ptr(s string) *string { return &s }

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(auth.TokenConfig{Secret: []byte("test-secret"), TTL: time.Hour})
}

func newAuthService(t *testing.T, db *database.DB) *AuthService {
	t.Helper()
	s, err := NewAuthService(db, newTokenService(), auth.NewBcryptHasher(bcrypt.MinCost))
	require.NoError(t, err)
	return s
}

func TestAuthService_SignupLoginCurrentUser(t *testing.T) {
	db := databasetest.New(t)
	s := newAuthService(t, db)
	ctx := context.Background()

	user, err := s.Signup(ctx, SignupInput{Email: "alice@example.com", Password: "pw-alice", Nickname: ptr("Alice")})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotEqual(t, "pw-alice", user.PasswordHash)
	assert.False(t, user.CreatedAt.IsZero())

	token, err := s.Login(ctx, "alice@example.com", "pw-alice")
	require.NoError(t, err)
	assert.Equal(t, models.TokenTypeBearer, token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	subject, err := newTokenService().Verify(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	me, err := s.CurrentUser(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, me.ID)
	require.NotNil(t, me.Nickname)
	assert.Equal(t, "Alice", *me.Nickname)
}

func TestAuthService_Signup_Duplicate(t *testing.T) {
	db := databasetest.New(t)
	s := newAuthService(t, db)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupInput{Email: "dup@example.com", Password: "one"})
	require.NoError(t, err)

	_, err = s.Signup(ctx, SignupInput{Email: "dup@example.com", Password: "two", Nickname: ptr("other")})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// The original credentials still work.
	_, err = s.Login(ctx, "dup@example.com", "one")
	assert.NoError(t, err)
	_, err = s.Login(ctx, "dup@example.com", "two")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// racingHasher inserts a competing user with the same email while the
// signup is between its existence check and its insert.
type racingHasher struct {
	auth.PasswordHasher
	db    *database.DB
	email string
}

func (h *racingHasher) Hash(password string) (string, error) {
	if h.email != "" {
		email := h.email
		h.email = ""
		_, err := store.NewUsers(h.db, h.db.Dialect).Create(context.Background(), email, "other", nil, time.Now().UTC())
		if err != nil {
			return "", err
		}
	}
	return h.PasswordHasher.Hash(password)
}

func TestAuthService_Signup_StoreRejectsRace(t *testing.T) {
	db := databasetest.New(t)
	hasher := &racingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost), db: db}
	s, err := NewAuthService(db, newTokenService(), hasher)
	require.NoError(t, err)

	hasher.email = "race@example.com"
	_, err = s.Signup(context.Background(), SignupInput{Email: "race@example.com", Password: "pw"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

// poolWatchingHasher records how many pooled connections are checked out
// while a password is being hashed.
type poolWatchingHasher struct {
	auth.PasswordHasher
	db    *database.DB
	inUse []int
}

func (h *poolWatchingHasher) Hash(password string) (string, error) {
	h.inUse = append(h.inUse, h.db.Stats().InUse)
	return h.PasswordHasher.Hash(password)
}

func TestAuthService_Signup_HashesWithoutHoldingConnection(t *testing.T) {
	db := databasetest.New(t)
	hasher := &poolWatchingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost), db: db}
	s, err := NewAuthService(db, newTokenService(), hasher)
	require.NoError(t, err)

	_, err = s.Signup(context.Background(), SignupInput{Email: "pool@example.com", Password: "pw"})
	require.NoError(t, err)

	require.Len(t, hasher.inUse, 2, "dummy digest plus signup")
	assert.Equal(t, 0, hasher.inUse[1])
}

func TestAuthService_Signup_Validation(t *testing.T) {
	db := databasetest.New(t)
	s := newAuthService(t, db)
	ctx := context.Background()

	tests := []struct {
		name string
		in   SignupInput
	}{
		{"missing email", SignupInput{Password: "pw"}},
		{"missing password", SignupInput{Email: "a@x.io"}},
		{"long email", SignupInput{Email: strings.Repeat("a", 256), Password: "pw"}},
		{"long nickname", SignupInput{Email: "a@x.io", Password: "pw", Nickname: ptr(strings.Repeat("n", 51))}},
		{"long password", SignupInput{Email: "a@x.io", Password: strings.Repeat("p", auth.MaxPasswordBytes+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Signup(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	_, err := s.Signup(ctx, SignupInput{Email: "a@x.io", Password: "pw", Nickname: ptr(strings.Repeat("ñ", 50))})
	assert.NoError(t, err)
}

func TestAuthService_Login_FailuresAreIndistinguishable(t *testing.T) {
	db := databasetest.New(t)
	s := newAuthService(t, db)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupInput{Email: "bob@example.com", Password: "right"})
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, "bob@example.com", "wrong")
	_, unknownEmail := s.Login(ctx, "nobody@example.com", "right")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_CurrentUser_Unauthorized(t *testing.T) {
	db := databasetest.New(t)
	s := newAuthService(t, db)
	ctx := context.Background()

	_, err := s.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	expired, err := newTokenService().IssueWithTTL("alice@example.com", -time.Minute)
	require.NoError(t, err)
	_, err = s.CurrentUser(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Valid signature, but the subject has no account.
	orphan, err := newTokenService().Issue("ghost@example.com")
	require.NoError(t, err)
	_, err = s.CurrentUser(ctx, orphan)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_StorageFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT id, email").WillReturnError(errors.New("disk on fire"))

	s, err := NewAuthService(&database.DB{DB: sqlDB, Dialect: database.SQLite}, newTokenService(), auth.NewBcryptHasher(bcrypt.MinCost))
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "a@x.io", "pw")
	require.Error(t, err)
	for _, sentinel := range []error{ErrInvalidCredentials, ErrUnauthorized, ErrDuplicateEmail, ErrInvalidInput} {
		assert.NotErrorIs(t, err, sentinel)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
