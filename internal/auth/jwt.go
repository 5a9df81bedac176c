package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when no lifetime is configured.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig holds the static signing material for the token service.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Claims defines the JWT claims structure. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService creates a TokenService from cfg.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		now:    time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTokenTTL
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a token for subject using the configured lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL creates a token for subject that expires ttl from now.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry(now, ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// expiry returns now+ttl rounded up to the whole second, since exp is
// encoded in seconds and must never fall before now+ttl.
func expiry(now time.Time, ttl time.Duration) time.Time {
	exp := now.Add(ttl)
	if t := exp.Truncate(time.Second); !t.Equal(exp) {
		exp = t.Add(time.Second)
	}
	return exp
}

// Verify checks the token's signature and expiry and returns its subject.
// Every failure is reported as ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
