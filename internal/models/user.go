package models

import "time"

// User represents a player account.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Nickname     *string   `json:"nickname"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the view of a user returned over the API.
type PublicUser struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  *string   `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// Public strips the password digest from the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt,
	}
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// AccessToken is returned on successful login.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
