package models

import "time"

// Score is a single submitted game result. Email and Nickname are copied from
// the submitter at submission time.
type Score struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nickname  *string   `json:"nickname"`
	Score     int64     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Scope selects how the leaderboard is ranked.
type Scope string

const (
	// ScopeAll ranks every submitted score.
	ScopeAll Scope = "all"
	// ScopeBest keeps only each player's best score.
	ScopeBest Scope = "best"
)

// ParseScope maps a query value to a Scope. Anything other than "best" ranks
// the full history, which is what existing clients rely on.
func ParseScope(s string) Scope {
	if Scope(s) == ScopeBest {
		return ScopeBest
	}
	return ScopeAll
}
