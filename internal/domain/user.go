package domain

import "time"

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Points    int       `json:"points"`
	TeamID    *string   `json:"team_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasTeam reports whether the user currently belongs to a team.
func (u *User) HasTeam() bool {
	return u.TeamID != nil && *u.TeamID != ""
}

// AuthClaims represents JWT token claims
type AuthClaims struct {
	Sub      string `json:"sub"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Iat      int64  `json:"iat"`
	Exp      int64  `json:"exp"`
}
