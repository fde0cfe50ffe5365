package domain

import "time"

// Team represents a challenge team. The admin is always part of Members;
// TotalPoints is computed from member balances on read, never stored.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AdminID     string    `json:"admin_id"`
	Members     []string  `json:"members"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasMember reports whether userID is in the team's member set.
func (t *Team) HasMember(userID string) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID is the team's admin.
func (t *Team) IsAdmin(userID string) bool {
	return t.AdminID == userID
}

// TeamPatch carries the mutable team fields for an update. Nil fields are
// left untouched.
type TeamPatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TeamWithMembership annotates a team with the caller's relationship to it.
type TeamWithMembership struct {
	Team
	CallerIsMember bool `json:"caller_is_member"`
	CallerIsAdmin  bool `json:"caller_is_admin"`
}
