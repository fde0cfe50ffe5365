package domain

import "time"

// JoinRequestStatus is the lifecycle state of a join request.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestAccepted JoinRequestStatus = "accepted"
	JoinRequestDenied   JoinRequestStatus = "denied"
)

// Terminal reports whether the status can no longer change.
func (s JoinRequestStatus) Terminal() bool {
	return s == JoinRequestAccepted || s == JoinRequestDenied
}

// JoinRequest is a user's petition to join a team. At most one pending
// request exists per (team, user) pair; once resolved it is never re-opened.
type JoinRequest struct {
	ID          string            `json:"id"`
	TeamID      string            `json:"team_id"`
	UserID      string            `json:"user_id"`
	Status      JoinRequestStatus `json:"status"`
	RequestedAt time.Time         `json:"requested_at"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
}

// ResolveOutcome is the admin's decision on a pending join request.
type ResolveOutcome string

const (
	OutcomeAccept ResolveOutcome = "accept"
	OutcomeDeny   ResolveOutcome = "deny"
)

// Valid reports whether the outcome is one of the two defined decisions.
func (o ResolveOutcome) Valid() bool {
	return o == OutcomeAccept || o == OutcomeDeny
}
