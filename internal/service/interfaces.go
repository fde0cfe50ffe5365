package service

import (
	"context"

	"github.com/abmah/green-jordan-backend/internal/domain"
)

// AuthService defines the authentication gate consumed by the middleware
type AuthService interface {
	// ValidateToken validates a bearer token and returns its claims
	ValidateToken(ctx context.Context, token string) (*domain.AuthClaims, error)

	// IssueToken mints a signed token for a user
	IssueToken(ctx context.Context, user *domain.User) (string, error)
}

// TeamService defines the team registry operations
type TeamService interface {
	CreateTeam(ctx context.Context, founderID, name, description string) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID string) (*domain.Team, error)
	ListTeams(ctx context.Context, forceRefresh bool) ([]domain.Team, error)
	FilteredTeams(ctx context.Context, userID string) ([]domain.Team, error)
	GetMembers(ctx context.Context, teamID string) ([]domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateTeam(ctx context.Context, teamID, requesterID string, patch domain.TeamPatch) (*domain.Team, error)
	DeleteTeam(ctx context.Context, teamID, requesterID string) error
}

// MembershipService defines the join request workflow and admin-gated
// membership mutations
type MembershipService interface {
	RequestJoin(ctx context.Context, teamID, userID string) (*domain.JoinRequest, error)
	ListRequests(ctx context.Context, teamID, adminID string) ([]domain.JoinRequest, error)
	ResolveRequest(ctx context.Context, teamID, userID, adminID string, outcome domain.ResolveOutcome) error
	RemoveMember(ctx context.Context, teamID, memberID, adminID string) error
	LeaveTeam(ctx context.Context, teamID, userID string) error
}

// RedeemService defines the points redemption operations
type RedeemService interface {
	GetBalance(ctx context.Context, userID string) (int, error)
	ListAvailable(ctx context.Context, userID string) ([]domain.Redeemable, error)
	ListAll(ctx context.Context, forceRefresh bool) ([]domain.Redeemable, error)
	Redeem(ctx context.Context, userID, redeemableID string) (*domain.RedeemResponse, error)
	GetBasket(ctx context.Context, userID string) ([]domain.BasketEntry, error)
}

// Services aggregates all service interfaces
type Services struct {
	Auth       AuthService
	Team       TeamService
	Membership MembershipService
	Redeem     RedeemService
}
