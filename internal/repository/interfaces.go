package repository

import (
	"context"

	"github.com/abmah/green-jordan-backend/internal/domain"
)

// TeamRepository defines the interface for team data operations
type TeamRepository interface {
	// Create persists a new team with the founder as admin and sole member
	Create(ctx context.Context, team *domain.Team) error

	// GetByID retrieves a team with its member set and computed total points
	GetByID(ctx context.Context, id string) (*domain.Team, error)

	// List retrieves all teams
	List(ctx context.Context) ([]domain.Team, error)

	// Update applies a patch to the team's mutable fields
	Update(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error)

	// Delete removes the team, clearing team membership for all its members
	Delete(ctx context.Context, id string) error

	// RemoveMember detaches a member from the team
	RemoveMember(ctx context.Context, teamID, userID string) error
}

// UserRepository defines the interface for user and ledger operations
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetBalance retrieves the user's current point balance
	GetBalance(ctx context.Context, id string) (int, error)

	// ListByTeam retrieves all members of a team
	ListByTeam(ctx context.Context, teamID string) ([]domain.User, error)
}

// JoinRequestRepository defines the interface for join request operations
type JoinRequestRepository interface {
	// Create persists a new pending join request
	Create(ctx context.Context, req *domain.JoinRequest) error

	// Get retrieves the most recent join request for a (team, user) pair
	Get(ctx context.Context, teamID, userID string) (*domain.JoinRequest, error)

	// ListPending retrieves all pending requests for a team
	ListPending(ctx context.Context, teamID string) ([]domain.JoinRequest, error)

	// Accept marks the pending request accepted and adds the user to the
	// team in the same transaction
	Accept(ctx context.Context, teamID, userID string) error

	// Deny marks the pending request denied with no further state change
	Deny(ctx context.Context, teamID, userID string) error
}

// RedeemRepository defines the interface for catalog and basket operations
type RedeemRepository interface {
	// GetRedeemable retrieves a catalog entry by ID
	GetRedeemable(ctx context.Context, id string) (*domain.Redeemable, error)

	// ListRedeemables retrieves the full catalog
	ListRedeemables(ctx context.Context) ([]domain.Redeemable, error)

	// Redeem debits the user and appends a basket entry as one atomic unit,
	// returning the balance after the debit
	Redeem(ctx context.Context, entry *domain.BasketEntry) (int, error)

	// ListBasket retrieves a user's completed redemptions
	ListBasket(ctx context.Context, userID string) ([]domain.BasketEntry, error)
}
