package domain

import "errors"

// Sentinel errors surfaced by the membership and redemption workflows.
// Handlers map these to structured HTTP responses; services wrap them
// with context via fmt.Errorf("...: %w", err).
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrRedeemableNotFound = errors.New("redeemable not found")

	// Team lifecycle
	ErrAlreadyInTeam = errors.New("user already belongs to a team")
	ErrNotAdmin      = errors.New("requester is not the team admin")

	// Join request workflow
	ErrAlreadyMember    = errors.New("user already belongs to a team")
	ErrDuplicateRequest = errors.New("a pending join request already exists for this team")
	ErrNoSuchRequest    = errors.New("no pending join request for this team and user")
	ErrAlreadyResolved  = errors.New("join request has already been resolved")

	// Membership mutations
	ErrCannotRemoveAdmin = errors.New("the admin cannot be removed; delete the team instead")
	ErrAdminMustDelete   = errors.New("the admin cannot leave; delete the team instead")
	ErrNotAMember        = errors.New("user is not a member of this team")

	// Redemption
	ErrInsufficientFunds = errors.New("insufficient points balance")
	ErrItemUnavailable   = errors.New("redeemable is not available")
)
