package service

import (
	"context"
	"fmt"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/repository"

	"go.uber.org/zap"
)

type membershipService struct {
	teams    repository.TeamRepository
	users    repository.UserRepository
	requests repository.JoinRequestRepository
	cache    *CacheService
	logger   *zap.Logger
}

// NewMembershipService creates the join request workflow and the admin-gated
// membership mutations around it.
func NewMembershipService(teams repository.TeamRepository, users repository.UserRepository, requests repository.JoinRequestRepository, cache *CacheService, logger *zap.Logger) MembershipService {
	return &membershipService{
		teams:    teams,
		users:    users,
		requests: requests,
		cache:    cache,
		logger:   logger,
	}
}

// RequestJoin creates a pending join request. A user who already belongs to
// any team is rejected before the store is touched; the pending-pair unique
// index closes the race for concurrent duplicates.
func (s *membershipService) RequestJoin(ctx context.Context, teamID, userID string) (*domain.JoinRequest, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.HasTeam() {
		return nil, domain.ErrAlreadyMember
	}

	req := &domain.JoinRequest{
		ID:     newID("jreq"),
		TeamID: teamID,
		UserID: userID,
		Status: domain.JoinRequestPending,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("join request created",
		zap.String("team_id", teamID),
		zap.String("user_id", userID))

	return req, nil
}

// ListRequests returns a team's pending requests; admin only
func (s *membershipService) ListRequests(ctx context.Context, teamID, adminID string) ([]domain.JoinRequest, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}
	if !team.IsAdmin(adminID) {
		return nil, domain.ErrNotAdmin
	}

	return s.requests.ListPending(ctx, teamID)
}

// ResolveRequest applies the admin's decision to a pending request. Accept
// adds the member and stamps the user's team in one atomic unit; deny only
// flips the status. A request that already reached a terminal status is
// rejected with ErrAlreadyResolved, never silently re-applied.
func (s *membershipService) ResolveRequest(ctx context.Context, teamID, userID, adminID string, outcome domain.ResolveOutcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("invalid outcome %q", outcome)
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return domain.ErrTeamNotFound
	}
	if !team.IsAdmin(adminID) {
		return domain.ErrNotAdmin
	}

	switch outcome {
	case domain.OutcomeAccept:
		if err := s.requests.Accept(ctx, teamID, userID); err != nil {
			return err
		}
		s.cache.InvalidateTeamCaches(teamID)
		s.cache.InvalidateUserCaches(userID)
	case domain.OutcomeDeny:
		if err := s.requests.Deny(ctx, teamID, userID); err != nil {
			return err
		}
	}

	s.logger.Info("join request resolved",
		zap.String("team_id", teamID),
		zap.String("user_id", userID),
		zap.String("outcome", string(outcome)))

	return nil
}

// RemoveMember detaches a member from the team; admin only. The admin
// cannot remove themselves, they must delete the team instead.
func (s *membershipService) RemoveMember(ctx context.Context, teamID, memberID, adminID string) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return domain.ErrTeamNotFound
	}
	if !team.IsAdmin(adminID) {
		return domain.ErrNotAdmin
	}
	if memberID == adminID {
		return domain.ErrCannotRemoveAdmin
	}

	if err := s.teams.RemoveMember(ctx, teamID, memberID); err != nil {
		return err
	}

	s.cache.InvalidateTeamCaches(teamID)
	s.cache.InvalidateUserCaches(memberID)

	s.logger.Info("member removed",
		zap.String("team_id", teamID),
		zap.String("member_id", memberID),
		zap.String("admin_id", adminID))

	return nil
}

// LeaveTeam is the self-service exit for non-admin members
func (s *membershipService) LeaveTeam(ctx context.Context, teamID, userID string) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return domain.ErrTeamNotFound
	}
	if team.IsAdmin(userID) {
		return domain.ErrAdminMustDelete
	}

	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}

	s.cache.InvalidateTeamCaches(teamID)
	s.cache.InvalidateUserCaches(userID)

	s.logger.Info("member left team",
		zap.String("team_id", teamID),
		zap.String("user_id", userID))

	return nil
}
