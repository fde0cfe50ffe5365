package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/reconcile"
	"github.com/abmah/green-jordan-backend/internal/repository"

	"go.uber.org/zap"
)

type teamService struct {
	teams   repository.TeamRepository
	users   repository.UserRepository
	cache   *CacheService
	listRec *reconcile.Reconciler[[]domain.Team]
	logger  *zap.Logger
}

// NewTeamService creates the team registry service. List reads go through
// the reconciler so transient store failures are retried before surfacing.
func NewTeamService(teams repository.TeamRepository, users repository.UserRepository, cache *CacheService, recOpts reconcile.Options, logger *zap.Logger) TeamService {
	s := &teamService{
		teams:  teams,
		users:  users,
		cache:  cache,
		logger: logger,
	}
	recOpts.Logger = logger
	s.listRec = reconcile.New(func(ctx context.Context) ([]domain.Team, error) {
		return teams.List(ctx)
	}, recOpts)
	return s
}

// CreateTeam creates a team with the founder as admin and sole member. The
// founder's current membership is checked up front for a fast rejection;
// the registry enforces the same rule race-safely at commit.
func (s *teamService) CreateTeam(ctx context.Context, founderID, name, description string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required")
	}

	founder, err := s.users.GetByID(ctx, founderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load founder: %w", err)
	}
	if founder == nil {
		return nil, domain.ErrUserNotFound
	}
	if founder.HasTeam() {
		return nil, domain.ErrAlreadyInTeam
	}

	team := &domain.Team{
		ID:          newID("team"),
		Name:        name,
		Description: strings.TrimSpace(description),
		AdminID:     founderID,
	}

	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}

	s.cache.InvalidateTeamCaches(team.ID)
	s.cache.InvalidateUserCaches(founderID)

	s.logger.Info("team created",
		zap.String("team_id", team.ID),
		zap.String("admin_id", founderID))

	return team, nil
}

// GetTeam retrieves a team by ID
func (s *teamService) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	team, err := s.cache.GetTeamWithCache(ctx, teamID, s.teams.GetByID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}
	return team, nil
}

// ListTeams returns all teams. forceRefresh restarts the retry budget and
// bypasses any refresh already in flight, for pull-to-refresh callers.
func (s *teamService) ListTeams(ctx context.Context, forceRefresh bool) ([]domain.Team, error) {
	if forceRefresh {
		teams, err := s.listRec.Refetch(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.InvalidateTeamCaches("")
		return teams, nil
	}

	return s.cache.GetTeamsWithCache(ctx, func(ctx context.Context) ([]domain.Team, error) {
		return s.listRec.Refresh(ctx)
	})
}

// FilteredTeams returns all teams except the caller's own
func (s *teamService) FilteredTeams(ctx context.Context, userID string) ([]domain.Team, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	teams, err := s.ListTeams(ctx, false)
	if err != nil {
		return nil, err
	}
	if !user.HasTeam() {
		return teams, nil
	}

	filtered := make([]domain.Team, 0, len(teams))
	for _, team := range teams {
		if team.ID != *user.TeamID {
			filtered = append(filtered, team)
		}
	}
	return filtered, nil
}

// GetMembers returns the team's members
func (s *teamService) GetMembers(ctx context.Context, teamID string) ([]domain.User, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.users.ListByTeam(ctx, teamID)
}

// GetUser retrieves a user by ID
func (s *teamService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// UpdateTeam applies a patch; only the admin may mutate the team
func (s *teamService) UpdateTeam(ctx context.Context, teamID, requesterID string, patch domain.TeamPatch) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}
	if !team.IsAdmin(requesterID) {
		return nil, domain.ErrNotAdmin
	}

	updated, err := s.teams.Update(ctx, teamID, patch)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrTeamNotFound
	}

	s.cache.InvalidateTeamCaches(teamID)
	return updated, nil
}

// DeleteTeam destroys the team; only the admin may do this. Every member's
// team reference is cleared as part of the deletion.
func (s *teamService) DeleteTeam(ctx context.Context, teamID, requesterID string) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team == nil {
		return domain.ErrTeamNotFound
	}
	if !team.IsAdmin(requesterID) {
		return domain.ErrNotAdmin
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}

	s.cache.InvalidateTeamCaches(teamID)
	for _, memberID := range team.Members {
		s.cache.InvalidateUserCaches(memberID)
	}

	s.logger.Info("team deleted",
		zap.String("team_id", teamID),
		zap.String("admin_id", requesterID),
		zap.Int("member_count", len(team.Members)))

	return nil
}

// newID generates a prefixed random identifier
func newID(prefix string) string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return prefix + "-" + hex.EncodeToString(bytes)
}
