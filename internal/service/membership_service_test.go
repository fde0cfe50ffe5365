package service

import (
	"context"
	"testing"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMembershipFixture(t *testing.T) (*fakeStore, TeamService, MembershipService) {
	t.Helper()
	store := newFakeStore()
	cache := NewCacheService(nil, zap.NewNop())
	recOpts := reconcile.Options{MaxRetries: 1}

	teamSvc := NewTeamService(store, userRepoAdapter{store}, cache, recOpts, zap.NewNop())
	memberSvc := NewMembershipService(store, userRepoAdapter{store}, requestRepoAdapter{store}, cache, zap.NewNop())
	return store, teamSvc, memberSvc
}

func TestJoinRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	store, teamSvc, memberSvc := newMembershipFixture(t)

	store.addUser("alice", 0)
	store.addUser("bob", 0)

	team, err := teamSvc.CreateTeam(ctx, "alice", "Runners", "5k club")
	require.NoError(t, err)
	assert.Equal(t, "alice", team.AdminID)
	assert.Equal(t, []string{"alice"}, team.Members)

	alice, err := teamSvc.GetUser(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, alice.TeamID)
	assert.Equal(t, team.ID, *alice.TeamID)

	req, err := memberSvc.RequestJoin(ctx, team.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestPending, req.Status)

	err = memberSvc.ResolveRequest(ctx, team.ID, "bob", "alice", domain.OutcomeAccept)
	require.NoError(t, err)

	updated, err := teamSvc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, updated.Members)

	bob, err := teamSvc.GetUser(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, bob.TeamID)
	assert.Equal(t, team.ID, *bob.TeamID)

	// Re-resolving a terminal request is rejected, never re-applied.
	err = memberSvc.ResolveRequest(ctx, team.ID, "bob", "alice", domain.OutcomeAccept)
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestRequestJoinRejectsExistingMember(t *testing.T) {
	ctx := context.Background()
	store, teamSvc, memberSvc := newMembershipFixture(t)

	store.addUser("alice", 0)
	store.addUser("bob", 0)

	t1, err := teamSvc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)
	t2, err := teamSvc.CreateTeam(ctx, "bob", "Climbers", "")
	require.NoError(t, err)

	// bob already has a team of his own
	_, err = memberSvc.RequestJoin(ctx, t1.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)

	// and the admin of t1 cannot request to join t2 either
	_, err = memberSvc.RequestJoin(ctx, t2.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestRequestJoinRejectsDuplicatePending(t *testing.T) {
	ctx := context.Background()
	store, teamSvc, memberSvc := newMembershipFixture(t)

	store.addUser("alice", 0)
	store.addUser("bob", 0)

	team, err := teamSvc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)

	_, err = memberSvc.RequestJoin(ctx, team.ID, "bob")
	require.NoError(t, err)

	_, err = memberSvc.RequestJoin(ctx, team.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
}

func TestResolveRequestGates(t *testing.T) {
	ctx := context.Background()
	store, teamSvc, memberSvc := newMembershipFixture(t)

	store.addUser("alice", 0)
	store.addUser("bob", 0)
	store.addUser("mallory", 0)

	team, err := teamSvc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)

	_, err = memberSvc.RequestJoin(ctx, team.ID, "bob")
	require.NoError(t, err)

	// Only the admin may resolve.
	err = memberSvc.ResolveRequest(ctx, team.ID, "bob", "mallory", domain.OutcomeAccept)
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	// No request exists for mallory.
	err = memberSvc.ResolveRequest(ctx, team.ID, "mallory", "alice", domain.OutcomeDeny)
	assert.ErrorIs(t, err, domain.ErrNoSuchRequest)

	// Deny flips the status and nothing else.
	err = memberSvc.ResolveRequest(ctx, team.ID, "bob", "alice", domain.OutcomeDeny)
	require.NoError(t, err)

	bob, err := teamSvc.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, bob.TeamID)

	updated, err := teamSvc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, updated.Members)

	err = memberSvc.ResolveRequest(ctx, team.ID, "bob", "alice", domain.OutcomeDeny)
	assert.ErrorIs(t, err, domain.ErrAlreadyResolved)
}

func TestRemoveMember(t *testing.T) {
	ctx := context.Background()
	store, teamSvc, memberSvc := newMembershipFixture(t)

	store.addUser("alice", 0)
	store.addUser("bob", 0)

	team, err := teamSvc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)
	_, err = memberSvc.RequestJoin(ctx, team.ID, "bob")
	require.NoError(t, err)
	require.NoError(t, memberSvc.ResolveRequest(ctx, team.ID, "bob", "alice", domain.OutcomeAccept))

	// Non-admin requester is rejected.
	err = memberSvc.RemoveMember(ctx, team.ID, "bob", "bob")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	// Admins cannot remove themselves.
	err = memberSvc.RemoveMember(ctx, team.ID, "alice", "alice")
	assert.ErrorIs(t, err, domain.ErrCannotRemoveAdmin)

	require.NoError(t, memberSvc.RemoveMember(ctx, team.ID, "bob", "alice"))

	bob, err := teamSvc.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, bob.TeamID)
}

func TestLeaveTeam(t *testing.T) {
	ctx := context.Background()
	store, teamSvc, memberSvc := newMembershipFixture(t)

	store.addUser("alice", 0)
	store.addUser("bob", 0)

	team, err := teamSvc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)
	_, err = memberSvc.RequestJoin(ctx, team.ID, "bob")
	require.NoError(t, err)
	require.NoError(t, memberSvc.ResolveRequest(ctx, team.ID, "bob", "alice", domain.OutcomeAccept))

	err = memberSvc.LeaveTeam(ctx, team.ID, "alice")
	assert.ErrorIs(t, err, domain.ErrAdminMustDelete)

	require.NoError(t, memberSvc.LeaveTeam(ctx, team.ID, "bob"))

	updated, err := teamSvc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, updated.Members)
}
