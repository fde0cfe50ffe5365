package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type instantSleeper struct{}

func (instantSleeper) Sleep(context.Context, time.Duration) error { return nil }

func newTeamFixture(t *testing.T) (*fakeStore, TeamService) {
	t.Helper()
	store := newFakeStore()
	cache := NewCacheService(nil, zap.NewNop())
	recOpts := reconcile.Options{MaxRetries: 2}
	return store, NewTeamService(store, userRepoAdapter{store}, cache, recOpts, zap.NewNop())
}

func TestCreateTeamRejectsSecondTeam(t *testing.T) {
	ctx := context.Background()
	store, svc := newTeamFixture(t)
	store.addUser("alice", 0)

	_, err := svc.CreateTeam(ctx, "alice", "Runners", "5k club")
	require.NoError(t, err)

	_, err = svc.CreateTeam(ctx, "alice", "Climbers", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyInTeam)
}

func TestCreateTeamValidation(t *testing.T) {
	ctx := context.Background()
	store, svc := newTeamFixture(t)
	store.addUser("alice", 0)

	_, err := svc.CreateTeam(ctx, "alice", "   ", "")
	assert.Error(t, err)

	_, err = svc.CreateTeam(ctx, "ghost", "Runners", "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTotalPointsComputedFromMembers(t *testing.T) {
	ctx := context.Background()
	store, svc := newTeamFixture(t)
	store.addUser("alice", 40)

	team, err := svc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)

	got, err := svc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.TotalPoints)

	// Balance changes show up on the next read, nothing is stored.
	store.users["alice"].Points = 15
	got, err = svc.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.TotalPoints)
}

func TestFilteredTeamsExcludesOwn(t *testing.T) {
	ctx := context.Background()
	store, svc := newTeamFixture(t)
	store.addUser("alice", 0)
	store.addUser("bob", 0)
	store.addUser("carol", 0)

	t1, err := svc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)
	t2, err := svc.CreateTeam(ctx, "bob", "Climbers", "")
	require.NoError(t, err)

	filtered, err := svc.FilteredTeams(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, t2.ID, filtered[0].ID)

	// A user with no team sees everything.
	all, err := svc.FilteredTeams(ctx, "carol")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_ = t1
}

func TestDeleteTeamRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	store, svc := newTeamFixture(t)
	store.addUser("alice", 0)
	store.addUser("bob", 0)

	team, err := svc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)

	err = svc.DeleteTeam(ctx, team.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	require.NoError(t, svc.DeleteTeam(ctx, team.ID, "alice"))

	_, err = svc.GetTeam(ctx, team.ID)
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)

	// The founder's team reference is cleared by the deletion.
	alice, err := svc.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, alice.TeamID)
}

func TestUpdateTeamRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	store, svc := newTeamFixture(t)
	store.addUser("alice", 0)
	store.addUser("bob", 0)

	team, err := svc.CreateTeam(ctx, "alice", "Runners", "")
	require.NoError(t, err)

	name := "Road Runners"
	_, err = svc.UpdateTeam(ctx, team.ID, "bob", domain.TeamPatch{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotAdmin)

	updated, err := svc.UpdateTeam(ctx, team.ID, "alice", domain.TeamPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Road Runners", updated.Name)
}

func TestListTeamsRetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := NewCacheService(nil, zap.NewNop())
	recOpts := reconcile.Options{MaxRetries: 3, Sleeper: instantSleeper{}}
	svc := NewTeamService(store, userRepoAdapter{store}, cache, recOpts, zap.NewNop())

	store.failList = errors.New("connection reset")
	_, err := svc.ListTeams(ctx, false)
	require.Error(t, err)
	// maxRetries=3 means the read was attempted exactly 4 times.
	assert.Equal(t, 4, store.listCalls)

	store.failList = nil
	teams, err := svc.ListTeams(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, teams)
}
