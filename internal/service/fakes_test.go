package service

import (
	"context"
	"time"

	"github.com/abmah/green-jordan-backend/internal/domain"
)

// fakeStore is an in-memory stand-in for the postgres repositories. It
// implements all four repository interfaces so the services can be tested
// against the documented storage semantics without a database.
type fakeStore struct {
	users       map[string]*domain.User
	teams       map[string]*domain.Team
	teamOrder   []string
	requests    []*domain.JoinRequest
	redeemables map[string]*domain.Redeemable
	baskets     []domain.BasketEntry

	failList  error // injected failure for List/ListRedeemables
	listCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[string]*domain.User),
		teams:       make(map[string]*domain.Team),
		redeemables: make(map[string]*domain.Redeemable),
	}
}

func (f *fakeStore) addUser(id string, points int) *domain.User {
	u := &domain.User{ID: id, Username: id, Email: id + "@example.com", Points: points}
	f.users[id] = u
	return u
}

func (f *fakeStore) addRedeemable(id string, cost int, available bool) *domain.Redeemable {
	item := &domain.Redeemable{ID: id, Name: id, Cost: cost, Available: available, CreatedAt: time.Now()}
	f.redeemables[id] = item
	return item
}

// --- TeamRepository ---

func (f *fakeStore) Create(ctx context.Context, team *domain.Team) error {
	founder := f.users[team.AdminID]
	if founder != nil && founder.HasTeam() {
		return domain.ErrAlreadyInTeam
	}
	team.Members = []string{team.AdminID}
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	f.teams[team.ID] = team
	f.teamOrder = append(f.teamOrder, team.ID)
	if founder != nil {
		id := team.ID
		founder.TeamID = &id
	}
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, nil
	}
	copy := *team
	copy.TotalPoints = 0
	for _, m := range team.Members {
		if u := f.users[m]; u != nil {
			copy.TotalPoints += u.Points
		}
	}
	return &copy, nil
}

func (f *fakeStore) List(ctx context.Context) ([]domain.Team, error) {
	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}
	teams := make([]domain.Team, 0, len(f.teamOrder))
	for _, id := range f.teamOrder {
		if t, err := f.GetByID(ctx, id); err == nil && t != nil {
			teams = append(teams, *t)
		}
	}
	return teams, nil
}

func (f *fakeStore) Update(ctx context.Context, id string, patch domain.TeamPatch) (*domain.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, nil
	}
	if patch.Name != nil {
		team.Name = *patch.Name
	}
	if patch.Description != nil {
		team.Description = *patch.Description
	}
	team.UpdatedAt = time.Now()
	return f.GetByID(ctx, id)
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	team, ok := f.teams[id]
	if !ok {
		return domain.ErrTeamNotFound
	}
	for _, m := range team.Members {
		if u := f.users[m]; u != nil {
			u.TeamID = nil
		}
	}
	kept := f.requests[:0]
	for _, req := range f.requests {
		if req.TeamID != id {
			kept = append(kept, req)
		}
	}
	f.requests = kept
	delete(f.teams, id)
	for i, tid := range f.teamOrder {
		if tid == id {
			f.teamOrder = append(f.teamOrder[:i], f.teamOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) RemoveMember(ctx context.Context, teamID, userID string) error {
	team, ok := f.teams[teamID]
	if !ok {
		return domain.ErrNotAMember
	}
	for i, m := range team.Members {
		if m == userID {
			team.Members = append(team.Members[:i], team.Members[i+1:]...)
			if u := f.users[userID]; u != nil {
				u.TeamID = nil
			}
			return nil
		}
	}
	return domain.ErrNotAMember
}

// --- UserRepository ---

func (f *fakeStore) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (f *fakeStore) GetBalance(ctx context.Context, id string) (int, error) {
	user, ok := f.users[id]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	return user.Points, nil
}

func (f *fakeStore) ListByTeam(ctx context.Context, teamID string) ([]domain.User, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return []domain.User{}, nil
	}
	members := make([]domain.User, 0, len(team.Members))
	for _, m := range team.Members {
		if u := f.users[m]; u != nil {
			members = append(members, *u)
		}
	}
	return members, nil
}

// --- JoinRequestRepository ---

func (f *fakeStore) CreateRequest(ctx context.Context, req *domain.JoinRequest) error {
	for _, existing := range f.requests {
		if existing.TeamID == req.TeamID && existing.UserID == req.UserID && existing.Status == domain.JoinRequestPending {
			return domain.ErrDuplicateRequest
		}
	}
	req.RequestedAt = time.Now()
	f.requests = append(f.requests, req)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, teamID, userID string) (*domain.JoinRequest, error) {
	for i := len(f.requests) - 1; i >= 0; i-- {
		req := f.requests[i]
		if req.TeamID == teamID && req.UserID == userID {
			copy := *req
			return &copy, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListPending(ctx context.Context, teamID string) ([]domain.JoinRequest, error) {
	pending := make([]domain.JoinRequest, 0)
	for _, req := range f.requests {
		if req.TeamID == teamID && req.Status == domain.JoinRequestPending {
			pending = append(pending, *req)
		}
	}
	return pending, nil
}

func (f *fakeStore) Accept(ctx context.Context, teamID, userID string) error {
	req, err := f.pendingFor(teamID, userID)
	if err != nil {
		return err
	}
	user := f.users[userID]
	if user != nil && user.HasTeam() {
		return domain.ErrAlreadyMember
	}
	now := time.Now()
	req.Status = domain.JoinRequestAccepted
	req.ResolvedAt = &now
	team := f.teams[teamID]
	team.Members = append(team.Members, userID)
	if user != nil {
		id := teamID
		user.TeamID = &id
	}
	return nil
}

func (f *fakeStore) Deny(ctx context.Context, teamID, userID string) error {
	req, err := f.pendingFor(teamID, userID)
	if err != nil {
		return err
	}
	now := time.Now()
	req.Status = domain.JoinRequestDenied
	req.ResolvedAt = &now
	return nil
}

func (f *fakeStore) pendingFor(teamID, userID string) (*domain.JoinRequest, error) {
	var seen bool
	for _, req := range f.requests {
		if req.TeamID == teamID && req.UserID == userID {
			if req.Status == domain.JoinRequestPending {
				return req, nil
			}
			seen = true
		}
	}
	if seen {
		return nil, domain.ErrAlreadyResolved
	}
	return nil, domain.ErrNoSuchRequest
}

// --- RedeemRepository ---

func (f *fakeStore) GetRedeemable(ctx context.Context, id string) (*domain.Redeemable, error) {
	item, ok := f.redeemables[id]
	if !ok {
		return nil, nil
	}
	copy := *item
	return &copy, nil
}

func (f *fakeStore) ListRedeemables(ctx context.Context) ([]domain.Redeemable, error) {
	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}
	items := make([]domain.Redeemable, 0, len(f.redeemables))
	for _, item := range f.redeemables {
		items = append(items, *item)
	}
	return items, nil
}

func (f *fakeStore) Redeem(ctx context.Context, entry *domain.BasketEntry) (int, error) {
	item, ok := f.redeemables[entry.RedeemableID]
	if !ok {
		return 0, domain.ErrRedeemableNotFound
	}
	if !item.Available {
		return 0, domain.ErrItemUnavailable
	}
	user, ok := f.users[entry.UserID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	if user.Points < item.Cost {
		return 0, domain.ErrInsufficientFunds
	}
	user.Points -= item.Cost
	entry.PointsSpent = item.Cost
	entry.RedeemedAt = time.Now()
	f.baskets = append(f.baskets, *entry)
	return user.Points, nil
}

func (f *fakeStore) ListBasket(ctx context.Context, userID string) ([]domain.BasketEntry, error) {
	entries := make([]domain.BasketEntry, 0)
	for _, entry := range f.baskets {
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// userRepoAdapter bridges the method-name clash between GetUserByID and the
// UserRepository interface's GetByID.
type userRepoAdapter struct{ *fakeStore }

func (a userRepoAdapter) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return a.fakeStore.GetUserByID(ctx, id)
}

// requestRepoAdapter bridges Create on the JoinRequestRepository interface.
type requestRepoAdapter struct{ *fakeStore }

func (a requestRepoAdapter) Create(ctx context.Context, req *domain.JoinRequest) error {
	return a.fakeStore.CreateRequest(ctx, req)
}
