package service

import (
	"context"
	"fmt"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/internal/reconcile"
	"github.com/abmah/green-jordan-backend/internal/repository"

	"go.uber.org/zap"
)

type redeemService struct {
	redeems    repository.RedeemRepository
	users      repository.UserRepository
	cache      *CacheService
	catalogRec *reconcile.Reconciler[[]domain.Redeemable]
	logger     *zap.Logger
}

// NewRedeemService creates the redemption workflow over the ledger and the
// catalog. Catalog reads go through the reconciler; redemption itself is
// never retried automatically so a transient failure cannot double-debit.
func NewRedeemService(redeems repository.RedeemRepository, users repository.UserRepository, cache *CacheService, recOpts reconcile.Options, logger *zap.Logger) RedeemService {
	s := &redeemService{
		redeems: redeems,
		users:   users,
		cache:   cache,
		logger:  logger,
	}
	recOpts.Logger = logger
	s.catalogRec = reconcile.New(func(ctx context.Context) ([]domain.Redeemable, error) {
		return redeems.ListRedeemables(ctx)
	}, recOpts)
	return s
}

// GetBalance returns the user's current point balance
func (s *redeemService) GetBalance(ctx context.Context, userID string) (int, error) {
	return s.users.GetBalance(ctx, userID)
}

// ListAvailable returns catalog entries the user can afford right now. The
// view is derived on every call from the catalog and the live balance.
func (s *redeemService) ListAvailable(ctx context.Context, userID string) ([]domain.Redeemable, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.ListAll(ctx, false)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Redeemable, 0, len(items))
	for _, item := range items {
		if item.Available && item.Cost <= balance {
			available = append(available, item)
		}
	}
	return available, nil
}

// ListAll returns the full catalog regardless of affordability
func (s *redeemService) ListAll(ctx context.Context, forceRefresh bool) ([]domain.Redeemable, error) {
	if forceRefresh {
		return s.catalogRec.Refetch(ctx)
	}
	return s.cache.GetRedeemablesWithCache(ctx, func(ctx context.Context) ([]domain.Redeemable, error) {
		return s.catalogRec.Refresh(ctx)
	})
}

// Redeem exchanges points for a catalog item. Availability and balance are
// checked here for a fast rejection, then re-validated inside the store
// transaction that debits the ledger and appends the basket entry.
//
// Calls are not deduplicated: a double-tap that passes validation twice
// produces two basket entries and two debits. The observed client behaves
// this way; an idempotency key on the request would close the gap.
func (s *redeemService) Redeem(ctx context.Context, userID, redeemableID string) (*domain.RedeemResponse, error) {
	item, err := s.redeems.GetRedeemable(ctx, redeemableID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrRedeemableNotFound
	}
	if !item.Available {
		return nil, domain.ErrItemUnavailable
	}

	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if balance < item.Cost {
		return nil, domain.ErrInsufficientFunds
	}

	entry := &domain.BasketEntry{
		ID:           newID("bskt"),
		UserID:       userID,
		RedeemableID: redeemableID,
	}

	newBalance, err := s.redeems.Redeem(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateUserCaches(userID)

	s.logger.Info("redemption committed",
		zap.String("user_id", userID),
		zap.String("redeemable_id", redeemableID),
		zap.Int("points_spent", entry.PointsSpent),
		zap.Int("new_balance", newBalance))

	return &domain.RedeemResponse{
		Entry:      *entry,
		NewBalance: newBalance,
		Message:    fmt.Sprintf("Redeemed %s for %d points", item.Name, entry.PointsSpent),
	}, nil
}

// GetBasket returns the user's completed redemptions
func (s *redeemService) GetBasket(ctx context.Context, userID string) ([]domain.BasketEntry, error) {
	return s.cache.GetBasketWithCache(ctx, userID, s.redeems.ListBasket)
}
