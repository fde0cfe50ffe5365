package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abmah/green-jordan-backend/internal/domain"
	"github.com/abmah/green-jordan-backend/pkg/redis"

	"go.uber.org/zap"
)

// CacheService provides cache-aside reads over the team and redemption read
// models, with invalidation hooks the workflows call after every mutation.
// A nil redis client degrades every method to its database fallback.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// GetTeamWithCache retrieves team data with cache-aside pattern
func (c *CacheService) GetTeamWithCache(ctx context.Context, teamID string, dbFallback func(ctx context.Context, id string) (*domain.Team, error)) (*domain.Team, error) {
	if c.redis == nil {
		return dbFallback(ctx, teamID)
	}
	cacheKey := c.redis.KeyBuilder.KeyTeamByID(teamID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var team domain.Team
		if marshalErr := json.Unmarshal([]byte(cachedData), &team); marshalErr == nil {
			c.logger.Debug("team cache hit", zap.String("team_id", teamID))
			return &team, nil
		} else {
			c.logger.Warn("team cache corrupted, falling back to database",
				zap.String("team_id", teamID),
				zap.Error(marshalErr))
		}
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("team cache error, falling back to database",
			zap.String("team_id", teamID),
			zap.Error(err))
	}

	team, err := dbFallback(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	if team != nil {
		go c.setAsync(cacheKey, team, redis.TTLTeamByID)
	}

	return team, nil
}

// GetTeamsWithCache retrieves the team list with cache-aside pattern
func (c *CacheService) GetTeamsWithCache(ctx context.Context, dbFallback func(ctx context.Context) ([]domain.Team, error)) ([]domain.Team, error) {
	if c.redis == nil {
		return dbFallback(ctx)
	}
	cacheKey := c.redis.KeyBuilder.KeyTeamsAll()

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var teams []domain.Team
		marshalErr := json.Unmarshal([]byte(cachedData), &teams)
		if marshalErr == nil {
			c.logger.Debug("team list cache hit", zap.Int("count", len(teams)))
			return teams, nil
		}
		c.logger.Warn("team list cache corrupted, falling back to database", zap.Error(marshalErr))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("team list cache error, falling back to database", zap.Error(err))
	}

	teams, err := dbFallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	go c.setAsync(cacheKey, teams, redis.TTLTeams)
	return teams, nil
}

// GetRedeemablesWithCache retrieves the catalog with cache-aside pattern
func (c *CacheService) GetRedeemablesWithCache(ctx context.Context, dbFallback func(ctx context.Context) ([]domain.Redeemable, error)) ([]domain.Redeemable, error) {
	if c.redis == nil {
		return dbFallback(ctx)
	}
	cacheKey := c.redis.KeyBuilder.KeyRedeemables()

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var items []domain.Redeemable
		marshalErr := json.Unmarshal([]byte(cachedData), &items)
		if marshalErr == nil {
			c.logger.Debug("catalog cache hit", zap.Int("count", len(items)))
			return items, nil
		}
		c.logger.Warn("catalog cache corrupted, falling back to database", zap.Error(marshalErr))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("catalog cache error, falling back to database", zap.Error(err))
	}

	items, err := dbFallback(ctx)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	go c.setAsync(cacheKey, items, redis.TTLRedeemables)
	return items, nil
}

// GetBasketWithCache retrieves a user's basket with cache-aside pattern
func (c *CacheService) GetBasketWithCache(ctx context.Context, userID string, dbFallback func(ctx context.Context, userID string) ([]domain.BasketEntry, error)) ([]domain.BasketEntry, error) {
	if c.redis == nil {
		return dbFallback(ctx, userID)
	}
	cacheKey := c.redis.KeyBuilder.KeyBasket(userID)

	cachedData, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cachedData != "" {
		var entries []domain.BasketEntry
		marshalErr := json.Unmarshal([]byte(cachedData), &entries)
		if marshalErr == nil {
			c.logger.Debug("basket cache hit", zap.String("user_id", userID))
			return entries, nil
		}
		c.logger.Warn("basket cache corrupted, falling back to database",
			zap.String("user_id", userID),
			zap.Error(marshalErr))
	} else if err != nil && !redis.IsNil(err) {
		c.logger.Warn("basket cache error, falling back to database",
			zap.String("user_id", userID),
			zap.Error(err))
	}

	entries, err := dbFallback(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("database fallback failed: %w", err)
	}

	go c.setAsync(cacheKey, entries, redis.TTLBasket)
	return entries, nil
}

// InvalidateTeamCaches drops the team list and the individual team entry
// after a membership or registry mutation.
func (c *CacheService) InvalidateTeamCaches(teamID string) {
	if c.redis == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		keys := []string{c.redis.KeyBuilder.KeyTeamsAll()}
		if teamID != "" {
			keys = append(keys,
				c.redis.KeyBuilder.KeyTeamByID(teamID),
				c.redis.KeyBuilder.KeyTeamMembers(teamID))
		}
		if err := c.redis.Delete(ctx, keys...); err != nil {
			c.logger.Warn("failed to invalidate team caches",
				zap.String("team_id", teamID),
				zap.Error(err))
		}
	}()
}

// InvalidateUserCaches drops the cached user snapshot and basket after a
// debit or membership change.
func (c *CacheService) InvalidateUserCaches(userID string) {
	if c.redis == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		keys := []string{
			c.redis.KeyBuilder.KeyUserByID(userID),
			c.redis.KeyBuilder.KeyBasket(userID),
		}
		if err := c.redis.Delete(ctx, keys...); err != nil {
			c.logger.Warn("failed to invalidate user caches",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}()
}

// HealthCheck verifies the cache backend is reachable
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if c.redis == nil {
		return nil
	}
	if err := c.redis.Health(ctx); err != nil {
		return fmt.Errorf("cache health check failed: %w", err)
	}
	return nil
}

// setAsync caches a value without blocking the request path. Failures are
// logged and dropped; a cold cache only costs the next read a round trip.
func (c *CacheService) setAsync(key string, value interface{}, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("failed to marshal cache value", zap.Error(err))
		return
	}
	if err := c.redis.Set(ctx, key, string(data), ttl); err != nil {
		c.logger.Warn("failed to cache value", zap.Error(err))
	}
}
