package container

import (
	"context"

	"github.com/abmah/green-jordan-backend/internal/config"
	"github.com/abmah/green-jordan-backend/internal/reconcile"
	"github.com/abmah/green-jordan-backend/internal/repository"
	"github.com/abmah/green-jordan-backend/internal/service"
	"github.com/abmah/green-jordan-backend/internal/service/auth"
	"github.com/abmah/green-jordan-backend/pkg/database"
	"github.com/abmah/green-jordan-backend/pkg/logger"
	"github.com/abmah/green-jordan-backend/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Services    *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	// Redis is optional; everything degrades to database reads without it
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)
	requestRepo := repository.NewJoinRequestRepository(db)
	redeemRepo := repository.NewRedeemRepository(db)

	cacheService := service.NewCacheService(redisClient, log.Logger)
	recOpts := reconcile.Options{
		MaxRetries: cfg.RefreshMaxRetries,
		RetryDelay: cfg.RefreshRetryDelay,
	}

	services := &service.Services{
		Auth:       auth.NewService(cfg.JWTSecret, log.Logger),
		Team:       service.NewTeamService(teamRepo, userRepo, cacheService, recOpts, log.Logger),
		Membership: service.NewMembershipService(teamRepo, userRepo, requestRepo, cacheService, log.Logger),
		Redeem:     service.NewRedeemService(redeemRepo, userRepo, cacheService, recOpts, log.Logger),
	}

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,
		Services:    services,
	}, nil
}

// GetAuthService returns the auth service
func (c *Container) GetAuthService() service.AuthService {
	return c.Services.Auth
}

// GetTeamService returns the team registry service
func (c *Container) GetTeamService() service.TeamService {
	return c.Services.Team
}

// GetMembershipService returns the membership service
func (c *Container) GetMembershipService() service.MembershipService {
	return c.Services.Membership
}

// GetRedeemService returns the redemption service
func (c *Container) GetRedeemService() service.RedeemService {
	return c.Services.Redeem
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetDB returns the database handle
func (c *Container) GetDB() *database.PostgresDB {
	return c.DB
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
