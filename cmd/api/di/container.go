package di

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vocalab-users/cmd/api/infrastructure"
	"vocalab-users/internal/adapter/cache"
	"vocalab-users/internal/adapter/db/postgres"
	ginhandler "vocalab-users/internal/adapter/gin/handler"
	grpcadapter "vocalab-users/internal/adapter/grpc"
	"vocalab-users/internal/adapter/grpc/middleware"
	"vocalab-users/internal/adapter/repository/cached"
	"vocalab-users/internal/config"
	"vocalab-users/internal/usecase/user"
	redisclient "vocalab-users/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client // nil when Redis is disabled
	ProfileUC   *user.Usecase
	RateLimiter *middleware.RateLimiter
	GinHandler  *ginhandler.ProfileHandler
	GRPCServer  *grpcadapter.ProfileServer
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// A local SQLite file has no separate migration step
	if cfg.DB.Driver == config.DriverSQLite {
		if err := postgres.Migrate(db); err != nil {
			_ = infrastructure.CloseDatabase(db)
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		_ = infrastructure.CloseDatabase(db)
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// The cache stays a nil interface when Redis is disabled
	var profileCache cache.ProfileCache
	limiterCfg := middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstCapacity:     cfg.RateLimit.BurstCapacity,
		Enabled:           cfg.RateLimit.Enabled,
		TrustedProxies:    cfg.RateLimit.TrustedProxies,
	}
	var rateLimiter *middleware.RateLimiter
	if rdb != nil {
		profileCache = cache.NewRedisProfileCache(rdb.Client, time.Duration(cfg.Redis.CacheTTL)*time.Second, l)
		rateLimiter = middleware.NewRateLimiter(rdb.Client, limiterCfg, l)
	} else {
		rateLimiter = middleware.NewRateLimiter(nil, limiterCfg, l)
	}

	dbRepo := postgres.NewProfileRepoPG(db, l)
	repo := cached.NewCachedProfileRepository(dbRepo, profileCache, l)

	profileUC := user.New(repo, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		ProfileUC:   profileUC,
		RateLimiter: rateLimiter,
		GinHandler:  ginhandler.NewProfileHandler(profileUC, l),
		GRPCServer:  grpcadapter.NewProfileServer(profileUC, l),
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
