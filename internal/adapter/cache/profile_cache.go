package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "vocalab-users/internal/domain/user"
)

// keyPrefix namespaces profile entries in Redis.
const keyPrefix = "profile:"

// ProfileCache defines the interface for profile caching operations.
type ProfileCache interface {
	// Get retrieves a profile from cache by user id.
	// Returns nil if the profile is not cached.
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// Set stores a profile in cache with the configured TTL.
	Set(ctx context.Context, p *domain.Profile) error

	// Delete removes a profile from cache by user id.
	Delete(ctx context.Context, userID string) error
}

// entry is the JSON document stored under each key.
type entry struct {
	LoginType    string `json:"login_type"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserNickname string `json:"user_nickname"`
}

// RedisProfileCache implements ProfileCache using Redis as the backing store.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisProfileCache creates a new Redis-backed profile cache.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisProfileCache {
	return &RedisProfileCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Key returns the Redis key for a user id.
func Key(userID string) string {
	return keyPrefix + userID
}

// Get retrieves a profile from Redis.
func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	data, err := c.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("user_id", userID))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		c.log.Error("failed to unmarshal cached profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("user_id", userID))
	p := domain.NewProfile(e.LoginType, e.UserID, e.UserName, e.UserNickname)
	return &p, nil
}

// Set stores a profile in Redis with TTL.
func (c *RedisProfileCache) Set(ctx context.Context, p *domain.Profile) error {
	if p == nil {
		return fmt.Errorf("cannot cache nil profile")
	}

	data, err := json.Marshal(entry{
		LoginType:    p.LoginType(),
		UserID:       p.UserID(),
		UserName:     p.UserName(),
		UserNickname: p.UserNickname(),
	})
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, Key(p.UserID()), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("user_id", p.UserID()), zap.Error(err))
		return err
	}

	c.log.Debug("cached profile", zap.String("user_id", p.UserID()), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a profile from Redis.
func (c *RedisProfileCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, Key(userID)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("user_id", userID))
	return nil
}
