package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"vocalab-users/internal/adapter/cache"
	domain "vocalab-users/internal/domain/user"
	"vocalab-users/internal/usecase/user"
)

// CachedProfileRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedProfileRepository struct {
	dbRepo user.Repository
	cache  cache.ProfileCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedProfileRepository creates a new instance of CachedProfileRepository.
// A nil cache turns every call into a plain pass-through.
func NewCachedProfileRepository(dbRepo user.Repository, cache cache.ProfileCache, log *zap.Logger) *CachedProfileRepository {
	return &CachedProfileRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

var _ user.Repository = (*CachedProfileRepository)(nil)

// Create delegates to the DB repository.
func (r *CachedProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	return r.dbRepo.Create(ctx, p)
}

// GetByUserID retrieves a profile using the cache-aside pattern.
func (r *CachedProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, userID)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("user_id", userID), zap.Error(err))
		} else if cached != nil {
			r.log.Debug("profile retrieved from cache", zap.String("user_id", userID))
			return cached, nil
		}
	}

	// Concurrent misses for the same user id share one database read.
	result, err, _ := r.group.Do(cache.Key(userID), func() (any, error) {
		if r.cache != nil {
			cached, err := r.cache.Get(ctx, userID)
			if err == nil && cached != nil {
				r.log.Debug("profile retrieved from cache after single-flight wait", zap.String("user_id", userID))
				return cached, nil
			}
		}

		p, err := r.dbRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, err
		}

		// Absent profiles are not cached so a later create is visible immediately.
		if p != nil && r.cache != nil {
			if err := r.cache.Set(ctx, p); err != nil {
				r.log.Warn("failed to cache profile", zap.String("user_id", userID), zap.Error(err))
			}
		}

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p, _ := result.(*domain.Profile)
	if p == nil {
		return nil, nil
	}
	// Callers mutate the result through setters; hand each one its own copy.
	cp := *p
	return &cp, nil
}

// Update updates the profile in DB and invalidates the cache.
func (r *CachedProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	if err := r.dbRepo.Update(ctx, p); err != nil {
		return err
	}

	r.invalidate(ctx, p.UserID(), "update")
	return nil
}

// Delete deletes the profile from DB and invalidates the cache.
func (r *CachedProfileRepository) Delete(ctx context.Context, userID string) error {
	if err := r.dbRepo.Delete(ctx, userID); err != nil {
		return err
	}

	r.invalidate(ctx, userID, "delete")
	return nil
}

// List delegates to the DB repository.
func (r *CachedProfileRepository) List(ctx context.Context, query string, page, limit int64) ([]domain.Profile, int64, error) {
	return r.dbRepo.List(ctx, query, page, limit)
}

func (r *CachedProfileRepository) invalidate(ctx context.Context, userID, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, userID); err != nil {
		r.log.Warn("failed to invalidate cache after "+op, zap.String("user_id", userID), zap.Error(err))
	}
}
