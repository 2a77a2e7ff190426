package services

import (
	"context"
	"time"

	"simbengride/internal/models"
	"simbengride/internal/utils"
	"simbengride/pkg/cache"
)

// redisSessionStore backs sessions with Redis so a multi-instance deployment
// shares one session space. Records expire with the token TTL.
type redisSessionStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

func NewRedisSessionStore(c *cache.RedisCache, ttl time.Duration) SessionStore {
	return &redisSessionStore{cache: c, ttl: ttl}
}

func (r *redisSessionStore) Put(ctx context.Context, id string, user *models.User) error {
	return r.cache.Set(ctx, utils.CacheSessionPrefix+id, user, r.ttl)
}

func (r *redisSessionStore) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.cache.Get(ctx, utils.CacheSessionPrefix+id, &user); err != nil {
		if cache.IsMiss(err) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *redisSessionStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, utils.CacheSessionPrefix+id)
}
