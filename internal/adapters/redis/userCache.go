package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"
	"timelium/internal/core/user"
	userPort "timelium/internal/ports/user"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const userKeyPrefix = "user:"

// UserRepositoryCache read-through cache in front of a UserRepository.
// Every feed request looks up the viewer's location, so FindByID is cached;
// Update drops the entry. Redis failures fall back to the wrapped repository.
type UserRepositoryCache struct {
	Next   userPort.UserRepository
	Client *redis.Client
	TTL    time.Duration
	Logger *zap.Logger
}

func NewUserRepositoryCache(next userPort.UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *UserRepositoryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UserRepositoryCache{Next: next, Client: client, TTL: ttl, Logger: logger}
}

func (c *UserRepositoryCache) FindByID(ctx context.Context, id string) (*user.User, error) {
	key := userKeyPrefix + id

	data, err := c.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var u user.User
		if jerr := json.Unmarshal(data, &u); jerr == nil {
			return &u, nil
		}
		c.Logger.Warn("⚠️ Dropping undecodable cached user", zap.String("key", key))
		c.Client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		c.Logger.Warn("⚠️ Redis read failed, using database", zap.String("key", key), zap.Error(err))
	}

	u, err := c.Next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, u)
	return u, nil
}

func (c *UserRepositoryCache) Update(ctx context.Context, u *user.User) (*user.User, error) {
	updated, err := c.Next.Update(ctx, u)
	if err != nil {
		return nil, err
	}
	key := userKeyPrefix + updated.ID.String()
	if err := c.Client.Del(ctx, key).Err(); err != nil {
		c.Logger.Warn("⚠️ Could not invalidate cached user", zap.String("key", key), zap.Error(err))
	}
	return updated, nil
}

func (c *UserRepositoryCache) Create(ctx context.Context, u *user.User) (*user.User, error) {
	return c.Next.Create(ctx, u)
}

func (c *UserRepositoryCache) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return c.Next.FindByUsername(ctx, username)
}

func (c *UserRepositoryCache) Search(ctx context.Context, query string, limit int) ([]*user.User, error) {
	return c.Next.Search(ctx, query, limit)
}

func (c *UserRepositoryCache) List(ctx context.Context, limit int) ([]*user.User, error) {
	return c.Next.List(ctx, limit)
}

func (c *UserRepositoryCache) store(ctx context.Context, key string, u *user.User) {
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, data, c.TTL).Err(); err != nil {
		c.Logger.Warn("⚠️ Could not cache user", zap.String("key", key), zap.Error(err))
	}
}
