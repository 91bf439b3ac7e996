package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/identitykit/account-api/internal/core/domain"
	"github.com/identitykit/account-api/internal/core/ports"
)

const identityTTL = time.Minute

// IdentityCache decorates a ports.UserRepository with a short-lived Redis
// cache for FindByID, the lookup the access guard performs on every
// protected request. Writes pass through and drop the cached entry so a
// profile update or deletion is visible on the next request. Cache failures
// degrade to the underlying store; they never fail the request.
//
// Only the password-excluded projection is ever cached.
type IdentityCache struct {
	client *redis.Client
	next   ports.UserRepository
	log    zerolog.Logger
}

func NewIdentityCache(client *redis.Client, next ports.UserRepository, log zerolog.Logger) *IdentityCache {
	return &IdentityCache{client: client, next: next, log: log}
}

func (c *IdentityCache) FindByID(ctx context.Context, id string) (*domain.User, error) {
	key := c.key(id)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var user domain.User
		if err := json.Unmarshal(payload, &user); err == nil {
			return &user, nil
		}
		// Unreadable entry: fall through and overwrite it.
	} else if err != redis.Nil {
		c.log.Warn().Err(err).Msg("identity cache read failed")
	}

	user, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cacheEntry(user)); err == nil {
		if err := c.client.Set(ctx, key, data, identityTTL).Err(); err != nil {
			c.log.Warn().Err(err).Msg("identity cache write failed")
		}
	}
	return user, nil
}

func (c *IdentityCache) UpdateByID(ctx context.Context, id string, update ports.UserUpdate) (int64, error) {
	affected, err := c.next.UpdateByID(ctx, id, update)
	if affected > 0 {
		c.invalidate(ctx, id)
	}
	return affected, err
}

func (c *IdentityCache) DeleteByID(ctx context.Context, id string) (int64, error) {
	deleted, err := c.next.DeleteByID(ctx, id)
	if deleted > 0 {
		c.invalidate(ctx, id)
	}
	return deleted, err
}

// Create, FindByUsername, FindByUsernameOrEmail and FindAll are not cached;
// they either run once per session (login) or are admin-only.

func (c *IdentityCache) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return c.next.Create(ctx, user)
}

func (c *IdentityCache) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return c.next.FindByUsername(ctx, username)
}

func (c *IdentityCache) FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return c.next.FindByUsernameOrEmail(ctx, username, email)
}

func (c *IdentityCache) FindAll(ctx context.Context) ([]domain.User, error) {
	return c.next.FindAll(ctx)
}

func (c *IdentityCache) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("identity cache invalidation failed")
	}
}

func (c *IdentityCache) key(id string) string {
	return fmt.Sprintf("identity:%s", id)
}

// cacheEntry strips the password hash before serialization. FindByID results
// never carry one, but the cache must not depend on that.
func cacheEntry(u *domain.User) *domain.User {
	entry := *u
	entry.PasswordHash = ""
	return &entry
}
