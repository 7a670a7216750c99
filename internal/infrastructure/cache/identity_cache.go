package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/nutrition-program-api/internal/application/auth"
	"github.com/jhoicas/nutrition-program-api/internal/domain/entity"
)

var _ auth.IdentityCache = (*IdentityCache)(nil)

const identityKeyPrefix = "identity:"

// IdentityCache guarda {user_id, role, active} como hash Redis con TTL.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache construye la caché de identidades.
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{client: client, ttl: ttl}
}

func identityKey(userID string) string { return identityKeyPrefix + userID }

// Get devuelve la identidad cacheada o (nil, nil) si no hay entrada.
func (c *IdentityCache) Get(ctx context.Context, userID string) (*entity.Identity, error) {
	fields, err := c.client.HGetAll(ctx, identityKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	active, err := strconv.ParseBool(fields["active"])
	if err != nil || fields["role"] == "" {
		// Entrada corrupta: se trata como miss y se recarga desde la BD
		return nil, nil
	}
	return &entity.Identity{UserID: userID, Role: fields["role"], Active: active}, nil
}

// Set guarda la identidad y fija el TTL en una sola transacción MULTI/EXEC.
func (c *IdentityCache) Set(ctx context.Context, identity entity.Identity) error {
	key := identityKey(identity.UserID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "role", identity.Role, "active", strconv.FormatBool(identity.Active))
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set identity: %w", err)
	}
	return nil
}

// Delete invalida la identidad cacheada.
func (c *IdentityCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, identityKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
