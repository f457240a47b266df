package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rentport/accounts-api/internal/core/domain"
)

const profileTTL = 5 * time.Minute

// ProfileCache caches public profile reads in Redis.
// Key format: profile:<user_id>
//
// Only the public JSON representation is stored; the password hash and the
// active flag carry json:"-" and never enter the cache. Entries are
// invalidated on any profile or password mutation and expire after
// profileTTL regardless.
type ProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a ProfileCache wrapping the given Redis client.
func NewProfileCache(client *redis.Client) *ProfileCache {
	return &ProfileCache{client: client}
}

// Get returns the cached profile, or (nil, nil) on a miss.
func (p *ProfileCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	data, err := p.client.Get(ctx, p.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("profile cache decode: %w", err)
	}
	return &user, nil
}

// Set stores the user's public profile for profileTTL.
func (p *ProfileCache) Set(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("profile cache encode: %w", err)
	}
	return p.client.Set(ctx, p.key(user.ID), data, profileTTL).Err()
}

// Invalidate drops the cached profile after a mutation.
func (p *ProfileCache) Invalidate(ctx context.Context, userID string) error {
	return p.client.Del(ctx, p.key(userID)).Err()
}

func (p *ProfileCache) key(userID string) string {
	return "profile:" + userID
}
