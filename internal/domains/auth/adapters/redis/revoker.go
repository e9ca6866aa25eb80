package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avetrov/go-shop-api/internal/domains/auth/ports"
)

const keyPrefix = "auth:revoked:"

var _ ports.TokenRevoker = (*Revoker)(nil)

// Revoker stores the token denylist in Redis. Keys carry the remaining token
// lifetime as TTL, so Redis garbage-collects them on expiry.
type Revoker struct {
	client *redis.Client
}

// NewRevoker wires a Redis-backed revoker. Caller manages client lifecycle.
func NewRevoker(client *redis.Client) *Revoker {
	return &Revoker{client: client}
}

func (r *Revoker) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, keyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *Revoker) IsRevoked(ctx context.Context, token string) (bool, error) {
	count, err := r.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return count > 0, nil
}
