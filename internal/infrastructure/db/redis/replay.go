package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayTTL = 24 * time.Hour

// ReplayGuard maps an Idempotency-Key to the portfolio it created so a
// retried create request returns the original instead of a conflict.
// Key format: replay:<idempotency_key>
type ReplayGuard struct {
	client *redis.Client
}

// NewReplayGuard creates a ReplayGuard wrapping the given Redis client.
func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

// Lookup returns the portfolio id recorded for key, if any.
func (g *ReplayGuard) Lookup(ctx context.Context, key string) (string, bool, error) {
	id, err := g.client.Get(ctx, g.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("replay lookup: %w", err)
	}
	return id, true, nil
}

// Remember records the portfolio created for key (expires after replayTTL).
func (g *ReplayGuard) Remember(ctx context.Context, key, portfolioID string) error {
	return g.client.Set(ctx, g.key(key), portfolioID, replayTTL).Err()
}

func (g *ReplayGuard) key(key string) string {
	return "replay:" + key
}
