package bankverify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "bankverify:v1:"

// CachedVerifier keeps successful lookups in Redis so a branch already
// confirmed is not looked up again until ttl passes. Declined and failed
// lookups are never cached, and Redis errors fall through to next.
type CachedVerifier struct {
	next   Verifier
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedVerifier wraps next with a Redis cache.
func NewCachedVerifier(next Verifier, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedVerifier {
	return &CachedVerifier{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (v *CachedVerifier) Verify(ctx context.Context, ifsc string) (BankMetadata, error) {
	key := cachePrefix + ifsc

	cached, err := v.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var md BankMetadata
		if err := json.Unmarshal(cached, &md); err == nil {
			return md, nil
		}
		v.logger.Warn("discarding undecodable cached bank metadata", slog.String("ifsc", ifsc))
	case !errors.Is(err, redis.Nil):
		v.logger.Warn("bank metadata cache lookup failed", slog.String("ifsc", ifsc), slog.Any("error", err))
	}

	md, err := v.next.Verify(ctx, ifsc)
	if err != nil {
		return BankMetadata{}, err
	}

	payload, err := json.Marshal(md)
	if err != nil {
		return md, nil
	}
	if err := v.cache.Set(ctx, key, payload, v.ttl).Err(); err != nil {
		v.logger.Warn("bank metadata cache store failed", slog.String("ifsc", ifsc), slog.Any("error", err))
	}
	return md, nil
}
