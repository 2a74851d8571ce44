package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// DenylistRepo tracks revoked session tokens in Redis, keyed by the jti
// claim.  Sessions are otherwise stateless, so without this list a stolen
// token would stay valid until expiry; logout writes the jti here and
// session resolution checks it.  Entries carry a TTL equal to the token's
// remaining lifetime, so the list prunes itself.
//
// The Redis client may be nil (Redis down or unconfigured).  In that case
// Revoke is a no-op and IsRevoked treats every token as live, which
// degrades logout to client-side cookie removal.
type DenylistRepo struct{ rdb *redis.Client }

func NewDenylistRepo(rdb *redis.Client) *DenylistRepo { return &DenylistRepo{rdb: rdb} }

const denylistPrefix = "session:revoked:"

// Available reports whether revocations can actually be recorded.
func (r *DenylistRepo) Available() bool { return r.rdb != nil }

// Revoke marks a token id as revoked until the token's expiry.  Tokens
// already past expiry need no entry.
func (r *DenylistRepo) Revoke(ctx context.Context, tokenID string, exp time.Time) error {
	if r == nil || r.rdb == nil {
		return nil
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, denylistPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token id has been revoked.  Redis errors
// fail open: an unreachable denylist must not lock every user out.
func (r *DenylistRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil || r.rdb == nil {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, denylistPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
