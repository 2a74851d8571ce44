package config

import "time"

// CacheConfig defines settings for the donor browse response cache.  Only
// GET responses are cached; TTL is short because approved-request listings
// change whenever an admin transitions a request.  When Enabled is false
// or no Redis client is configured, caching is disabled.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
	MaxBody int
}

// LoadCacheConfig reads environment variables to build a CacheConfig, with
// defaults applied when variables are unset.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "cache"),
		MaxBody: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
