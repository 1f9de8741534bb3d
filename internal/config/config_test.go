package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestParseMethods(t *testing.T) {
    m := parseMethods("get, post")
    assert.True(t, m["GET"])
    assert.True(t, m["POST"])
    assert.False(t, m["DELETE"])

    // The GET default comes from the env fallback, not from here.
    assert.Empty(t, parseMethods(""))
}

func TestLoadCacheConfigDefaults(t *testing.T) {
    cfg := LoadCacheConfig()
    assert.True(t, cfg.Enabled)
    assert.True(t, cfg.Methods["GET"])
    assert.Equal(t, 30*time.Second, cfg.TTL)
    assert.Equal(t, "route_query", cfg.KeyStrategy)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
    t.Setenv("CACHE_ENABLED", "false")
    t.Setenv("CACHE_TTL", "2m")
    t.Setenv("CACHE_METHODS", "GET,HEAD")

    cfg := LoadCacheConfig()
    assert.False(t, cfg.Enabled)
    assert.Equal(t, 2*time.Minute, cfg.TTL)
    assert.True(t, cfg.Methods["HEAD"])
}

func TestLoadRateLimitConfigFloors(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "0s")

    cfg := LoadRateLimitConfig()
    assert.GreaterOrEqual(t, cfg.Capacity, 1)
    assert.GreaterOrEqual(t, cfg.RefillTokens, 1)
    assert.Greater(t, cfg.RefillInterval, time.Duration(0))
}
