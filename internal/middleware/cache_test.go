package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/facility-reservation/internal/config"
)

func cacheCtx(target string) echo.Context {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    c := e.NewContext(req, httptest.NewRecorder())
    c.SetPath("/v1/facilities")
    return c
}

func TestCachePayloadRoundTrip(t *testing.T) {
    hdr := http.Header{}
    hdr.Set("Content-Type", "application/json")
    body := []byte(`[{"id":1}]`)

    bs, err := encodePayload(http.StatusOK, hdr, body)
    require.NoError(t, err)

    status, gotHdr, gotBody, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
    _, _, _, ok := decodePayload([]byte("short"))
    assert.False(t, ok)
    // Header length pointing past the buffer.
    bad := make([]byte, 12)
    bad[7] = 0xFF
    _, _, _, ok = decodePayload(bad)
    assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
    cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

    a := cacheKeyFrom(cfg, cacheCtx("/v1/facilities?page=1"))
    b := cacheKeyFrom(cfg, cacheCtx("/v1/facilities?page=2"))
    assert.NotEqual(t, a, b)

    // Query is ignored under the plain route strategy.
    cfg.KeyStrategy = "route"
    a = cacheKeyFrom(cfg, cacheCtx("/v1/facilities?page=1"))
    b = cacheKeyFrom(cfg, cacheCtx("/v1/facilities?page=2"))
    assert.Equal(t, a, b)
}

func TestBuildRateKey(t *testing.T) {
    cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user_route"}

    c := cacheCtx("/v1/facilities")
    key := buildRateKey(cfg, c)
    assert.Contains(t, key, "user:anon")
    assert.Contains(t, key, "GET /v1/facilities")

    c.Set("user_id", float64(42))
    key = buildRateKey(cfg, c)
    assert.Contains(t, key, "user:42")
}
