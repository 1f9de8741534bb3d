package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    at, err := NewAccessToken("test-secret", 42, "OWNER", 15)
    require.NoError(t, err)
    require.NotEmpty(t, at.Token)

    tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte("test-secret"), nil
    })
    require.NoError(t, err)
    require.True(t, tok.Valid)

    claims, ok := tok.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, float64(42), claims["sub"])
    assert.Equal(t, "OWNER", claims["role"])
}

func TestAccessTokenWrongSecret(t *testing.T) {
    at, err := NewAccessToken("test-secret", 42, "NORMAL", 15)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
        return []byte("other-secret"), nil
    })
    assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
    rt, err := NewRefreshToken(7)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96)

    h1 := HashRefreshRaw(rt.Raw)
    h2 := HashRefreshRaw(rt.Raw)
    assert.Equal(t, h1, h2)
    assert.Len(t, h1, 64)
    assert.NotEqual(t, h1, HashRefreshRaw(rt.Raw+"x"))
}

func TestPasswordHashing(t *testing.T) {
    hash, err := HashPassword("s3cret", 4)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "s3cret"))
    assert.False(t, VerifyPassword(hash, "wrong"))
}
