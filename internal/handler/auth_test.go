package handler

import (
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func jsonContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(method, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func TestUpdateMeRequiresIdentity(t *testing.T) {
    h := &AuthHandler{}
    c, rec := jsonContext(t, http.MethodPut, "/v1/me", `{"firstName":"Ada","lastName":"Lovelace"}`)

    require.NoError(t, h.UpdateMe(c))
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMeRejectsBlankNames(t *testing.T) {
    cases := []struct {
        name string
        body string
    }{
        {"blank first name", `{"firstName":"  ","lastName":"Lovelace"}`},
        {"blank last name", `{"firstName":"Ada","lastName":""}`},
        {"empty body", `{}`},
    }
    h := &AuthHandler{}
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c, rec := jsonContext(t, http.MethodPut, "/v1/me", tc.body)
            c.Set("user_id", uint64(3))

            require.NoError(t, h.UpdateMe(c))
            assert.Equal(t, http.StatusBadRequest, rec.Code)
        })
    }
}

func TestUpdateMeRejectsMalformedBody(t *testing.T) {
    h := &AuthHandler{}
    c, rec := jsonContext(t, http.MethodPut, "/v1/me", `{"firstName":`)
    c.Set("user_id", uint64(3))

    require.NoError(t, h.UpdateMe(c))
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
