package handler // handler defines http handlers

import (
    "errors"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims arrive as float64; older tokens may carry strings.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
    if r, ok := c.Get("role").(string); ok {
        return r
    }
    return ""
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// parseTime parses an RFC 3339 timestamp and normalizes it to UTC.
func parseTime(s string) (time.Time, error) {
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, err
    }
    return t.UTC(), nil
}

// money renders a decimal as a 2-digit string for the API boundary.
// Currency never travels as a binary float.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

// isoTime renders a timestamp as RFC 3339 in UTC.
func isoTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }
