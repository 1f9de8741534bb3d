package booking

import (
    "testing"
    "time"

    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func ts(h, m int) time.Time {
    return time.Date(2026, 9, 1, h, m, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
    cases := []struct {
        name                           string
        aStart, aEnd, bStart, bEnd     time.Time
        want                           bool
    }{
        {"identical", ts(10, 0), ts(12, 0), ts(10, 0), ts(12, 0), true},
        {"contained", ts(10, 0), ts(12, 0), ts(10, 30), ts(11, 0), true},
        {"partial front", ts(10, 0), ts(12, 0), ts(9, 0), ts(10, 30), true},
        {"partial back", ts(10, 0), ts(12, 0), ts(11, 30), ts(13, 0), true},
        {"touching end-to-start", ts(10, 0), ts(12, 0), ts(12, 0), ts(13, 0), false},
        {"touching start-to-end", ts(10, 0), ts(12, 0), ts(9, 0), ts(10, 0), false},
        {"disjoint", ts(10, 0), ts(11, 0), ts(12, 0), ts(13, 0), false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
            // The predicate is symmetric.
            assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
        })
    }
}

func TestBilledHours(t *testing.T) {
    assert.Equal(t, int64(1), BilledHours(ts(10, 0), ts(11, 0)))
    assert.Equal(t, int64(1), BilledHours(ts(10, 0), ts(10, 30)))
    // 61 minutes rounds up to 2 hours.
    assert.Equal(t, int64(2), BilledHours(ts(10, 0), ts(11, 1)))
    assert.Equal(t, int64(24), BilledHours(ts(0, 0), ts(0, 0).Add(24*time.Hour)))
}

func TestPrice(t *testing.T) {
    rate := decimal.RequireFromString("10.00")
    assert.True(t, Price(rate, ts(10, 0), ts(11, 0)).Equal(decimal.RequireFromString("10.00")))
    assert.True(t, Price(rate, ts(10, 0), ts(11, 1)).Equal(decimal.RequireFromString("20.00")))

    rate = decimal.RequireFromString("10.50")
    // 2h05m bills as 3 hours.
    assert.Equal(t, "31.50", Price(rate, ts(10, 0), ts(12, 5)).StringFixed(2))
}

func TestValidateInterval(t *testing.T) {
    now := ts(9, 0)

    t.Run("valid", func(t *testing.T) {
        require.NoError(t, ValidateInterval(now, ts(10, 0), ts(11, 0)))
    })
    t.Run("start not in the future", func(t *testing.T) {
        err := ValidateInterval(now, now, ts(11, 0))
        require.Error(t, err)
        assert.True(t, IsValidation(err))
        assert.Equal(t, "start time must be in the future", err.Error())
    })
    t.Run("one microsecond in the future", func(t *testing.T) {
        start := now.Add(time.Microsecond)
        require.NoError(t, ValidateInterval(now, start, start.Add(time.Hour)))
    })
    t.Run("end before start", func(t *testing.T) {
        err := ValidateInterval(now, ts(11, 0), ts(10, 0))
        require.Error(t, err)
        assert.Equal(t, "end time must be after start time", err.Error())
    })
    t.Run("too short", func(t *testing.T) {
        err := ValidateInterval(now, ts(10, 0), ts(10, 29))
        require.Error(t, err)
        assert.Equal(t, "reservation must be at least 30 minutes", err.Error())
    })
    t.Run("minimum duration allowed", func(t *testing.T) {
        require.NoError(t, ValidateInterval(now, ts(10, 0), ts(10, 30)))
    })
    t.Run("maximum duration allowed", func(t *testing.T) {
        start := ts(10, 0)
        require.NoError(t, ValidateInterval(now, start, start.Add(24*time.Hour)))
    })
    t.Run("too long", func(t *testing.T) {
        start := ts(10, 0)
        err := ValidateInterval(now, start, start.Add(24*time.Hour+time.Minute))
        require.Error(t, err)
        assert.Equal(t, "reservation cannot exceed 24 hours", err.Error())
    })
    t.Run("order of checks", func(t *testing.T) {
        // A past start with a bad end reports the start violation first.
        err := ValidateInterval(now, ts(8, 0), ts(7, 0))
        require.Error(t, err)
        assert.Equal(t, "start time must be in the future", err.Error())
    })
}
