package handler

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/facility-reservation/internal/model"
)

func testContext(target string) echo.Context {
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, target, nil)
    return e.NewContext(req, httptest.NewRecorder())
}

func TestGetUserID(t *testing.T) {
    cases := []struct {
        name string
        val  interface{}
        want uint64
        ok   bool
    }{
        {"float64 claim", float64(42), 42, true},
        {"uint64", uint64(7), 7, true},
        {"numeric string", "19", 19, true},
        {"garbage string", "abc", 0, false},
        {"missing", nil, 0, false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            c := testContext("/")
            if tc.val != nil {
                c.Set("user_id", tc.val)
            }
            got, err := getUserID(c)
            if tc.ok {
                require.NoError(t, err)
                assert.Equal(t, tc.want, got)
            } else {
                assert.Error(t, err)
            }
        })
    }
}

func TestMoney(t *testing.T) {
    assert.Equal(t, "20.00", money(decimal.RequireFromString("20")))
    assert.Equal(t, "31.50", money(decimal.RequireFromString("31.5")))
}

func TestApplyFacilityReq(t *testing.T) {
    valid := facilityReq{
        TypeID:       1,
        Name:         "Court A",
        Address:      "1 Main St",
        Lat:          52.52,
        Lon:          13.405,
        PricePerHour: "10.50",
    }

    t.Run("valid", func(t *testing.T) {
        var f model.Facility
        msg, ok := applyFacilityReq(valid, &f)
        require.True(t, ok, msg)
        assert.Equal(t, "Court A", f.Name)
        assert.Equal(t, "10.50", f.PricePerHour.StringFixed(2))
    })

    t.Run("lat out of range", func(t *testing.T) {
        req := valid
        req.Lat = 91
        var f model.Facility
        _, ok := applyFacilityReq(req, &f)
        assert.False(t, ok)
    })
    t.Run("lon out of range", func(t *testing.T) {
        req := valid
        req.Lon = -181
        var f model.Facility
        _, ok := applyFacilityReq(req, &f)
        assert.False(t, ok)
    })
    t.Run("zero price", func(t *testing.T) {
        req := valid
        req.PricePerHour = "0.00"
        var f model.Facility
        _, ok := applyFacilityReq(req, &f)
        assert.False(t, ok)
    })
    t.Run("negative price", func(t *testing.T) {
        req := valid
        req.PricePerHour = "-5.00"
        var f model.Facility
        _, ok := applyFacilityReq(req, &f)
        assert.False(t, ok)
    })
    t.Run("price not a decimal", func(t *testing.T) {
        req := valid
        req.PricePerHour = "ten"
        var f model.Facility
        _, ok := applyFacilityReq(req, &f)
        assert.False(t, ok)
    })
    t.Run("missing name", func(t *testing.T) {
        req := valid
        req.Name = "  "
        var f model.Facility
        _, ok := applyFacilityReq(req, &f)
        assert.False(t, ok)
    })
}

func TestListWindowDefaults(t *testing.T) {
    c := testContext("/v1/reservations/me")
    before := time.Now().UTC()
    start, end, err := listWindow(c)
    require.NoError(t, err)
    assert.WithinDuration(t, before, start, time.Second)
    assert.WithinDuration(t, before.Add(defaultListWindow), end, time.Second)
}

func TestListWindowExplicit(t *testing.T) {
    c := testContext("/v1/reservations/me?startTime=2026-09-01T00:00:00Z&endTime=2026-09-08T00:00:00Z")
    start, end, err := listWindow(c)
    require.NoError(t, err)
    assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), start)
    assert.Equal(t, time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC), end)
}

func TestListWindowBadInput(t *testing.T) {
    c := testContext("/v1/reservations/me?startTime=yesterday")
    _, _, err := listWindow(c)
    assert.Error(t, err)
}
