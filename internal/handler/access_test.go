package handler

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/facility-reservation/internal/model"
    "github.com/iliyamo/facility-reservation/internal/repository"
)

func TestCanAccessReservation(t *testing.T) {
    h := &ReservationHandler{}
    res := model.Reservation{ID: 1, UserID: 10, FacilityID: 2}

    t.Run("admin allowed", func(t *testing.T) {
        c := testContext("/")
        c.Set("role", model.RoleAdmin)
        assert.NoError(t, h.canAccessReservation(context.Background(), c, res))
    })

    t.Run("owning user allowed", func(t *testing.T) {
        c := testContext("/")
        c.Set("user_id", uint64(10))
        assert.NoError(t, h.canAccessReservation(context.Background(), c, res))
    })

    t.Run("no identity forbidden", func(t *testing.T) {
        c := testContext("/")
        err := h.canAccessReservation(context.Background(), c, res)
        assert.ErrorIs(t, err, repository.ErrForbidden)
    })
}

func TestCanAccessPayment(t *testing.T) {
    h := &PaymentHandler{}
    rid := uint64(5)

    t.Run("admin allowed", func(t *testing.T) {
        c := testContext("/")
        c.Set("role", model.RoleAdmin)
        p := model.Payment{ID: 1, ReservationID: &rid}
        assert.NoError(t, h.canAccessPayment(context.Background(), c, p))
    })

    t.Run("unlinked payment forbidden for non-admin", func(t *testing.T) {
        c := testContext("/")
        c.Set("user_id", uint64(10))
        p := model.Payment{ID: 1}
        err := h.canAccessPayment(context.Background(), c, p)
        assert.ErrorIs(t, err, repository.ErrForbidden)
    })

    t.Run("no identity forbidden", func(t *testing.T) {
        c := testContext("/")
        p := model.Payment{ID: 1, ReservationID: &rid}
        err := h.canAccessPayment(context.Background(), c, p)
        assert.ErrorIs(t, err, repository.ErrForbidden)
    })
}
