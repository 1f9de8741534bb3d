package handler

import (
    "context"
    "database/sql"
    "log"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/facility-reservation/internal/booking"
    "github.com/iliyamo/facility-reservation/internal/metrics"
    "github.com/iliyamo/facility-reservation/internal/model"
    "github.com/iliyamo/facility-reservation/internal/queue"
    "github.com/iliyamo/facility-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/facility-reservation/internal/service"
    "github.com/iliyamo/facility-reservation/internal/utils"
)

// defaultListWindow bounds reservation listings when the client gives
// no explicit start/end query parameters.
const defaultListWindow = 4 * 7 * 24 * time.Hour

// ReservationHandler bundles dependencies for reservation endpoints.
type ReservationHandler struct {
    Reservations *repository.ReservationRepo
    Facilities   *repository.FacilityRepo
    Payments     *repository.PaymentRepo
    Users        *repository.UserRepo
}

func NewReservationHandler(r *repository.ReservationRepo, f *repository.FacilityRepo, p *repository.PaymentRepo, u *repository.UserRepo) *ReservationHandler {
    return &ReservationHandler{Reservations: r, Facilities: f, Payments: p, Users: u}
}

// ----- DTOs -----

type createReservationReq struct {
    FacilityID uint64 `json:"facilityId"`
    StartTime  string `json:"startTime"`
    EndTime    string `json:"endTime"`
}

type reservationResp struct {
    ID         uint64  `json:"id"`
    FacilityID uint64  `json:"facilityId"`
    UserID     uint64  `json:"userId"`
    PaymentID  uint64  `json:"paymentId"`
    StartTime  string  `json:"startTime"`
    EndTime    string  `json:"endTime"`
    Price      string  `json:"price"`
    CreatedAt  string  `json:"createdAt"`
}

func reservationToResp(r model.Reservation) reservationResp {
    return reservationResp{
        ID:         r.ID,
        FacilityID: r.FacilityID,
        UserID:     r.UserID,
        PaymentID:  r.PaymentID,
        StartTime:  isoTime(r.StartTime),
        EndTime:    isoTime(r.EndTime),
        Price:      money(r.Price),
        CreatedAt:  isoTime(r.CreatedAt),
    }
}

type reservationDetailResp struct {
    reservationResp
    Payment *paymentResp `json:"payment,omitempty"`
}

func reservationsToResp(rs []model.Reservation) []reservationResp {
    out := make([]reservationResp, 0, len(rs))
    for _, r := range rs {
        out = append(out, reservationToResp(r))
    }
    return out
}

// listWindow reads optional startTime/endTime query parameters and
// falls back to [now, now+4 weeks].
func listWindow(c echo.Context) (time.Time, time.Time, error) {
    now := time.Now().UTC()
    start, end := now, now.Add(defaultListWindow)
    if s := c.QueryParam("startTime"); s != "" {
        t, err := parseTime(s)
        if err != nil {
            return start, end, err
        }
        start = t
    }
    if s := c.QueryParam("endTime"); s != "" {
        t, err := parseTime(s)
        if err != nil {
            return start, end, err
        }
        end = t
    }
    return start, end, nil
}

// Create admits a new reservation.  The checks run in a fixed order
// inside one transaction that holds a row lock on the facility:
// facility lookup, interval validation, overlap check, pricing,
// payment insert, reservation insert, payment back-link.  Two
// concurrent requests for the same facility serialize on the lock, so
// at most one of a conflicting pair commits.
func (h *ReservationHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.FacilityID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "facilityId required"})
    }
    start, err := parseTime(req.StartTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime must be RFC 3339"})
    }
    end, err := parseTime(req.EndTime)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "endTime must be RFC 3339"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    tx, err := h.Reservations.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    facility, err := h.Facilities.GetByIDForUpdateTx(ctx, tx, req.FacilityID)
    if err != nil {
        if err == repository.ErrFacilityNotFound {
            metrics.ReservationsRejected.WithLabelValues("not_found").Inc()
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }

    if err := booking.ValidateInterval(time.Now().UTC(), start, end); err != nil {
        metrics.ReservationsRejected.WithLabelValues("validation").Inc()
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }

    conflict, err := h.Reservations.ExistsOverlappingTx(ctx, tx, facility.ID, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "overlap check failed"})
    }
    if conflict {
        metrics.ReservationsRejected.WithLabelValues("overlap").Inc()
        return c.JSON(http.StatusConflict, echo.Map{"error": booking.ErrOverlap.Error()})
    }

    price := booking.Price(facility.PricePerHour, start, end)

    payment, err := h.Payments.CreateTx(ctx, tx, price, model.PaymentPaid, utils.NewPaymentReference())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment failed"})
    }

    res := model.Reservation{
        FacilityID: facility.ID,
        UserID:     uid,
        PaymentID:  payment.ID,
        StartTime:  start,
        EndTime:    end,
        Price:      price,
    }
    if err := h.Reservations.CreateTx(ctx, tx, &res); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
    }
    if err := h.Payments.LinkReservationTx(ctx, tx, payment.ID, res.ID); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link payment failed"})
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    metrics.ReservationsCreated.Inc()
    metrics.ReservationDurationHours.Observe(float64(booking.BilledHours(start, end)))

    h.publishConfirmed(res, facility)

    return c.JSON(http.StatusCreated, reservationToResp(res))
}

// publishConfirmed emits the confirmation event in the background.
// Failures are logged only; the reservation is already committed.
func (h *ReservationHandler) publishConfirmed(res model.Reservation, facility model.Facility) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
        defer cancel()

        u, err := h.Users.GetByID(ctx, res.UserID)
        if err != nil {
            log.Printf("reservation %d: load user for confirmation failed: %v", res.ID, err)
            return
        }
        _ = queue_publisher.PublishReservationConfirmed(ctx, queue.ReservationConfirmedEvent{
            ReservationID: res.ID,
            UserID:        u.ID,
            UserEmail:     u.Email,
            FirstName:     u.FirstName,
            FacilityID:    facility.ID,
            FacilityName:  facility.Name,
            StartTime:     isoTime(res.StartTime),
            EndTime:       isoTime(res.EndTime),
            Price:         money(res.Price),
            ConfirmedAt:   isoTime(time.Now()),
        })
    }()
}

// ListAll returns reservations inside a window.  Admin only.
func (h *ReservationHandler) ListAll(c echo.Context) error {
    start, end, err := listWindow(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime/endTime must be RFC 3339"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rs, err := h.Reservations.ListAll(ctx, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, reservationsToResp(rs))
}

// ListMine returns the caller's reservations inside a window, which
// defaults to the next four weeks.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    start, end, err := listWindow(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime/endTime must be RFC 3339"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    rs, err := h.Reservations.ListByUser(ctx, uid, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, reservationsToResp(rs))
}

// canAccessReservation returns nil when the caller may read the
// reservation (its user, an owner of its facility, or an admin) and
// repository.ErrForbidden otherwise.
func (h *ReservationHandler) canAccessReservation(ctx context.Context, c echo.Context, res model.Reservation) error {
    if getRole(c) == model.RoleAdmin {
        return nil
    }
    uid, err := getUserID(c)
    if err != nil {
        return repository.ErrForbidden
    }
    if res.UserID == uid {
        return nil
    }
    owner, err := h.Facilities.IsOwner(ctx, res.FacilityID, uid)
    if err != nil {
        return err
    }
    if !owner {
        return repository.ErrForbidden
    }
    return nil
}

// Get returns one reservation, subject to the access rules above.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
    }
    if err := h.canAccessReservation(ctx, c, res); err != nil {
        if err == repository.ErrForbidden {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
    }

    out := reservationDetailResp{reservationResp: reservationToResp(res)}
    if p, err := h.Payments.GetByID(ctx, res.PaymentID); err == nil {
        pr := paymentToResp(p)
        out.Payment = &pr
    }
    return c.JSON(http.StatusOK, out)
}

// Delete removes a reservation unconditionally for its user or an
// admin.  Facility owners can read but not delete other users'
// reservations.  No cancellation window applies; the payment row
// survives with its reservation link cleared.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    res, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            // Deleting an absent reservation is a no-op, not an error.
            return c.NoContent(http.StatusNoContent)
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
    }
    if getRole(c) != model.RoleAdmin {
        uid, err := getUserID(c)
        if err != nil || res.UserID != uid {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
        }
    }
    if err := h.Reservations.Delete(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete reservation failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
