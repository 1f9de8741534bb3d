package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/facility-reservation/internal/metrics"
    "github.com/iliyamo/facility-reservation/internal/model"
    "github.com/iliyamo/facility-reservation/internal/repository"
)

// PaymentHandler bundles dependencies for payment endpoints.
type PaymentHandler struct {
    Payments     *repository.PaymentRepo
    Reservations *repository.ReservationRepo
    Facilities   *repository.FacilityRepo
}

func NewPaymentHandler(p *repository.PaymentRepo, r *repository.ReservationRepo, f *repository.FacilityRepo) *PaymentHandler {
    return &PaymentHandler{Payments: p, Reservations: r, Facilities: f}
}

// ----- DTOs -----

type paymentResp struct {
    ID            uint64  `json:"id"`
    ReservationID *uint64 `json:"reservationId"`
    Status        string  `json:"status"`
    Price         string  `json:"price"`
    Reference     string  `json:"reference"`
    CreatedAt     string  `json:"createdAt"`
    UpdatedAt     string  `json:"updatedAt"`
}

type paymentStatusReq struct {
    Status string `json:"status"`
}

func paymentToResp(p model.Payment) paymentResp {
    return paymentResp{
        ID:            p.ID,
        ReservationID: p.ReservationID,
        Status:        p.Status,
        Price:         money(p.Price),
        Reference:     p.Reference,
        CreatedAt:     isoTime(p.CreatedAt),
        UpdatedAt:     isoTime(p.UpdatedAt),
    }
}

// ListAll returns every payment, newest first.  Admin only.
func (h *PaymentHandler) ListAll(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ps, err := h.Payments.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list payments failed"})
    }
    out := make([]paymentResp, 0, len(ps))
    for _, p := range ps {
        out = append(out, paymentToResp(p))
    }
    return c.JSON(http.StatusOK, out)
}

// canAccessPayment returns nil when the caller may read the payment:
// an admin, the user of the linked reservation, or an owner of the
// linked reservation's facility.  Unlinked payments are admin only;
// everyone else gets repository.ErrForbidden.
func (h *PaymentHandler) canAccessPayment(ctx context.Context, c echo.Context, p model.Payment) error {
    if getRole(c) == model.RoleAdmin {
        return nil
    }
    if p.ReservationID == nil {
        return repository.ErrForbidden
    }
    uid, err := getUserID(c)
    if err != nil {
        return repository.ErrForbidden
    }
    res, err := h.Reservations.GetByID(ctx, *p.ReservationID)
    if err != nil {
        if err == sql.ErrNoRows {
            return repository.ErrForbidden
        }
        return err
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

// Get returns one payment, subject to the access rules above.
func (h *PaymentHandler) Get(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Payments.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payment failed"})
    }
    if err := h.canAccessPayment(ctx, c, p); err != nil {
        if err == repository.ErrForbidden {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not allowed"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "access check failed"})
    }
    return c.JSON(http.StatusOK, paymentToResp(p))
}

// UpdateStatus applies a payment status transition.  Admin only.  An
// unknown status is a 400; a transition the state machine refuses
// (same status, paid without a reservation link, paid after cancelled
// or failed) is a 422.
func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
    }
    var req paymentStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if !model.ValidPaymentStatus(status) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown payment status"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    p, err := h.Payments.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payment failed"})
    }
    if err := p.SetStatus(status); err != nil {
        metrics.PaymentTransitions.WithLabelValues(status, "rejected").Inc()
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
    }
    if err := h.Payments.UpdateStatus(ctx, id, p.Status); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update payment failed"})
    }
    metrics.PaymentTransitions.WithLabelValues(status, "applied").Inc()

    stored, err := h.Payments.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load payment failed"})
    }
    return c.JSON(http.StatusOK, paymentToResp(stored))
}
