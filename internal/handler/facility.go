package handler

import (
    "context"
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/facility-reservation/internal/model"
    "github.com/iliyamo/facility-reservation/internal/repository"
)

// FacilityHandler bundles dependencies for facility and facility-type
// endpoints, including the ownership grant/revoke flow.
type FacilityHandler struct {
    Facilities   *repository.FacilityRepo
    Types        *repository.FacilityTypeRepo
    Reservations *repository.ReservationRepo
    Users        *repository.UserRepo
}

func NewFacilityHandler(f *repository.FacilityRepo, t *repository.FacilityTypeRepo, r *repository.ReservationRepo, u *repository.UserRepo) *FacilityHandler {
    return &FacilityHandler{Facilities: f, Types: t, Reservations: r, Users: u}
}

// ----- DTOs -----

type facilityReq struct {
    TypeID       uint64  `json:"typeId"`
    Name         string  `json:"name"`
    Description  *string `json:"description"`
    Address      string  `json:"address"`
    Lat          float64 `json:"lat"`
    Lon          float64 `json:"lon"`
    PricePerHour string  `json:"pricePerHour"`
    ImageURL     string  `json:"imageUrl"`
}

type facilityResp struct {
    ID           uint64  `json:"id"`
    TypeID       uint64  `json:"typeId"`
    Name         string  `json:"name"`
    Description  *string `json:"description"`
    Address      string  `json:"address"`
    Lat          float64 `json:"lat"`
    Lon          float64 `json:"lon"`
    PricePerHour string  `json:"pricePerHour"`
    ImageURL     string  `json:"imageUrl"`
    CreatedAt    string  `json:"createdAt"`
    UpdatedAt    string  `json:"updatedAt"`
}

type facilityTypeResp struct {
    ID        uint64 `json:"id"`
    Name      string `json:"name"`
    CreatedAt string `json:"createdAt"`
}

func facilityToResp(f model.Facility) facilityResp {
    lat, _ := f.Lat.Float64()
    lon, _ := f.Lon.Float64()
    return facilityResp{
        ID:           f.ID,
        TypeID:       f.TypeID,
        Name:         f.Name,
        Description:  f.Description,
        Address:      f.Address,
        Lat:          lat,
        Lon:          lon,
        PricePerHour: money(f.PricePerHour),
        ImageURL:     f.ImageURL,
        CreatedAt:    isoTime(f.CreatedAt),
        UpdatedAt:    isoTime(f.UpdatedAt),
    }
}

func facilitiesToResp(fs []model.Facility) []facilityResp {
    out := make([]facilityResp, 0, len(fs))
    for _, f := range fs {
        out = append(out, facilityToResp(f))
    }
    return out
}

// applyFacilityReq validates the request body into the model.  Ranges:
// lat in [-90, 90], lon in [-180, 180], price strictly positive.
func applyFacilityReq(req facilityReq, f *model.Facility) (string, bool) {
    req.Name = strings.TrimSpace(req.Name)
    req.Address = strings.TrimSpace(req.Address)
    if req.TypeID == 0 {
        return "typeId required", false
    }
    if req.Name == "" {
        return "name required", false
    }
    if req.Address == "" {
        return "address required", false
    }
    if req.Lat < -90 || req.Lat > 90 {
        return "lat out of range", false
    }
    if req.Lon < -180 || req.Lon > 180 {
        return "lon out of range", false
    }
    price, err := decimal.NewFromString(strings.TrimSpace(req.PricePerHour))
    if err != nil || !price.IsPositive() {
        return "pricePerHour must be a positive decimal", false
    }
    f.TypeID = req.TypeID
    f.Name = req.Name
    f.Description = req.Description
    f.Address = req.Address
    f.Lat = decimal.NewFromFloat(req.Lat)
    f.Lon = decimal.NewFromFloat(req.Lon)
    f.PricePerHour = price
    f.ImageURL = strings.TrimSpace(req.ImageURL)
    return "", true
}

// ----- Facilities -----

// List returns every facility.  Public, cacheable.
func (h *FacilityHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    fs, err := h.Facilities.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list facilities failed"})
    }
    return c.JSON(http.StatusOK, facilitiesToResp(fs))
}

// Get returns one facility by id.
func (h *FacilityHandler) Get(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    f, err := h.Facilities.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrFacilityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }
    return c.JSON(http.StatusOK, facilityToResp(f))
}

type adminFacilityResp struct {
    facilityResp
    Owners []ownerResp `json:"owners"`
}

// ListAdmin returns every facility together with its owner set.
func (h *FacilityHandler) ListAdmin(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    fs, err := h.Facilities.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list facilities failed"})
    }
    out := make([]adminFacilityResp, 0, len(fs))
    for _, f := range fs {
        owners, err := h.Facilities.ListOwners(ctx, f.ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list owners failed"})
        }
        ownerParts := make([]ownerResp, 0, len(owners))
        for _, u := range owners {
            ownerParts = append(ownerParts, ownerResp{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role})
        }
        out = append(out, adminFacilityResp{facilityResp: facilityToResp(f), Owners: ownerParts})
    }
    return c.JSON(http.StatusOK, out)
}

// ListMine returns the facilities owned by the caller.
func (h *FacilityHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    fs, err := h.Facilities.ListByOwner(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list facilities failed"})
    }
    return c.JSON(http.StatusOK, facilitiesToResp(fs))
}

// Create inserts a new facility.  Admin only; route enforces the role.
func (h *FacilityHandler) Create(c echo.Context) error {
    var req facilityReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    var f model.Facility
    if msg, ok := applyFacilityReq(req, &f); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Types.GetByID(ctx, f.TypeID); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load type failed"})
    }
    if err := h.Facilities.Create(ctx, &f); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create facility failed"})
    }
    return c.JSON(http.StatusCreated, facilityToResp(f))
}

// Update rewrites a facility.  Allowed for admins and for owners of
// the facility itself.
func (h *FacilityHandler) Update(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
    }
    var req facilityReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    f, err := h.Facilities.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrFacilityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }

    if getRole(c) != model.RoleAdmin {
        uid, err := getUserID(c)
        if err != nil {
            return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
        }
        owner, err := h.Facilities.IsOwner(ctx, id, uid)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "ownership check failed"})
        }
        if !owner {
            return c.JSON(http.StatusForbidden, echo.Map{"error": "not an owner of this facility"})
        }
    }

    if msg, ok := applyFacilityReq(req, &f); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    if _, err := h.Types.GetByID(ctx, f.TypeID); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load type failed"})
    }
    if err := h.Facilities.Update(ctx, &f); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update facility failed"})
    }
    stored, err := h.Facilities.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }
    return c.JSON(http.StatusOK, facilityToResp(stored))
}

// Delete removes a facility.  Refused with 409 while any reservation
// still starts in the future; past reservations do not block deletion.
func (h *FacilityHandler) Delete(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Facilities.GetByID(ctx, id); err != nil {
        if err == repository.ErrFacilityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }
    future, err := h.Reservations.FutureExists(ctx, id, time.Now().UTC())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reservation check failed"})
    }
    if future {
        return c.JSON(http.StatusConflict, echo.Map{"error": "facility has upcoming reservations"})
    }
    if err := h.Facilities.Delete(ctx, id); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete facility failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// ListReservations returns a facility's reservations ordered by start
// time so clients can render availability.
func (h *FacilityHandler) ListReservations(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Facilities.GetByID(ctx, id); err != nil {
        if err == repository.ErrFacilityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }
    rs, err := h.Reservations.ListByFacility(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list reservations failed"})
    }
    return c.JSON(http.StatusOK, reservationsToResp(rs))
}

// ----- Ownership -----

type ownerResp struct {
    ID        uint64 `json:"id"`
    Email     string `json:"email"`
    FirstName string `json:"firstName"`
    LastName  string `json:"lastName"`
    Role      string `json:"role"`
}

// ListOwners returns the owner set of a facility.  Admin only.
func (h *FacilityHandler) ListOwners(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid facility id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Facilities.GetByID(ctx, id); err != nil {
        if err == repository.ErrFacilityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }
    owners, err := h.Facilities.ListOwners(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list owners failed"})
    }
    out := make([]ownerResp, 0, len(owners))
    for _, u := range owners {
        out = append(out, ownerResp{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role})
    }
    return c.JSON(http.StatusOK, out)
}

type ownershipReq struct {
    FacilityID uint64 `json:"facilityId"`
    UserID     uint64 `json:"userId"`
}

// AssignOwner grants ownership of a facility to a user and recomputes
// the user's role in the same transaction.  Granting to a user who
// already owns the facility is a 409.  ADMIN accounts keep their role
// regardless of ownership.
func (h *FacilityHandler) AssignOwner(c echo.Context) error {
    var req ownershipReq
    if err := c.Bind(&req); err != nil || req.FacilityID == 0 || req.UserID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "facilityId/userId required"})
    }
    facilityID, userID := req.FacilityID, req.UserID

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Facilities.GetByID(ctx, facilityID); err != nil {
        if err == repository.ErrFacilityNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load facility failed"})
    }

    tx, err := h.Facilities.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    u, err := h.Users.GetByIDTx(ctx, tx, userID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    if err := h.Facilities.AddOwnerTx(ctx, tx, facilityID, userID); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "user already owns this facility"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "assign ownership failed"})
    }
    owned, err := h.Facilities.CountOwnedTx(ctx, tx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count ownership failed"})
    }
    role := model.DeriveRole(u.Role, owned)
    if role != u.Role {
        if err := h.Users.UpdateRoleTx(ctx, tx, userID, role); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
        }
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    return c.JSON(http.StatusCreated, echo.Map{
        "facilityId": facilityID,
        "userId":     userID,
        "role":       role,
    })
}

// RevokeOwner removes ownership of a facility from a user and
// recomputes the role.  A user owning several facilities stays OWNER
// until the last one is revoked.
func (h *FacilityHandler) RevokeOwner(c echo.Context) error {
    var req ownershipReq
    if err := c.Bind(&req); err != nil || req.FacilityID == 0 || req.UserID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "facilityId/userId required"})
    }
    facilityID, userID := req.FacilityID, req.UserID

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    tx, err := h.Facilities.DB().BeginTx(ctx, nil)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    u, err := h.Users.GetByIDTx(ctx, tx, userID)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
    }
    removed, err := h.Facilities.RemoveOwnerTx(ctx, tx, facilityID, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke ownership failed"})
    }
    if !removed {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "user does not own this facility"})
    }
    owned, err := h.Facilities.CountOwnedTx(ctx, tx, userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count ownership failed"})
    }
    role := model.DeriveRole(u.Role, owned)
    if role != u.Role {
        if err := h.Users.UpdateRoleTx(ctx, tx, userID, role); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update role failed"})
        }
    }
    if err := tx.Commit(); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
    }
    committed = true

    return c.NoContent(http.StatusNoContent)
}

// ----- Facility types -----

// ListTypes returns every facility type.  Public, cacheable.
func (h *FacilityHandler) ListTypes(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    ts, err := h.Types.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list types failed"})
    }
    out := make([]facilityTypeResp, 0, len(ts))
    for _, t := range ts {
        out = append(out, facilityTypeResp{ID: t.ID, Name: t.Name, CreatedAt: isoTime(t.CreatedAt)})
    }
    return c.JSON(http.StatusOK, out)
}

// GetType returns one facility type.
func (h *FacilityHandler) GetType(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Types.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load type failed"})
    }
    return c.JSON(http.StatusOK, facilityTypeResp{ID: t.ID, Name: t.Name, CreatedAt: isoTime(t.CreatedAt)})
}

type facilityTypeReq struct {
    Name string `json:"name"`
}

// CreateType inserts a new facility type.  Admin only.
func (h *FacilityHandler) CreateType(c echo.Context) error {
    var req facilityTypeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    t, err := h.Types.Create(ctx, req.Name)
    if err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "type name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create type failed"})
    }
    return c.JSON(http.StatusCreated, facilityTypeResp{ID: t.ID, Name: t.Name, CreatedAt: isoTime(t.CreatedAt)})
}

// DeleteType removes a facility type.  Refused with 409 while any
// facility still references it.
func (h *FacilityHandler) DeleteType(c echo.Context) error {
    id, err := parseIDParam(c, "id")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid type id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Types.GetByID(ctx, id); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "facility type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load type failed"})
    }
    if err := h.Types.Delete(ctx, id); err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "type is still in use"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete type failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
