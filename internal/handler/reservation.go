package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/service"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

// ReservationHandler exposes the reservation API.  All booking logic
// lives in the service layer; the handler binds input, maps domain
// errors onto HTTP status codes and shapes the JSON responses.
type ReservationHandler struct {
    Service *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
    if svc == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Service: svc}
}

// Create handles POST /api/reservations.  It returns 201 with the full
// persisted reservation, 400 with the complete list of invalid fields,
// 404 when the room does not exist and 409 when it is already booked.
func (h *ReservationHandler) Create(c echo.Context) error {
    var in service.CreateReservationInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }

    res, err := h.Service.Create(c.Request().Context(), in)
    if err != nil {
        var vErr *service.ValidationError
        switch {
        case errors.As(err, &vErr):
            return c.JSON(http.StatusBadRequest, echo.Map{
                "error":  "validation failed",
                "fields": vErr.Fields,
            })
        case errors.Is(err, store.ErrRoomNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        case errors.Is(err, service.ErrRoomBooked):
            return c.JSON(http.StatusConflict, echo.Map{"error": "room already booked"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message":     "reservation created",
        "reservation": res,
    })
}

// List handles GET /api/reservations and returns every reservation,
// newest first.
func (h *ReservationHandler) List(c echo.Context) error {
    items, err := h.Service.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByUser handles GET /api/reservations/user/:userId.  An empty
// result maps to 404 to preserve the API contract; the core treats it
// as a valid outcome.
func (h *ReservationHandler) ListByUser(c echo.Context) error {
    userID := c.Param("userId")
    if userID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId parameter is required"})
    }
    items, err := h.Service.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
    }
    if len(items) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no reservations found for this user"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
    id := c.Param("id")
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation id is required"})
    }
    res, err := h.Service.Get(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, store.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// UpdateStatus handles PUT /api/reservations/:id/status.  Unknown
// statuses and moves not allowed by the transition table both map to
// 400; the reservation is left untouched in either case.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
    id := c.Param("id")
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation id is required"})
    }
    var body struct {
        Status string `json:"status"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Status == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
    }

    res, err := h.Service.Transition(c.Request().Context(), id, body.Status)
    if err != nil {
        switch {
        case errors.Is(err, store.ErrReservationNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        case errors.Is(err, service.ErrInvalidStatus):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value"})
        case errors.Is(err, service.ErrIllegalTransition):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "illegal status transition"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update status"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "message":     "reservation status updated",
        "reservation": res,
    })
}

// Delete handles DELETE /api/reservations/:id.  The reservation and the
// release of its room commit together; the response confirms both.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id := c.Param("id")
    if id == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation id is required"})
    }
    if err := h.Service.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, store.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "reservation deleted and room released"})
}
