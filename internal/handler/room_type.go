package handler

import (
    "errors"
    "net/http"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

// RoomTypeHandler exposes the room type catalog.
type RoomTypeHandler struct {
    Store store.RecordStore
}

// NewRoomTypeHandler constructs a RoomTypeHandler.
func NewRoomTypeHandler(st store.RecordStore) *RoomTypeHandler {
    if st == nil {
        panic("nil store passed to NewRoomTypeHandler")
    }
    return &RoomTypeHandler{Store: st}
}

// Create handles POST /api/room_types.
func (h *RoomTypeHandler) Create(c echo.Context) error {
    var in struct {
        Name          string  `json:"name"`
        Description   string  `json:"description"`
        PricePerNight float64 `json:"pricePerNight"`
        MaxGuests     int     `json:"maxGuests"`
    }
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if in.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    rt := &model.RoomType{
        ID:            uuid.NewString(),
        Name:          in.Name,
        Description:   in.Description,
        PricePerNight: in.PricePerNight,
        MaxGuests:     in.MaxGuests,
    }
    if err := h.Store.CreateRoomType(c.Request().Context(), rt); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room type"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "room type created", "item": rt})
}

// List handles GET /api/room_types.
func (h *RoomTypeHandler) List(c echo.Context) error {
    items, err := h.Store.ListRoomTypes(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load room types"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/room_types/:id.
func (h *RoomTypeHandler) Get(c echo.Context) error {
    rt, err := h.Store.GetRoomType(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, store.ErrRoomTypeNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch room type"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": rt})
}
