package handler

import (
    "errors"
    "net/http"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

// RoomHandler exposes the room catalog: plain read/write glue around the
// record store.  It never touches the IsBooked flag; that is owned by
// the reservation service.
type RoomHandler struct {
    Store store.RecordStore
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(st store.RecordStore) *RoomHandler {
    if st == nil {
        panic("nil store passed to NewRoomHandler")
    }
    return &RoomHandler{Store: st}
}

// roomInput is the write shape for room create/update.  IsBooked is
// deliberately absent.
type roomInput struct {
    Name       string `json:"name"`
    RoomTypeID string `json:"roomTypeId"`
    Image      string `json:"image"`
}

// withType resolves the room's type reference, tolerating dangling IDs
// the same way the original catalog did.
func (h *RoomHandler) withType(c echo.Context, room model.Room) model.RoomWithType {
    out := model.RoomWithType{Room: room}
    if room.RoomTypeID != "" {
        if rt, err := h.Store.GetRoomType(c.Request().Context(), room.RoomTypeID); err == nil {
            out.RoomType = rt
        }
    }
    return out
}

// List handles GET /api/rooms, embedding each room's resolved type.
func (h *RoomHandler) List(c echo.Context) error {
    rooms, err := h.Store.ListRooms(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load rooms"})
    }
    items := make([]model.RoomWithType, 0, len(rooms))
    for _, r := range rooms {
        items = append(items, h.withType(c, r))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
    room, err := h.Store.GetRoom(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, store.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch room"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": h.withType(c, *room)})
}

// Create handles POST /api/rooms.  New rooms start unbooked.
func (h *RoomHandler) Create(c echo.Context) error {
    var in roomInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if in.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }
    room := &model.Room{
        ID:         uuid.NewString(),
        Name:       in.Name,
        RoomTypeID: in.RoomTypeID,
        Image:      in.Image,
        IsBooked:   false,
    }
    if err := h.Store.CreateRoom(c.Request().Context(), room); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create room"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"message": "room created", "item": room})
}

// Update handles PUT /api/rooms/:id.  Only descriptive fields change.
func (h *RoomHandler) Update(c echo.Context) error {
    var in roomInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    room := &model.Room{
        ID:         c.Param("id"),
        Name:       in.Name,
        RoomTypeID: in.RoomTypeID,
        Image:      in.Image,
    }
    if err := h.Store.UpdateRoom(c.Request().Context(), room); err != nil {
        if errors.Is(err, store.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update room"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "room updated"})
}

// Delete handles DELETE /api/rooms/:id.  Room lifecycle is independent
// of reservations: existing reservations keep their roomId and the
// reservation paths tolerate the dangling reference.
func (h *RoomHandler) Delete(c echo.Context) error {
    if err := h.Store.DeleteRoom(c.Request().Context(), c.Param("id")); err != nil {
        if errors.Is(err, store.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete room"})
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}
