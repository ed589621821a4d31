// Package router wires HTTP routes to their handlers.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/handler"
)

// RegisterRoutes registers the full API surface on the provided Echo
// instance.  The layout mirrors the public API: reservations under
// /api/reservations, the room and room type catalogs beside them, and a
// health check at the root for load balancers.
func RegisterRoutes(e *echo.Echo, res *handler.ReservationHandler, rooms *handler.RoomHandler, roomTypes *handler.RoomTypeHandler) {
    e.GET("/healthz", handler.Health)

    api := e.Group("/api")

    r := api.Group("/reservations")
    r.POST("", res.Create)
    r.GET("", res.List)
    r.GET("/user/:userId", res.ListByUser)
    r.GET("/:id", res.Get)
    r.PUT("/:id/status", res.UpdateStatus)
    r.DELETE("/:id", res.Delete)

    rm := api.Group("/rooms")
    rm.POST("", rooms.Create)
    rm.GET("", rooms.List)
    rm.GET("/:id", rooms.Get)
    rm.PUT("/:id", rooms.Update)
    rm.DELETE("/:id", rooms.Delete)

    rt := api.Group("/room_types")
    rt.POST("", roomTypes.Create)
    rt.GET("", roomTypes.List)
    rt.GET("/:id", roomTypes.Get)
}
