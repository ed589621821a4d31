package model

import "time"

// Reservation records a user's booking of a room for a date range.  It is
// created exclusively by the reservation service, which sets the ID,
// initial status and creation timestamp; its status is mutated only
// through the service's transition operation.
//
// Fields:
//  ID            – opaque identifier generated at creation (UUID string).
//  UserID        – user who made the reservation; opaque to this service.
//  RoomID        – room being reserved.  Not ownership: the room's own
//                  lifecycle is independent of the reservation's.
//  RoomName      – denormalised room name captured at booking time.
//  RoomTypeID    – optional room type reference captured at booking time.
//  TotalPrice    – total price for the stay, non-negative.
//  CheckInDate   – arrival date, YYYY-MM-DD.
//  CheckOutDate  – departure date, YYYY-MM-DD.
//  Guests        – number of guests, positive.
//  PaymentMethod – opaque payment token supplied by the caller.
//  Status        – lifecycle status, see Status.
//  CreatedAt     – creation timestamp, set once and immutable.
type Reservation struct {
    ID            string    `json:"id"`
    UserID        string    `json:"userId"`
    RoomID        string    `json:"roomId"`
    RoomName      string    `json:"roomName,omitempty"`
    RoomTypeID    string    `json:"roomTypeId,omitempty"`
    TotalPrice    float64   `json:"totalPrice"`
    CheckInDate   string    `json:"checkInDate"`
    CheckOutDate  string    `json:"checkOutDate"`
    Guests        int       `json:"guests"`
    PaymentMethod string    `json:"paymentMethod"`
    Status        Status    `json:"status"`
    CreatedAt     time.Time `json:"createdAt"`
}
