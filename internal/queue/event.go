// Package queue defines message payloads exchanged over the message broker
// together with the publisher and background consumer for them.
package queue

// Event types carried by ReservationEvent.
const (
    EventReservationCreated       = "reservation.created"
    EventReservationStatusChanged = "reservation.status_changed"
    EventReservationDeleted       = "reservation.deleted"
)

// ReservationEvent is published whenever a reservation is created, moves
// to a new status or is deleted.  It contains enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type ReservationEvent struct {
    Type          string  `json:"type"`
    ReservationID string  `json:"reservation_id"`
    UserID        string  `json:"user_id"`
    RoomID        string  `json:"room_id"`
    Status        string  `json:"status"`
    TotalPrice    float64 `json:"total_price"`
    CheckInDate   string  `json:"check_in_date,omitempty"`
    CheckOutDate  string  `json:"check_out_date,omitempty"`
    OccurredAt    string  `json:"occurred_at"`
}
