// Package service implements the reservation consistency core: atomically
// claiming rooms, driving reservations through their status lifecycle and
// keeping each room's booked flag derived from its active reservations.
// Sentinel errors defined here let handlers map failures onto HTTP status
// codes with errors.Is.
package service

import (
    "errors"
    "fmt"
    "strings"
)

// ErrRoomBooked is returned by a claim when the room already has an
// active reservation.  Handlers should translate this into HTTP 409.
var ErrRoomBooked = errors.New("room already booked")

// ErrInvalidStatus is returned when a transition names a status outside
// the recognised set.
var ErrInvalidStatus = errors.New("invalid status")

// ErrIllegalTransition is returned when the target status is recognised
// but not reachable from the reservation's current status.
var ErrIllegalTransition = errors.New("illegal status transition")

// FieldError names one invalid input field and why it was rejected.
type FieldError struct {
    Field  string `json:"field"`
    Reason string `json:"reason"`
}

// ValidationError carries every offending field of a create request so
// the caller can fix all of them in one round trip.
type ValidationError struct {
    Fields []FieldError
}

func (e *ValidationError) Error() string {
    names := make([]string, 0, len(e.Fields))
    for _, f := range e.Fields {
        names = append(names, f.Field)
    }
    return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}
