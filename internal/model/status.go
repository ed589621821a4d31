package model

// Status enumerates the lifecycle states of a reservation.  A reservation
// starts as StatusPending and may move to StatusConfirmed before ending in
// one of the two terminal states.  The string values are part of the API
// contract and are persisted verbatim.
type Status string

const (
    StatusPending   Status = "pending"
    StatusConfirmed Status = "confirmed"
    StatusCanceled  Status = "canceled"
    StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the four recognised statuses.
func (s Status) Valid() bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCanceled, StatusCompleted:
        return true
    }
    return false
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
    return s == StatusCanceled || s == StatusCompleted
}

// Active reports whether a reservation in status s keeps its room booked.
// A room's IsBooked flag is true exactly when at least one reservation
// against it is active.
func (s Status) Active() bool {
    return s == StatusPending || s == StatusConfirmed
}
