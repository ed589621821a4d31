package service

import "github.com/iliyamo/hotel-room-reservation/internal/model"

// transitions is the full table of legal status moves.  Terminal states
// have no entries: once canceled or completed a reservation never moves
// again.
var transitions = map[model.Status][]model.Status{
    model.StatusPending:   {model.StatusConfirmed, model.StatusCanceled},
    model.StatusConfirmed: {model.StatusCanceled, model.StatusCompleted},
}

// CheckTransition validates a requested status change.  It returns
// ErrInvalidStatus when target is not a recognised status at all and
// ErrIllegalTransition when target is recognised but not reachable from
// the current status.
func CheckTransition(current, target model.Status) error {
    if !target.Valid() {
        return ErrInvalidStatus
    }
    for _, next := range transitions[current] {
        if next == target {
            return nil
        }
    }
    return ErrIllegalTransition
}
