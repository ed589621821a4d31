package service

import (
    "errors"

    "github.com/rs/zerolog"

    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

// AvailabilityGuard owns every write to a room's IsBooked flag.  Both
// methods operate on an open store transaction so the flag change and
// the reservation write it belongs to commit or roll back together.
type AvailabilityGuard struct {
    log zerolog.Logger
}

// NewAvailabilityGuard returns a guard that logs through the given logger.
func NewAvailabilityGuard(log zerolog.Logger) *AvailabilityGuard {
    return &AvailabilityGuard{log: log}
}

// Claim marks the room as booked.  It returns store.ErrRoomNotFound when
// the room does not exist and ErrRoomBooked when it is already claimed.
// The caller must write the new reservation within the same transaction;
// the per-room transaction scope guarantees that of any number of
// concurrent claims on one room exactly one observes the flag unset.
func (g *AvailabilityGuard) Claim(tx store.Tx, roomID string) error {
    room, err := tx.Room(roomID)
    if err != nil {
        return err
    }
    if room.IsBooked {
        return ErrRoomBooked
    }
    room.IsBooked = true
    return tx.PutRoom(room)
}

// Release recomputes the room's booked flag from the reservations that
// remain active, excluding excludeID (the reservation being retired in
// this transaction).  Releasing an already-free room is a no-op.  A
// missing room is logged and skipped rather than failing the caller's
// transaction: a reservation must never become undeletable because its
// room vanished.
func (g *AvailabilityGuard) Release(tx store.Tx, roomID, excludeID string) error {
    room, err := tx.Room(roomID)
    if err != nil {
        if errors.Is(err, store.ErrRoomNotFound) {
            g.log.Warn().Str("room_id", roomID).Str("reservation_id", excludeID).
                Msg("room missing during release, skipping")
            return nil
        }
        return err
    }
    active, err := tx.HasActiveReservation(roomID, excludeID)
    if err != nil {
        return err
    }
    if room.IsBooked == active {
        return nil
    }
    room.IsBooked = active
    return tx.PutRoom(room)
}
