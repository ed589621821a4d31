// Package store provides key-addressed persistence for rooms, room types
// and reservations.  Every operation that mutates both a room and a
// reservation runs through Atomic, which scopes an all-or-nothing
// read-modify-write to a single room key.  Two implementations exist: an
// in-memory store used by tests and development, and a MySQL-backed store
// for production.  Both satisfy the same consistency contract: no
// intermediate state of an Atomic block is ever visible to a concurrent
// operation, and blocks on distinct rooms do not contend.
package store

import (
    "context"
    "errors"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ErrRoomNotFound is returned when a referenced room does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrRoomNotFound = errors.New("room not found")

// ErrReservationNotFound is returned when a referenced reservation does
// not exist.  Handlers should translate this into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrRoomTypeNotFound is returned when a referenced room type does not
// exist in the catalog.
var ErrRoomTypeNotFound = errors.New("room type not found")

// Tx is the view of the store available inside an Atomic block.  All
// reads observe the state as of the block's start plus the block's own
// writes; writes become visible to other operations only when the block
// returns nil and the transaction commits.
type Tx interface {
    // Room reads the room the block is scoped to (or any other room on
    // the memory store; the MySQL store locks only the scoped row).
    Room(id string) (*model.Room, error)
    // PutRoom writes a room record.
    PutRoom(room *model.Room) error
    // Reservation reads a reservation by ID.
    Reservation(id string) (*model.Reservation, error)
    // PutReservation inserts or replaces a reservation record.
    PutReservation(res *model.Reservation) error
    // DeleteReservation removes a reservation record.
    DeleteReservation(id string) error
    // HasActiveReservation reports whether any reservation other than
    // excludeID references roomID with a status in {pending, confirmed}.
    HasActiveReservation(roomID, excludeID string) (bool, error)
}

// RecordStore is the persistence surface consumed by the service layer.
type RecordStore interface {
    // Atomic executes fn as one all-or-nothing transaction keyed by
    // roomID.  Concurrent Atomic calls on the same room serialise;
    // calls on different rooms proceed independently.  When fn returns
    // an error the transaction rolls back and the error is returned
    // unchanged.
    Atomic(ctx context.Context, roomID string, fn func(tx Tx) error) error

    // Reservation queries (plain reads, no side effects).
    GetReservation(ctx context.Context, id string) (*model.Reservation, error)
    ListReservations(ctx context.Context) ([]model.Reservation, error)
    ListReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error)

    // Room catalog.
    GetRoom(ctx context.Context, id string) (*model.Room, error)
    ListRooms(ctx context.Context) ([]model.Room, error)
    CreateRoom(ctx context.Context, room *model.Room) error
    UpdateRoom(ctx context.Context, room *model.Room) error
    DeleteRoom(ctx context.Context, id string) error

    // Room type catalog.
    GetRoomType(ctx context.Context, id string) (*model.RoomType, error)
    ListRoomTypes(ctx context.Context) ([]model.RoomType, error)
    CreateRoomType(ctx context.Context, rt *model.RoomType) error
}
