package service

import (
    "context"
    "errors"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

// ReservationService orchestrates the availability guard and the status
// lifecycle over the record store.  It is the only component that knows
// both room and reservation semantics: reservations are created, moved
// between statuses and deleted exclusively through it, and every
// operation that touches both records runs in a single store
// transaction keyed by the room.
type ReservationService struct {
    store store.RecordStore
    guard *AvailabilityGuard
    log   zerolog.Logger

    // Now, NewID and Publish are injectable for tests.  Publish runs
    // after commit and is best effort: failures are logged, never
    // surfaced to the caller.
    Now     func() time.Time
    NewID   func() string
    Publish func(ctx context.Context, ev queue.ReservationEvent) error
}

// NewReservationService constructs a ReservationService with production
// defaults: UTC wall clock, UUID identifiers and the RabbitMQ publisher.
func NewReservationService(st store.RecordStore, log zerolog.Logger) *ReservationService {
    return &ReservationService{
        store:   st,
        guard:   NewAvailabilityGuard(log),
        log:     log,
        Now:     func() time.Time { return time.Now().UTC() },
        NewID:   uuid.NewString,
        Publish: queue.PublishReservationEvent,
    }
}

// Create validates the input, claims the room and persists the new
// reservation, all side effects inside one transaction on the room key.
// Validation failures carry every offending field and happen before any
// store access.  Under concurrent creates on one room exactly one call
// succeeds; the rest observe ErrRoomBooked.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*model.Reservation, error) {
    coerced, vErr := in.Validate()
    if vErr != nil {
        return nil, vErr
    }

    res := &model.Reservation{
        ID:            s.NewID(),
        UserID:        in.UserID,
        RoomID:        in.RoomID,
        RoomName:      in.RoomName,
        RoomTypeID:    in.RoomTypeID,
        TotalPrice:    coerced.TotalPrice,
        CheckInDate:   in.CheckInDate,
        CheckOutDate:  in.CheckOutDate,
        Guests:        coerced.Guests,
        PaymentMethod: in.PaymentMethod,
        Status:        model.StatusPending,
        CreatedAt:     s.Now(),
    }

    err := s.store.Atomic(ctx, in.RoomID, func(tx store.Tx) error {
        if err := s.guard.Claim(tx, in.RoomID); err != nil {
            return err
        }
        return tx.PutReservation(res)
    })
    if err != nil {
        return nil, err
    }

    s.publish(ctx, queue.EventReservationCreated, res)
    return res, nil
}

// Transition moves a reservation to targetStatus after checking the
// transition table.  The status write and the room side effect commit
// atomically: entering confirmed forces the room booked, entering a
// terminal status recomputes the flag from the remaining active
// reservations.  A missing room only skips the side effect.
func (s *ReservationService) Transition(ctx context.Context, id string, targetStatus string) (*model.Reservation, error) {
    target := model.Status(targetStatus)
    if !target.Valid() {
        return nil, ErrInvalidStatus
    }

    current, err := s.store.GetReservation(ctx, id)
    if err != nil {
        return nil, err
    }

    var updated *model.Reservation
    err = s.store.Atomic(ctx, current.RoomID, func(tx store.Tx) error {
        res, err := tx.Reservation(id)
        if err != nil {
            return err
        }
        // Re-checked inside the transaction: a concurrent transition
        // may have moved the reservation since the read above.
        if err := CheckTransition(res.Status, target); err != nil {
            return err
        }
        res.Status = target
        if err := tx.PutReservation(res); err != nil {
            return err
        }
        if target.Terminal() {
            if err := s.guard.Release(tx, res.RoomID, res.ID); err != nil {
                return err
            }
        } else if err := s.ensureBooked(tx, res.RoomID); err != nil {
            return err
        }
        updated = res
        return nil
    })
    if err != nil {
        return nil, err
    }

    s.publish(ctx, queue.EventReservationStatusChanged, updated)
    return updated, nil
}

// ensureBooked forces the room's flag true for a reservation staying
// active.  A missing room is logged and skipped, mirroring Release.
func (s *ReservationService) ensureBooked(tx store.Tx, roomID string) error {
    room, err := tx.Room(roomID)
    if err != nil {
        if errors.Is(err, store.ErrRoomNotFound) {
            s.log.Warn().Str("room_id", roomID).Msg("room missing during transition, skipping flag update")
            return nil
        }
        return err
    }
    if room.IsBooked {
        return nil
    }
    room.IsBooked = true
    return tx.PutRoom(room)
}

// Delete removes a reservation and releases its room in the same
// transaction, so a room is never left permanently booked by a vanished
// reservation.  Deleting an unknown reservation returns
// store.ErrReservationNotFound; a missing room is skipped and logged,
// and the deletion still succeeds.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
    current, err := s.store.GetReservation(ctx, id)
    if err != nil {
        return err
    }

    err = s.store.Atomic(ctx, current.RoomID, func(tx store.Tx) error {
        res, err := tx.Reservation(id)
        if err != nil {
            return err
        }
        if err := tx.DeleteReservation(id); err != nil {
            return err
        }
        return s.guard.Release(tx, res.RoomID, res.ID)
    })
    if err != nil {
        return err
    }

    s.publish(ctx, queue.EventReservationDeleted, current)
    return nil
}

// Get returns a reservation by ID.
func (s *ReservationService) Get(ctx context.Context, id string) (*model.Reservation, error) {
    return s.store.GetReservation(ctx, id)
}

// List returns all reservations, newest first.
func (s *ReservationService) List(ctx context.Context) ([]model.Reservation, error) {
    return s.store.ListReservations(ctx)
}

// ListByUser returns the user's reservations, newest first.  An empty
// result is a valid outcome at this layer; the HTTP boundary decides
// how to present it.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
    return s.store.ListReservationsByUser(ctx, userID)
}

func (s *ReservationService) publish(ctx context.Context, eventType string, res *model.Reservation) {
    if s.Publish == nil {
        return
    }
    ev := queue.ReservationEvent{
        Type:          eventType,
        ReservationID: res.ID,
        UserID:        res.UserID,
        RoomID:        res.RoomID,
        Status:        string(res.Status),
        TotalPrice:    res.TotalPrice,
        CheckInDate:   res.CheckInDate,
        CheckOutDate:  res.CheckOutDate,
        OccurredAt:    s.Now().Format(time.RFC3339),
    }
    if err := s.Publish(ctx, ev); err != nil {
        s.log.Warn().Err(err).Str("reservation_id", res.ID).Str("event", eventType).
            Msg("event publish failed")
    }
}
