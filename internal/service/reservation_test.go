package service_test

import (
    "context"
    "fmt"
    "sync"
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/service"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

// newTestService wires a ReservationService over a fresh memory store
// with a fixed clock and no broker.
func newTestService(t *testing.T) (*service.ReservationService, *store.MemoryStore) {
    t.Helper()
    st := store.NewMemoryStore()
    svc := service.NewReservationService(st, zerolog.Nop())
    svc.Now = func() time.Time { return testNow }
    svc.Publish = nil
    return svc, st
}

func seedRoom(t *testing.T, st *store.MemoryStore, id string) {
    t.Helper()
    require.NoError(t, st.CreateRoom(context.Background(), &model.Room{
        ID:   id,
        Name: "Deluxe " + id,
    }))
}

func validInput(roomID string) service.CreateReservationInput {
    return service.CreateReservationInput{
        UserID:        "user-1",
        RoomID:        roomID,
        RoomName:      "Deluxe " + roomID,
        TotalPrice:    "150.50",
        CheckInDate:   "2024-06-01",
        CheckOutDate:  "2024-06-05",
        Guests:        "2",
        PaymentMethod: "credit_card",
    }
}

func TestCreate(t *testing.T) {
    ctx := context.Background()

    t.Run("books an available room", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")

        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)
        assert.NotEmpty(t, res.ID)
        assert.Equal(t, model.StatusPending, res.Status)
        assert.Equal(t, 150.50, res.TotalPrice)
        assert.Equal(t, 2, res.Guests)
        assert.Equal(t, testNow, res.CreatedAt)

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.True(t, room.IsBooked)
    })

    t.Run("accepts JSON number coercion", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")

        in := validInput("room-1")
        in.TotalPrice = "99"
        in.Guests = "4"
        res, err := svc.Create(ctx, in)
        require.NoError(t, err)
        assert.Equal(t, 99.0, res.TotalPrice)
        assert.Equal(t, 4, res.Guests)
    })

    t.Run("unknown room", func(t *testing.T) {
        svc, _ := newTestService(t)
        _, err := svc.Create(ctx, validInput("no-such-room"))
        assert.ErrorIs(t, err, store.ErrRoomNotFound)
    })

    t.Run("booked room conflicts", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")

        _, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)

        _, err = svc.Create(ctx, validInput("room-1"))
        assert.ErrorIs(t, err, service.ErrRoomBooked)

        all, err := st.ListReservations(ctx)
        require.NoError(t, err)
        assert.Len(t, all, 1)
    })

    t.Run("collects every invalid field", func(t *testing.T) {
        svc, _ := newTestService(t)
        _, err := svc.Create(ctx, service.CreateReservationInput{})

        var vErr *service.ValidationError
        require.ErrorAs(t, err, &vErr)
        got := map[string]string{}
        for _, f := range vErr.Fields {
            got[f.Field] = f.Reason
        }
        for _, field := range []string{
            "userId", "roomId", "totalPrice", "checkInDate",
            "checkOutDate", "guests", "paymentMethod",
        } {
            assert.Contains(t, got, field)
        }
        assert.Len(t, vErr.Fields, 7)
    })

    t.Run("rejects impossible calendar date", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")

        in := validInput("room-1")
        in.CheckInDate = "2023-02-30"
        _, err := svc.Create(ctx, in)

        var vErr *service.ValidationError
        require.ErrorAs(t, err, &vErr)
        require.Len(t, vErr.Fields, 1)
        assert.Equal(t, "checkInDate", vErr.Fields[0].Field)

        // Validation failure must leave the room untouched.
        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.False(t, room.IsBooked)
    })

    t.Run("rejects negative price and zero guests", func(t *testing.T) {
        svc, _ := newTestService(t)
        in := validInput("room-1")
        in.TotalPrice = "-3.50"
        in.Guests = "0"
        _, err := svc.Create(ctx, in)

        var vErr *service.ValidationError
        require.ErrorAs(t, err, &vErr)
        got := map[string]bool{}
        for _, f := range vErr.Fields {
            got[f.Field] = true
        }
        assert.True(t, got["totalPrice"])
        assert.True(t, got["guests"])
        assert.Len(t, vErr.Fields, 2)
    })
}

func TestConcurrentCreate(t *testing.T) {
    ctx := context.Background()
    svc, st := newTestService(t)
    seedRoom(t, st, "room-1")

    const n = 16
    errs := make([]error, n)
    var wg sync.WaitGroup
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            in := validInput("room-1")
            in.UserID = fmt.Sprintf("user-%d", i)
            _, errs[i] = svc.Create(ctx, in)
        }(i)
    }
    wg.Wait()

    succeeded := 0
    for _, err := range errs {
        if err == nil {
            succeeded++
        } else {
            assert.ErrorIs(t, err, service.ErrRoomBooked)
        }
    }
    assert.Equal(t, 1, succeeded, "exactly one concurrent create must win")

    all, err := st.ListReservations(ctx)
    require.NoError(t, err)
    assert.Len(t, all, 1)

    room, err := st.GetRoom(ctx, "room-1")
    require.NoError(t, err)
    assert.True(t, room.IsBooked)
}

func TestConcurrentCreateDistinctRooms(t *testing.T) {
    ctx := context.Background()
    svc, st := newTestService(t)

    const n = 8
    for i := 0; i < n; i++ {
        seedRoom(t, st, fmt.Sprintf("room-%d", i))
    }

    errs := make([]error, n)
    var wg sync.WaitGroup
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = svc.Create(ctx, validInput(fmt.Sprintf("room-%d", i)))
        }(i)
    }
    wg.Wait()

    for i, err := range errs {
        assert.NoError(t, err, "room-%d", i)
    }
}

func TestTransition(t *testing.T) {
    ctx := context.Background()

    create := func(t *testing.T) (*service.ReservationService, *store.MemoryStore, string) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")
        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)
        return svc, st, res.ID
    }

    t.Run("full lifecycle keeps the room booked until completion", func(t *testing.T) {
        svc, st, id := create(t)

        res, err := svc.Transition(ctx, id, "confirmed")
        require.NoError(t, err)
        assert.Equal(t, model.StatusConfirmed, res.Status)

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.True(t, room.IsBooked, "confirming must keep the room booked")

        res, err = svc.Transition(ctx, id, "completed")
        require.NoError(t, err)
        assert.Equal(t, model.StatusCompleted, res.Status)

        room, err = st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.False(t, room.IsBooked, "completion must free the room")
    })

    t.Run("canceling a pending reservation frees the room", func(t *testing.T) {
        svc, st, id := create(t)

        _, err := svc.Transition(ctx, id, "canceled")
        require.NoError(t, err)

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.False(t, room.IsBooked)
    })

    t.Run("illegal transition leaves everything unchanged", func(t *testing.T) {
        svc, st, id := create(t)

        _, err := svc.Transition(ctx, id, "completed")
        assert.ErrorIs(t, err, service.ErrIllegalTransition)

        res, err := svc.Get(ctx, id)
        require.NoError(t, err)
        assert.Equal(t, model.StatusPending, res.Status)

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.True(t, room.IsBooked)
    })

    t.Run("terminal states are immutable", func(t *testing.T) {
        svc, _, id := create(t)
        _, err := svc.Transition(ctx, id, "canceled")
        require.NoError(t, err)

        _, err = svc.Transition(ctx, id, "confirmed")
        assert.ErrorIs(t, err, service.ErrIllegalTransition)
    })

    t.Run("unknown status", func(t *testing.T) {
        svc, _, id := create(t)
        _, err := svc.Transition(ctx, id, "archived")
        assert.ErrorIs(t, err, service.ErrInvalidStatus)
    })

    t.Run("unknown reservation", func(t *testing.T) {
        svc, _ := newTestService(t)
        _, err := svc.Transition(ctx, "no-such-id", "confirmed")
        assert.ErrorIs(t, err, store.ErrReservationNotFound)
    })

    t.Run("missing room skips the flag update", func(t *testing.T) {
        svc, st, id := create(t)
        require.NoError(t, st.DeleteRoom(ctx, "room-1"))

        res, err := svc.Transition(ctx, id, "canceled")
        require.NoError(t, err)
        assert.Equal(t, model.StatusCanceled, res.Status)
    })
}

func TestDelete(t *testing.T) {
    ctx := context.Background()

    t.Run("deletes and releases the room", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")
        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)

        require.NoError(t, svc.Delete(ctx, res.ID))

        _, err = svc.Get(ctx, res.ID)
        assert.ErrorIs(t, err, store.ErrReservationNotFound)

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.False(t, room.IsBooked)
    })

    t.Run("second delete reports not found", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")
        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)

        require.NoError(t, svc.Delete(ctx, res.ID))
        assert.ErrorIs(t, svc.Delete(ctx, res.ID), store.ErrReservationNotFound)
    })

    t.Run("missing room does not block deletion", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")
        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)
        require.NoError(t, st.DeleteRoom(ctx, "room-1"))

        assert.NoError(t, svc.Delete(ctx, res.ID))
    })

    t.Run("room stays booked while another active reservation remains", func(t *testing.T) {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")
        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)

        // A second active reservation written directly to the store,
        // as imported legacy data would be.
        err = st.Atomic(ctx, "room-1", func(tx store.Tx) error {
            return tx.PutReservation(&model.Reservation{
                ID:        "legacy-1",
                UserID:    "user-2",
                RoomID:    "room-1",
                Status:    model.StatusConfirmed,
                CreatedAt: testNow,
            })
        })
        require.NoError(t, err)

        require.NoError(t, svc.Delete(ctx, res.ID))

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.True(t, room.IsBooked, "flag derives from the remaining active reservation")
    })
}

// Two active reservations on one room retired by concurrent terminal
// operations must leave the room unbooked: each release has to observe
// the other transaction's completed work, not a stale snapshot of it.
func TestConcurrentTerminalOperations(t *testing.T) {
    ctx := context.Background()

    for i := 0; i < 25; i++ {
        svc, st := newTestService(t)
        seedRoom(t, st, "room-1")

        res, err := svc.Create(ctx, validInput("room-1"))
        require.NoError(t, err)

        err = st.Atomic(ctx, "room-1", func(tx store.Tx) error {
            return tx.PutReservation(&model.Reservation{
                ID:        "legacy-1",
                UserID:    "user-2",
                RoomID:    "room-1",
                Status:    model.StatusConfirmed,
                CreatedAt: testNow,
            })
        })
        require.NoError(t, err)

        var delErr, cancelErr error
        var wg sync.WaitGroup
        wg.Add(2)
        go func() {
            defer wg.Done()
            delErr = svc.Delete(ctx, res.ID)
        }()
        go func() {
            defer wg.Done()
            _, cancelErr = svc.Transition(ctx, "legacy-1", "canceled")
        }()
        wg.Wait()

        require.NoError(t, delErr)
        require.NoError(t, cancelErr)

        room, err := st.GetRoom(ctx, "room-1")
        require.NoError(t, err)
        assert.False(t, room.IsBooked, "no active reservation remains, the room must be free")

        all, err := st.ListReservations(ctx)
        require.NoError(t, err)
        require.Len(t, all, 1)
        assert.Equal(t, model.StatusCanceled, all[0].Status)
    }
}

func TestReleaseIdempotent(t *testing.T) {
    ctx := context.Background()
    st := store.NewMemoryStore()
    seedRoom(t, st, "room-1")
    guard := service.NewAvailabilityGuard(zerolog.Nop())

    for i := 0; i < 2; i++ {
        err := st.Atomic(ctx, "room-1", func(tx store.Tx) error {
            return guard.Release(tx, "room-1", "")
        })
        require.NoError(t, err)
    }

    room, err := st.GetRoom(ctx, "room-1")
    require.NoError(t, err)
    assert.False(t, room.IsBooked)
}

func TestListByUser(t *testing.T) {
    ctx := context.Background()
    svc, st := newTestService(t)
    seedRoom(t, st, "room-1")
    seedRoom(t, st, "room-2")

    in := validInput("room-1")
    in.UserID = "alice"
    first, err := svc.Create(ctx, in)
    require.NoError(t, err)

    svc.Now = func() time.Time { return testNow.Add(time.Minute) }
    in = validInput("room-2")
    in.UserID = "alice"
    second, err := svc.Create(ctx, in)
    require.NoError(t, err)

    t.Run("newest first", func(t *testing.T) {
        got, err := svc.ListByUser(ctx, "alice")
        require.NoError(t, err)
        require.Len(t, got, 2)
        assert.Equal(t, second.ID, got[0].ID)
        assert.Equal(t, first.ID, got[1].ID)
    })

    t.Run("no reservations is a valid empty result", func(t *testing.T) {
        got, err := svc.ListByUser(ctx, "bob")
        require.NoError(t, err)
        assert.Empty(t, got)
    })
}

func TestPublishedEvents(t *testing.T) {
    ctx := context.Background()
    svc, st := newTestService(t)
    seedRoom(t, st, "room-1")

    var events []queue.ReservationEvent
    svc.Publish = func(_ context.Context, ev queue.ReservationEvent) error {
        events = append(events, ev)
        return nil
    }

    res, err := svc.Create(ctx, validInput("room-1"))
    require.NoError(t, err)
    _, err = svc.Transition(ctx, res.ID, "confirmed")
    require.NoError(t, err)
    require.NoError(t, svc.Delete(ctx, res.ID))

    require.Len(t, events, 3)
    assert.Equal(t, queue.EventReservationCreated, events[0].Type)
    assert.Equal(t, queue.EventReservationStatusChanged, events[1].Type)
    assert.Equal(t, "confirmed", events[1].Status)
    assert.Equal(t, queue.EventReservationDeleted, events[2].Type)
    assert.Equal(t, res.ID, events[2].ReservationID)

    // Publish failures must never surface to the caller.
    svc.Publish = func(context.Context, queue.ReservationEvent) error {
        return fmt.Errorf("broker down")
    }
    seedRoom(t, st, "room-2")
    _, err = svc.Create(ctx, validInput("room-2"))
    assert.NoError(t, err)
}
