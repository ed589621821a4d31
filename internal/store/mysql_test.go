package store_test

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

func newMockStore(t *testing.T) (*store.MySQLStore, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })
    return store.NewMySQLStore(db), mock
}

func roomRows(booked bool) *sqlmock.Rows {
    return sqlmock.NewRows([]string{"id", "name", "room_type_id", "image", "is_booked"}).
        AddRow("room-1", "Deluxe", nil, nil, booked)
}

func TestMySQLAtomicCommit(t *testing.T) {
    st, mock := newMockStore(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, name, room_type_id, image, is_booked FROM rooms WHERE id = \? FOR UPDATE`).
        WithArgs("room-1").
        WillReturnRows(roomRows(false))
    mock.ExpectExec(`UPDATE rooms SET`).
        WithArgs("Deluxe", nil, nil, true, "room-1").
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(`INSERT INTO reservations`).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectCommit()

    err := st.Atomic(context.Background(), "room-1", func(tx store.Tx) error {
        room, err := tx.Room("room-1")
        if err != nil {
            return err
        }
        if room.IsBooked {
            return errors.New("unexpected conflict")
        }
        room.IsBooked = true
        if err := tx.PutRoom(room); err != nil {
            return err
        }
        return tx.PutReservation(&model.Reservation{
            ID:            "res-1",
            UserID:        "user-1",
            RoomID:        "room-1",
            TotalPrice:    150.50,
            CheckInDate:   "2024-06-01",
            CheckOutDate:  "2024-06-05",
            Guests:        2,
            PaymentMethod: "credit_card",
            Status:        model.StatusPending,
            CreatedAt:     time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC),
        })
    })
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAtomicRollbackOnError(t *testing.T) {
    st, mock := newMockStore(t)
    conflict := errors.New("room already booked")

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, name, room_type_id, image, is_booked FROM rooms WHERE id = \? FOR UPDATE`).
        WithArgs("room-1").
        WillReturnRows(roomRows(true))
    mock.ExpectRollback()

    err := st.Atomic(context.Background(), "room-1", func(tx store.Tx) error {
        room, err := tx.Room("room-1")
        if err != nil {
            return err
        }
        if room.IsBooked {
            return conflict
        }
        return nil
    })
    assert.ErrorIs(t, err, conflict)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLRoomNotFound(t *testing.T) {
    st, mock := newMockStore(t)

    mock.ExpectBegin()
    mock.ExpectQuery(`SELECT id, name, room_type_id, image, is_booked FROM rooms WHERE id = \? FOR UPDATE`).
        WithArgs("missing").
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "room_type_id", "image", "is_booked"}))
    mock.ExpectRollback()

    err := st.Atomic(context.Background(), "missing", func(tx store.Tx) error {
        _, err := tx.Room("missing")
        return err
    })
    assert.ErrorIs(t, err, store.ErrRoomNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLDeleteReservationNotFound(t *testing.T) {
    st, mock := newMockStore(t)

    mock.ExpectBegin()
    mock.ExpectExec(`DELETE FROM reservations WHERE id = \?`).
        WithArgs("missing").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectRollback()

    err := st.Atomic(context.Background(), "room-1", func(tx store.Tx) error {
        return tx.DeleteReservation("missing")
    })
    assert.ErrorIs(t, err, store.ErrReservationNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLHasActiveReservation(t *testing.T) {
    st, mock := newMockStore(t)

    countQuery := `SELECT COUNT\(\*\) FROM reservations\s+WHERE room_id = \? AND id <> \? AND status IN \('pending', 'confirmed'\)\s+FOR SHARE`

    mock.ExpectBegin()
    mock.ExpectQuery(countQuery).
        WithArgs("room-1", "res-1").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
    mock.ExpectQuery(countQuery).
        WithArgs("room-1", "res-2").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
    mock.ExpectCommit()

    err := st.Atomic(context.Background(), "room-1", func(tx store.Tx) error {
        active, err := tx.HasActiveReservation("room-1", "res-1")
        if err != nil {
            return err
        }
        assert.False(t, active)

        active, err = tx.HasActiveReservation("room-1", "res-2")
        if err != nil {
            return err
        }
        assert.True(t, active)
        return nil
    })
    require.NoError(t, err)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLGetReservation(t *testing.T) {
    st, mock := newMockStore(t)
    created := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

    cols := []string{
        "id", "user_id", "room_id", "room_name", "room_type_id", "total_price",
        "check_in_date", "check_out_date", "guests", "payment_method", "status", "created_at",
    }
    mock.ExpectQuery(`FROM reservations WHERE id = \?`).
        WithArgs("res-1").
        WillReturnRows(sqlmock.NewRows(cols).AddRow(
            "res-1", "user-1", "room-1", "Deluxe", nil, 150.50,
            "2024-06-01", "2024-06-05", 2, "credit_card", "pending", created))

    res, err := st.GetReservation(context.Background(), "res-1")
    require.NoError(t, err)
    assert.Equal(t, "res-1", res.ID)
    assert.Equal(t, model.StatusPending, res.Status)
    assert.Equal(t, 150.50, res.TotalPrice)
    assert.Equal(t, created, res.CreatedAt)
    assert.NoError(t, mock.ExpectationsWereMet())

    mock.ExpectQuery(`FROM reservations WHERE id = \?`).
        WithArgs("missing").
        WillReturnRows(sqlmock.NewRows(cols))
    _, err = st.GetReservation(context.Background(), "missing")
    assert.ErrorIs(t, err, store.ErrReservationNotFound)
}

func TestMySQLUpdateRoomMissing(t *testing.T) {
    st, mock := newMockStore(t)

    mock.ExpectExec(`UPDATE rooms SET name = \?, room_type_id = \?, image = \? WHERE id = \?`).
        WithArgs("Deluxe", nil, nil, "missing").
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectQuery(`SELECT id, name, room_type_id, image, is_booked FROM rooms WHERE id = \?`).
        WithArgs("missing").
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "room_type_id", "image", "is_booked"}))

    err := st.UpdateRoom(context.Background(), &model.Room{ID: "missing", Name: "Deluxe"})
    assert.ErrorIs(t, err, store.ErrRoomNotFound)
    assert.NoError(t, mock.ExpectationsWereMet())
}
