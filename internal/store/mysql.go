package store

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// MySQLStore is the production RecordStore backed by MySQL.  Atomic
// blocks map to database transactions; the scoped room row is read with
// SELECT ... FOR UPDATE so concurrent claims on one room serialise at
// the row lock while claims on other rooms proceed untouched.
type MySQLStore struct {
    db *sql.DB
}

// NewMySQLStore returns a MySQLStore bound to the given database handle.
func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{db: db} }

// Migrate creates the schema when it does not exist yet.  Dates are kept
// as CHAR(10) because the YYYY-MM-DD strings are part of the API
// contract; created_at relies on parseTime=true in the DSN.
func (s *MySQLStore) Migrate(ctx context.Context) error {
    stmts := []string{
        `CREATE TABLE IF NOT EXISTS room_types (
            id VARCHAR(64) PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            description TEXT,
            price_per_night DECIMAL(10,2) NOT NULL DEFAULT 0,
            max_guests INT NOT NULL DEFAULT 0
        )`,
        `CREATE TABLE IF NOT EXISTS rooms (
            id VARCHAR(64) PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            room_type_id VARCHAR(64),
            image VARCHAR(1024),
            is_booked TINYINT(1) NOT NULL DEFAULT 0
        )`,
        `CREATE TABLE IF NOT EXISTS reservations (
            id VARCHAR(64) PRIMARY KEY,
            user_id VARCHAR(64) NOT NULL,
            room_id VARCHAR(64) NOT NULL,
            room_name VARCHAR(255) NOT NULL DEFAULT '',
            room_type_id VARCHAR(64),
            total_price DECIMAL(10,2) NOT NULL,
            check_in_date CHAR(10) NOT NULL,
            check_out_date CHAR(10) NOT NULL,
            guests INT NOT NULL,
            payment_method VARCHAR(64) NOT NULL,
            status VARCHAR(16) NOT NULL,
            created_at DATETIME NOT NULL,
            KEY idx_reservations_room (room_id, status),
            KEY idx_reservations_user (user_id)
        )`,
    }
    for _, q := range stmts {
        if _, err := s.db.ExecContext(ctx, q); err != nil {
            return err
        }
    }
    return nil
}

// sqlTx adapts *sql.Tx to the Tx interface.
type sqlTx struct {
    ctx context.Context
    tx  *sql.Tx
}

func (t *sqlTx) Room(id string) (*model.Room, error) {
    const q = `SELECT id, name, room_type_id, image, is_booked FROM rooms WHERE id = ? FOR UPDATE`
    return scanRoom(t.tx.QueryRowContext(t.ctx, q, id))
}

func (t *sqlTx) PutRoom(room *model.Room) error {
    const q = `UPDATE rooms SET name = ?, room_type_id = ?, image = ?, is_booked = ? WHERE id = ?`
    _, err := t.tx.ExecContext(t.ctx, q,
        room.Name, nullStr(room.RoomTypeID), nullStr(room.Image), room.IsBooked, room.ID)
    return err
}

func (t *sqlTx) Reservation(id string) (*model.Reservation, error) {
    return scanReservation(t.tx.QueryRowContext(t.ctx, selectReservation+` WHERE id = ?`, id))
}

func (t *sqlTx) PutReservation(res *model.Reservation) error {
    const q = `INSERT INTO reservations
        (id, user_id, room_id, room_name, room_type_id, total_price,
         check_in_date, check_out_date, guests, payment_method, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON DUPLICATE KEY UPDATE status = VALUES(status)`
    _, err := t.tx.ExecContext(t.ctx, q,
        res.ID, res.UserID, res.RoomID, res.RoomName, nullStr(res.RoomTypeID),
        res.TotalPrice, res.CheckInDate, res.CheckOutDate, res.Guests,
        res.PaymentMethod, string(res.Status), res.CreatedAt.UTC())
    return err
}

func (t *sqlTx) DeleteReservation(id string) error {
    result, err := t.tx.ExecContext(t.ctx, `DELETE FROM reservations WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrReservationNotFound
    }
    return nil
}

func (t *sqlTx) HasActiveReservation(roomID, excludeID string) (bool, error) {
    // FOR SHARE makes this a current read.  A plain SELECT under
    // REPEATABLE READ would reuse the snapshot taken before the room-row
    // lock was granted and could still see reservations a concurrent
    // transaction has already retired, leaving is_booked stuck at 1.
    const q = `SELECT COUNT(*) FROM reservations
        WHERE room_id = ? AND id <> ? AND status IN ('pending', 'confirmed')
        FOR SHARE`
    var n int
    if err := t.tx.QueryRowContext(t.ctx, q, roomID, excludeID).Scan(&n); err != nil {
        return false, err
    }
    return n > 0, nil
}

// Atomic wraps fn in a database transaction.  The rollback is deferred
// behind a committed flag so every early return unwinds cleanly.
func (s *MySQLStore) Atomic(ctx context.Context, roomID string, fn func(tx Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&sqlTx{ctx: ctx, tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

const selectReservation = `SELECT id, user_id, room_id, room_name, room_type_id, total_price,
    check_in_date, check_out_date, guests, payment_method, status, created_at
    FROM reservations`

type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*model.Reservation, error) {
    var r model.Reservation
    var roomTypeID sql.NullString
    var status string
    err := row.Scan(&r.ID, &r.UserID, &r.RoomID, &r.RoomName, &roomTypeID,
        &r.TotalPrice, &r.CheckInDate, &r.CheckOutDate, &r.Guests,
        &r.PaymentMethod, &status, &r.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    r.RoomTypeID = roomTypeID.String
    r.Status = model.Status(status)
    return &r, nil
}

func scanRoom(row rowScanner) (*model.Room, error) {
    var r model.Room
    var roomTypeID, image sql.NullString
    err := row.Scan(&r.ID, &r.Name, &roomTypeID, &image, &r.IsBooked)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomNotFound
        }
        return nil, err
    }
    r.RoomTypeID = roomTypeID.String
    r.Image = image.String
    return &r, nil
}

func nullStr(s string) sql.NullString {
    return sql.NullString{String: s, Valid: s != ""}
}

func (s *MySQLStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
    return scanReservation(s.db.QueryRowContext(ctx, selectReservation+` WHERE id = ?`, id))
}

func (s *MySQLStore) ListReservations(ctx context.Context) ([]model.Reservation, error) {
    return s.queryReservations(ctx, selectReservation+` ORDER BY created_at DESC, id`)
}

func (s *MySQLStore) ListReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
    return s.queryReservations(ctx,
        selectReservation+` WHERE user_id = ? ORDER BY created_at DESC, id`, userID)
}

func (s *MySQLStore) queryReservations(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        r, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func (s *MySQLStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
    const q = `SELECT id, name, room_type_id, image, is_booked FROM rooms WHERE id = ?`
    return scanRoom(s.db.QueryRowContext(ctx, q, id))
}

func (s *MySQLStore) ListRooms(ctx context.Context) ([]model.Room, error) {
    const q = `SELECT id, name, room_type_id, image, is_booked FROM rooms ORDER BY id`
    rows, err := s.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        r, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func (s *MySQLStore) CreateRoom(ctx context.Context, room *model.Room) error {
    const q = `INSERT INTO rooms (id, name, room_type_id, image, is_booked) VALUES (?, ?, ?, ?, ?)`
    _, err := s.db.ExecContext(ctx, q,
        room.ID, room.Name, nullStr(room.RoomTypeID), nullStr(room.Image), room.IsBooked)
    return err
}

// UpdateRoom rewrites descriptive fields only; is_booked stays owned by
// the reservation transactions.
func (s *MySQLStore) UpdateRoom(ctx context.Context, room *model.Room) error {
    const q = `UPDATE rooms SET name = ?, room_type_id = ?, image = ? WHERE id = ?`
    result, err := s.db.ExecContext(ctx, q,
        room.Name, nullStr(room.RoomTypeID), nullStr(room.Image), room.ID)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        if _, err := s.GetRoom(ctx, room.ID); err != nil {
            return err
        }
    }
    return nil
}

func (s *MySQLStore) DeleteRoom(ctx context.Context, id string) error {
    result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := result.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrRoomNotFound
    }
    return nil
}

func (s *MySQLStore) GetRoomType(ctx context.Context, id string) (*model.RoomType, error) {
    const q = `SELECT id, name, description, price_per_night, max_guests FROM room_types WHERE id = ?`
    var rt model.RoomType
    var desc sql.NullString
    err := s.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.Name, &desc, &rt.PricePerNight, &rt.MaxGuests)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrRoomTypeNotFound
        }
        return nil, err
    }
    rt.Description = desc.String
    return &rt, nil
}

func (s *MySQLStore) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
    const q = `SELECT id, name, description, price_per_night, max_guests FROM room_types ORDER BY id`
    rows, err := s.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RoomType, 0)
    for rows.Next() {
        var rt model.RoomType
        var desc sql.NullString
        if err := rows.Scan(&rt.ID, &rt.Name, &desc, &rt.PricePerNight, &rt.MaxGuests); err != nil {
            return nil, err
        }
        rt.Description = desc.String
        out = append(out, rt)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func (s *MySQLStore) CreateRoomType(ctx context.Context, rt *model.RoomType) error {
    const q = `INSERT INTO room_types (id, name, description, price_per_night, max_guests) VALUES (?, ?, ?, ?, ?)`
    _, err := s.db.ExecContext(ctx, q, rt.ID, rt.Name, nullStr(rt.Description), rt.PricePerNight, rt.MaxGuests)
    return err
}
