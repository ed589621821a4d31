package store

import (
    "context"
    "sort"
    "sync"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// MemoryStore is an in-process RecordStore.  Records live in maps guarded
// by a single RWMutex; Atomic blocks additionally serialise on a per-room
// mutex so that competing claims on one room queue up while claims on
// different rooms run in parallel.  Writes made inside an Atomic block
// are staged and applied to the maps in one step when the block returns
// nil, so no partially applied state is ever observable.
type MemoryStore struct {
    mu           sync.RWMutex
    rooms        map[string]model.Room
    roomTypes    map[string]model.RoomType
    reservations map[string]model.Reservation

    roomLocks sync.Map // roomID -> *sync.Mutex
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
    return &MemoryStore{
        rooms:        make(map[string]model.Room),
        roomTypes:    make(map[string]model.RoomType),
        reservations: make(map[string]model.Reservation),
    }
}

func (s *MemoryStore) roomLock(roomID string) *sync.Mutex {
    l, _ := s.roomLocks.LoadOrStore(roomID, &sync.Mutex{})
    return l.(*sync.Mutex)
}

// memTx stages writes against the parent store.  Reads consult the stage
// first so a block observes its own writes.
type memTx struct {
    s        *MemoryStore
    rooms    map[string]model.Room
    resPut   map[string]model.Reservation
    resDel   map[string]struct{}
}

func (t *memTx) Room(id string) (*model.Room, error) {
    if r, ok := t.rooms[id]; ok {
        cp := r
        return &cp, nil
    }
    t.s.mu.RLock()
    defer t.s.mu.RUnlock()
    r, ok := t.s.rooms[id]
    if !ok {
        return nil, ErrRoomNotFound
    }
    cp := r
    return &cp, nil
}

func (t *memTx) PutRoom(room *model.Room) error {
    t.rooms[room.ID] = *room
    return nil
}

func (t *memTx) Reservation(id string) (*model.Reservation, error) {
    if _, ok := t.resDel[id]; ok {
        return nil, ErrReservationNotFound
    }
    if r, ok := t.resPut[id]; ok {
        cp := r
        return &cp, nil
    }
    t.s.mu.RLock()
    defer t.s.mu.RUnlock()
    r, ok := t.s.reservations[id]
    if !ok {
        return nil, ErrReservationNotFound
    }
    cp := r
    return &cp, nil
}

func (t *memTx) PutReservation(res *model.Reservation) error {
    delete(t.resDel, res.ID)
    t.resPut[res.ID] = *res
    return nil
}

func (t *memTx) DeleteReservation(id string) error {
    if _, err := t.Reservation(id); err != nil {
        return err
    }
    delete(t.resPut, id)
    t.resDel[id] = struct{}{}
    return nil
}

func (t *memTx) HasActiveReservation(roomID, excludeID string) (bool, error) {
    seen := make(map[string]struct{}, len(t.resPut))
    for id, r := range t.resPut {
        seen[id] = struct{}{}
        if id != excludeID && r.RoomID == roomID && r.Status.Active() {
            return true, nil
        }
    }
    t.s.mu.RLock()
    defer t.s.mu.RUnlock()
    for id, r := range t.s.reservations {
        if _, staged := seen[id]; staged {
            continue
        }
        if _, deleted := t.resDel[id]; deleted {
            continue
        }
        if id != excludeID && r.RoomID == roomID && r.Status.Active() {
            return true, nil
        }
    }
    return false, nil
}

// Atomic runs fn under the room's mutex and applies its staged writes in
// one step on success.  An error from fn discards the stage entirely.
func (s *MemoryStore) Atomic(ctx context.Context, roomID string, fn func(tx Tx) error) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    l := s.roomLock(roomID)
    l.Lock()
    defer l.Unlock()

    tx := &memTx{
        s:      s,
        rooms:  make(map[string]model.Room),
        resPut: make(map[string]model.Reservation),
        resDel: make(map[string]struct{}),
    }
    if err := fn(tx); err != nil {
        return err
    }

    s.mu.Lock()
    defer s.mu.Unlock()
    for id, r := range tx.rooms {
        s.rooms[id] = r
    }
    for id, r := range tx.resPut {
        s.reservations[id] = r
    }
    for id := range tx.resDel {
        delete(s.reservations, id)
    }
    return nil
}

func (s *MemoryStore) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    r, ok := s.reservations[id]
    if !ok {
        return nil, ErrReservationNotFound
    }
    cp := r
    return &cp, nil
}

func (s *MemoryStore) ListReservations(ctx context.Context) ([]model.Reservation, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]model.Reservation, 0, len(s.reservations))
    for _, r := range s.reservations {
        out = append(out, r)
    }
    sortByCreatedAtDesc(out)
    return out, nil
}

func (s *MemoryStore) ListReservationsByUser(ctx context.Context, userID string) ([]model.Reservation, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]model.Reservation, 0)
    for _, r := range s.reservations {
        if r.UserID == userID {
            out = append(out, r)
        }
    }
    sortByCreatedAtDesc(out)
    return out, nil
}

// sortByCreatedAtDesc orders newest first, matching the SQL store's
// ORDER BY created_at DESC.  Ties break on ID to keep output stable.
func sortByCreatedAtDesc(rs []model.Reservation) {
    sort.Slice(rs, func(i, j int) bool {
        if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
            return rs[i].ID < rs[j].ID
        }
        return rs[i].CreatedAt.After(rs[j].CreatedAt)
    })
}

func (s *MemoryStore) GetRoom(ctx context.Context, id string) (*model.Room, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    r, ok := s.rooms[id]
    if !ok {
        return nil, ErrRoomNotFound
    }
    cp := r
    return &cp, nil
}

func (s *MemoryStore) ListRooms(ctx context.Context) ([]model.Room, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]model.Room, 0, len(s.rooms))
    for _, r := range s.rooms {
        out = append(out, r)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s *MemoryStore) CreateRoom(ctx context.Context, room *model.Room) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.rooms[room.ID] = *room
    return nil
}

// UpdateRoom replaces a room's descriptive fields.  The stored IsBooked
// flag is preserved: it is derived state owned by the reservation
// service and must not be writable through the catalog.
func (s *MemoryStore) UpdateRoom(ctx context.Context, room *model.Room) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    existing, ok := s.rooms[room.ID]
    if !ok {
        return ErrRoomNotFound
    }
    updated := *room
    updated.IsBooked = existing.IsBooked
    s.rooms[room.ID] = updated
    return nil
}

func (s *MemoryStore) DeleteRoom(ctx context.Context, id string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.rooms[id]; !ok {
        return ErrRoomNotFound
    }
    delete(s.rooms, id)
    return nil
}

func (s *MemoryStore) GetRoomType(ctx context.Context, id string) (*model.RoomType, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    rt, ok := s.roomTypes[id]
    if !ok {
        return nil, ErrRoomTypeNotFound
    }
    cp := rt
    return &cp, nil
}

func (s *MemoryStore) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]model.RoomType, 0, len(s.roomTypes))
    for _, rt := range s.roomTypes {
        out = append(out, rt)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s *MemoryStore) CreateRoomType(ctx context.Context, rt *model.RoomType) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.roomTypes[rt.ID] = *rt
    return nil
}
