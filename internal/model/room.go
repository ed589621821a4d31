package model

// Room describes a bookable hotel room.  The IsBooked flag is derived
// state: it is true exactly when an active reservation references the
// room.  It is written only by the reservation service inside store
// transactions; the room CRUD endpoints never touch it.
//
// Fields:
//  ID         – opaque identifier (UUID string).
//  Name       – display name, e.g. "Deluxe 204".
//  RoomTypeID – optional reference into the room type catalog.
//  Image      – optional image URL, carried opaquely.
//  IsBooked   – whether an active reservation currently holds the room.
type Room struct {
    ID         string `json:"id"`
    Name       string `json:"name"`
    RoomTypeID string `json:"roomTypeId,omitempty"`
    Image      string `json:"image,omitempty"`
    IsBooked   bool   `json:"isBooked"`
}

// RoomWithType is the read shape for room endpoints: the room plus its
// resolved room type, if any.
type RoomWithType struct {
    Room
    RoomType *RoomType `json:"roomType"`
}
