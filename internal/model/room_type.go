package model

// RoomType is a catalog entry describing a class of rooms (e.g. "Double",
// "Suite").  It is plain reference data with no lifecycle of its own.
type RoomType struct {
    ID            string  `json:"id"`
    Name          string  `json:"name"`
    Description   string  `json:"description,omitempty"`
    PricePerNight float64 `json:"pricePerNight"`
    MaxGuests     int     `json:"maxGuests,omitempty"`
}
