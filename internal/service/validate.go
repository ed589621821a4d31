package service

import (
    "encoding/json"
    "strconv"
    "strings"
    "time"
)

// Number accepts a JSON number or a numeric string and keeps the raw
// text for explicit coercion at validation time.  Clients of the
// original API sent prices and guest counts in both shapes.
type Number string

// UnmarshalJSON stores the textual form of either a JSON number or a
// JSON string.  null and the empty string both decode to the zero value,
// which Validate treats as a missing field.
func (n *Number) UnmarshalJSON(b []byte) error {
    s := strings.TrimSpace(string(b))
    if s == "null" {
        *n = ""
        return nil
    }
    if strings.HasPrefix(s, `"`) {
        var str string
        if err := json.Unmarshal(b, &str); err != nil {
            return err
        }
        *n = Number(strings.TrimSpace(str))
        return nil
    }
    *n = Number(s)
    return nil
}

func (n Number) empty() bool { return n == "" }

func (n Number) float64() (float64, error) {
    return strconv.ParseFloat(string(n), 64)
}

func (n Number) int() (int, error) {
    return strconv.Atoi(string(n))
}

// CreateReservationInput is the request schema for creating a
// reservation.  RoomName and RoomTypeID are optional passthrough fields
// captured onto the reservation; everything else is validated.
type CreateReservationInput struct {
    UserID        string `json:"userId"`
    RoomID        string `json:"roomId"`
    RoomName      string `json:"roomName"`
    RoomTypeID    string `json:"roomTypeId"`
    TotalPrice    Number `json:"totalPrice"`
    CheckInDate   string `json:"checkInDate"`
    CheckOutDate  string `json:"checkOutDate"`
    Guests        Number `json:"guests"`
    PaymentMethod string `json:"paymentMethod"`
}

// validated holds the coerced values of a CreateReservationInput that
// passed Validate.
type validated struct {
    TotalPrice float64
    Guests     int
}

// Validate checks every field and collects all violations so the caller
// can correct the whole request at once.  It has no side effects.
func (in *CreateReservationInput) Validate() (validated, *ValidationError) {
    var out validated
    var fields []FieldError
    add := func(field, reason string) {
        fields = append(fields, FieldError{Field: field, Reason: reason})
    }

    if strings.TrimSpace(in.UserID) == "" {
        add("userId", "required")
    }
    if strings.TrimSpace(in.RoomID) == "" {
        add("roomId", "required")
    }
    if in.TotalPrice.empty() {
        add("totalPrice", "required")
    } else if v, err := in.TotalPrice.float64(); err != nil || v < 0 {
        add("totalPrice", "must be a non-negative number")
    } else {
        out.TotalPrice = v
    }
    if in.CheckInDate == "" {
        add("checkInDate", "required")
    } else if !validCalendarDate(in.CheckInDate) {
        add("checkInDate", "must be a valid YYYY-MM-DD date")
    }
    if in.CheckOutDate == "" {
        add("checkOutDate", "required")
    } else if !validCalendarDate(in.CheckOutDate) {
        add("checkOutDate", "must be a valid YYYY-MM-DD date")
    }
    if in.Guests.empty() {
        add("guests", "required")
    } else if v, err := in.Guests.int(); err != nil || v <= 0 {
        add("guests", "must be a positive integer")
    } else {
        out.Guests = v
    }
    if strings.TrimSpace(in.PaymentMethod) == "" {
        add("paymentMethod", "required")
    }

    if len(fields) > 0 {
        return validated{}, &ValidationError{Fields: fields}
    }
    return out, nil
}

// validCalendarDate reports whether s is a real calendar date in strict
// YYYY-MM-DD form.  time.Parse rejects impossible dates such as
// 2023-02-30, and the re-format round trip rejects variants the layout
// would otherwise tolerate.
func validCalendarDate(s string) bool {
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        return false
    }
    return t.Format("2006-01-02") == s
}
