package domain

import "time"

type Hotel struct {
	ID    string
	Name  string
	Rooms []Room
}

type Room struct {
	RoomType string
	RoomID   string // optional, identity never matters for availability
}

// Booking holds one room of RoomType from Arrival (check-in day) until
// Departure (check-out day, not occupied).
type Booking struct {
	HotelID   string
	RoomType  string
	Arrival   time.Time
	Departure time.Time
}

// LastNight is the last occupied day of the booking.
func (b Booking) LastNight() time.Time { return b.Departure.AddDate(0, 0, -1) }

// AvailabilityRange is a contiguous run of days with free rooms.
// End is inclusive; AvailableRooms is the minimum over every day of the run.
type AvailabilityRange struct {
	Start          time.Time
	End            time.Time
	AvailableRooms int
}

// Inventory is everything the engine is built from.
type Inventory struct {
	Hotels   []Hotel
	Bookings []Booking
}
