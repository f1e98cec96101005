package app

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_availability/internal/domain"
)

/********** alias registries (single source of truth) **********/

var hotelAliases = map[string][]string{
	"id":    {"id", "hotelId", "hotel_id"},
	"name":  {"name", "hotelName", "hotel_name"},
	"rooms": {"rooms", "roomList", "room_list"},
}

var roomAliases = map[string][]string{
	"room_type": {"roomType", "room_type", "type"},
	"room_id":   {"roomId", "room_id", "id"},
}

var bookingAliases = map[string][]string{
	"hotel_id":  {"hotelId", "hotel_id", "hotel"},
	"room_type": {"roomType", "room_type", "type"},
	"arrival":   {"arrival", "arrivalDate", "checkIn", "check_in"},
	"departure": {"departure", "departureDate", "checkOut", "check_out"},
}

/********** tiny helpers **********/

// field finds key in m, exact match first, then ignoring case.
func field(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// lookupAny: nested lookup with dot paths, case-insensitive per segment.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := field(obj, part)
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the value at path as a string. Integral numbers are
// accepted so that 20240901 and "20240901" read the same.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

func firstSlice(m map[string]any, aliases map[string][]string, key string) []any {
	for _, p := range aliases[key] {
		if raw, ok := lookupAny(m, p).([]any); ok {
			return raw
		}
	}
	return nil
}

/********** hotel mapper **********/

func mapHotels(in []map[string]any) ([]domain.Hotel, error) {
	out := make([]domain.Hotel, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, p := range in {
		h := domain.Hotel{
			ID:   firstNonEmptyAlias(p, hotelAliases, "id"),
			Name: firstNonEmptyAlias(p, hotelAliases, "name"),
		}
		if h.ID == "" {
			return nil, fmt.Errorf("hotel #%d: missing id", i)
		}
		if _, dup := seen[h.ID]; dup {
			return nil, fmt.Errorf("hotel #%d: duplicate id %s", i, h.ID)
		}
		seen[h.ID] = struct{}{}

		for j, it := range firstSlice(p, hotelAliases, "rooms") {
			r, ok := it.(map[string]any)
			if !ok {
				log.Warn().Str("hotel", h.ID).Int("room", j).Msg("skipping room that is not an object")
				continue
			}
			h.Rooms = append(h.Rooms, domain.Room{
				RoomType: firstNonEmptyAlias(r, roomAliases, "room_type"),
				RoomID:   firstNonEmptyAlias(r, roomAliases, "room_id"),
			})
		}
		out = append(out, h)
	}
	return out, nil
}

/********** booking mapper **********/

func mapBookings(in []map[string]any) ([]domain.Booking, error) {
	out := make([]domain.Booking, 0, len(in))
	for i, r := range in {
		arrival, err := domain.ParseDate(firstNonEmptyAlias(r, bookingAliases, "arrival"))
		if err != nil {
			return nil, fmt.Errorf("booking #%d arrival: %w", i, err)
		}
		departure, err := domain.ParseDate(firstNonEmptyAlias(r, bookingAliases, "departure"))
		if err != nil {
			return nil, fmt.Errorf("booking #%d departure: %w", i, err)
		}
		out = append(out, domain.Booking{
			HotelID:   firstNonEmptyAlias(r, bookingAliases, "hotel_id"),
			RoomType:  firstNonEmptyAlias(r, bookingAliases, "room_type"),
			Arrival:   arrival,
			Departure: departure,
		})
	}
	return out, nil
}
