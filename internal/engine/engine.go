// Package engine answers availability questions over an immutable inventory.
package engine

import (
	"context"
	"fmt"
	"time"

	"hotel_availability/internal/domain"
)

type key struct {
	hotelID  string
	roomType string
}

// ctxCheckEvery is how many scanned days pass between cancellation checks.
const ctxCheckEvery = 256

// span is an occupied interval, inclusive on both ends.
type span struct {
	first, last time.Time
}

// Engine is read-only after New and safe for concurrent use.
type Engine struct {
	hotels   map[string]*domain.Hotel
	rooms    map[key]int
	occupied map[key][]span
}

func New(inv domain.Inventory) *Engine {
	e := &Engine{
		hotels:   make(map[string]*domain.Hotel, len(inv.Hotels)),
		rooms:    make(map[key]int),
		occupied: make(map[key][]span),
	}
	for i := range inv.Hotels {
		h := &inv.Hotels[i]
		e.hotels[h.ID] = h
		for _, r := range h.Rooms {
			e.rooms[key{h.ID, r.RoomType}]++
		}
	}
	for _, b := range inv.Bookings {
		k := key{b.HotelID, b.RoomType}
		e.occupied[k] = append(e.occupied[k], span{first: b.Arrival, last: b.LastNight()})
	}
	return e
}

// Hotel resolves id or returns an error wrapping domain.ErrHotelNotFound.
func (e *Engine) Hotel(id string) (*domain.Hotel, error) {
	h, ok := e.hotels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrHotelNotFound, id)
	}
	return h, nil
}

func (e *Engine) HotelCount() int { return len(e.hotels) }

// ComputeAvailability returns the rooms of roomType minus every booking whose
// occupied nights touch [start, end]. A booking overlapping any day of the
// range counts against the whole range. The result may be negative.
func (e *Engine) ComputeAvailability(h *domain.Hotel, start, end time.Time, roomType string) int {
	k := key{h.ID, roomType}
	overlapping := 0
	for _, s := range e.occupied[k] {
		if !s.first.After(end) && !s.last.Before(start) {
			overlapping++
		}
	}
	return e.rooms[k] - overlapping
}

// FindAvailableRanges scans [start, end) day by day and returns the maximal
// runs of days with positive availability, in chronological order.
func (e *Engine) FindAvailableRanges(h *domain.Hotel, start, end time.Time, roomType string) []domain.AvailabilityRange {
	out, _ := e.FindAvailableRangesContext(context.Background(), h, start, end, roomType)
	return out
}

// FindAvailableRangesContext is FindAvailableRanges that gives up with
// ctx.Err() once ctx is done.
func (e *Engine) FindAvailableRangesContext(ctx context.Context, h *domain.Hotel, start, end time.Time, roomType string) ([]domain.AvailabilityRange, error) {
	var out []domain.AvailabilityRange
	day := func(d time.Time) int { return e.ComputeAvailability(h, d, d, roomType) }
	scanned := 0
	done := func() error {
		scanned++
		if scanned%ctxCheckEvery != 0 {
			return nil
		}
		return ctx.Err()
	}

	for cur := start; cur.Before(end); {
		if err := done(); err != nil {
			return nil, err
		}
		avail := day(cur)
		if avail <= 0 {
			cur = cur.AddDate(0, 0, 1)
			continue
		}
		runEnd, minAvail := cur, avail
		for {
			next := runEnd.AddDate(0, 0, 1)
			if !next.Before(end) {
				break
			}
			if err := done(); err != nil {
				return nil, err
			}
			a := day(next)
			if a <= 0 {
				break
			}
			runEnd = next
			minAvail = min(minAvail, a)
		}
		out = append(out, domain.AvailabilityRange{Start: cur, End: runEnd, AvailableRooms: minAvail})
		cur = runEnd.AddDate(0, 0, 1)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
