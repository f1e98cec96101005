package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotel_availability/internal/domain"
)

// Dispatcher turns one line of text into a query and renders its result:
//
//	Availability(H1, 20240901, SGL)
//	Availability(H1, 20240901-20240903, DBL)
//	Search(H1, 365, SGL)
type Dispatcher struct{ q *QueryService }

func NewDispatcher(q *QueryService) *Dispatcher { return &Dispatcher{q: q} }

func (d *Dispatcher) Process(ctx context.Context, command string) (string, error) {
	command = strings.TrimSpace(command)
	switch {
	case isCall(command, "Availability"):
		return d.availability(ctx, callArgs(command, "Availability"))
	case isCall(command, "Search"):
		return d.search(ctx, callArgs(command, "Search"))
	default:
		return "", fmt.Errorf("%w: expected Availability(...) or Search(...)", domain.ErrMalformedCommand)
	}
}

func (d *Dispatcher) availability(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("%w: Availability takes 3 arguments: hotelId, date or dateRange, roomType", domain.ErrMalformedCommand)
	}
	if _, err := d.q.ResolveHotel(args[0]); err != nil {
		return "", err
	}
	start, end, err := ParseDateRange(args[1])
	if err != nil {
		return "", err
	}
	n, err := d.q.Availability(ctx, args[0], start, end, args[2])
	if err != nil {
		return "", err
	}
	return strconv.Itoa(n), nil
}

func (d *Dispatcher) search(ctx context.Context, args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("%w: Search takes 3 arguments: hotelId, daysAhead, roomType", domain.ErrMalformedCommand)
	}
	if _, err := d.q.ResolveHotel(args[0]); err != nil {
		return "", err
	}
	days, err := ParseDays(args[1])
	if err != nil {
		return "", err
	}
	res, err := d.q.Search(ctx, args[0], days, args[2])
	if err != nil {
		return "", err
	}
	return FormatRanges(res.Ranges), nil
}

func isCall(command, name string) bool {
	return strings.HasPrefix(command, name+"(") && strings.HasSuffix(command, ")")
}

func callArgs(command, name string) []string {
	inner := command[len(name)+1 : len(command)-1]
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ParseDateRange accepts YYYYMMDD or YYYYMMDD-YYYYMMDD. A single date is a
// one-day range.
func ParseDateRange(tok string) (time.Time, time.Time, error) {
	if !strings.Contains(tok, "-") {
		d, err := domain.ParseDate(tok)
		return d, d, err
	}
	parts := strings.Split(tok, "-")
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range %q must be two dates joined by '-'", domain.ErrMalformedDate, tok)
	}
	start, err := domain.ParseDate(strings.TrimSpace(parts[0]))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := domain.ParseDate(strings.TrimSpace(parts[1]))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range %q ends before it starts", domain.ErrMalformedDate, tok)
	}
	return start, end, nil
}

func ParseDays(tok string) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number of days", domain.ErrMalformedInteger, tok)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: days ahead must not be negative, got %d", domain.ErrMalformedInteger, n)
	}
	if n > MaxSearchDays {
		return 0, fmt.Errorf("%w: days ahead must be at most %d, got %d", domain.ErrMalformedInteger, MaxSearchDays, n)
	}
	return n, nil
}

// FormatRanges renders "(20240901-20240902, 1), (20240905-20240910, 2)".
// No ranges render as the empty string.
func FormatRanges(rs []domain.AvailabilityRange) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		parts = append(parts, fmt.Sprintf("(%s-%s, %d)", domain.FormatDate(r.Start), domain.FormatDate(r.End), r.AvailableRooms))
	}
	return strings.Join(parts, ", ")
}
