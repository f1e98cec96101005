package app_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"hotel_availability/internal/app"
	"hotel_availability/internal/domain"
)

func TestDispatcher_Process(t *testing.T) {
	d := app.NewDispatcher(newService(twoSingles(), nil))
	ctx := context.Background()

	cases := []struct {
		in, want string
	}{
		{"Availability(H1, 20240901, SGL)", "1"},
		{"Availability(H1, 20240903, SGL)", "2"},
		{"  Availability(H1,20240831,SGL)  ", "2"},
		{"Availability(H1, 20240830-20240905, SGL)", "1"},
		{"Availability(H1, 20240901, DBL)", "1"},
		{"Availability(H1, 20240901, XXL)", "0"},
		{"Search(H1, 5, SGL)", "(20240829-20240902, 1)"},
		{"Search(H1, 0, SGL)", ""},
		{"Search(H1, 3, TRP)", ""},
	}
	for _, c := range cases {
		got, err := d.Process(ctx, c.in)
		if err != nil {
			t.Fatalf("%s: err %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %q want %q", c.in, got, c.want)
		}
	}
}

func TestDispatcher_Errors(t *testing.T) {
	d := app.NewDispatcher(newService(twoSingles(), nil))
	ctx := context.Background()

	cases := []struct {
		in   string
		want error
	}{
		{"Book(H1, 20240901, SGL)", domain.ErrMalformedCommand},
		{"Availability(H1, 20240901, SGL", domain.ErrMalformedCommand},
		{"availability(H1, 20240901, SGL)", domain.ErrMalformedCommand},
		{"Availability(H1, 20240901)", domain.ErrMalformedCommand},
		{"Search(H1, 5, SGL, extra)", domain.ErrMalformedCommand},
		{"Availability(H2, 20240901, SGL)", domain.ErrHotelNotFound},
		{"Search(H2, 5, SGL)", domain.ErrHotelNotFound},
		{"Availability(H1, 2024-09-01, SGL)", domain.ErrMalformedDate},
		{"Availability(H1, 20240901-, SGL)", domain.ErrMalformedDate},
		{"Availability(H1, 20240931, SGL)", domain.ErrMalformedDate},
		{"Availability(H1, 20240905-20240901, SGL)", domain.ErrMalformedDate},
		{"Search(H1, five, SGL)", domain.ErrMalformedInteger},
		{"Search(H1, -3, SGL)", domain.ErrMalformedInteger},
		{"Search(H1, 5000000, DBL)", domain.ErrMalformedInteger},
		// the hotel is resolved before the other arguments are parsed
		{"Availability(H2, 2024-09-01, SGL)", domain.ErrHotelNotFound},
		{"Search(H2, five, SGL)", domain.ErrHotelNotFound},
	}
	for _, c := range cases {
		got, err := d.Process(ctx, c.in)
		if !errors.Is(err, c.want) {
			t.Fatalf("%s: expected %v, got %v (%q)", c.in, c.want, err, got)
		}
		if got != "" {
			t.Fatalf("%s: partial result %q on error", c.in, got)
		}
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := app.ParseDateRange("20240901-20240903")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if domain.FormatDate(start) != "20240901" || domain.FormatDate(end) != "20240903" {
		t.Fatalf("got %v %v", start, end)
	}

	start, end, err = app.ParseDateRange("20240901")
	if err != nil || !start.Equal(end) {
		t.Fatalf("single date should be a one-day range: %v %v %v", start, end, err)
	}
}

func TestFormatRanges(t *testing.T) {
	rs := []domain.AvailabilityRange{
		{Start: date("20240901"), End: date("20240902"), AvailableRooms: 1},
		{Start: date("20240905"), End: date("20240910"), AvailableRooms: 2},
	}
	if got := app.FormatRanges(rs); got != "(20240901-20240902, 1), (20240905-20240910, 2)" {
		t.Fatalf("got %q", got)
	}
	if got := app.FormatRanges(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestParseDays(t *testing.T) {
	if n, err := app.ParseDays("365"); err != nil || n != 365 {
		t.Fatalf("got %d %v", n, err)
	}
	if n, err := app.ParseDays(strconv.Itoa(app.MaxSearchDays)); err != nil || n != app.MaxSearchDays {
		t.Fatalf("limit itself must be accepted: %d %v", n, err)
	}
	if _, err := app.ParseDays(strconv.Itoa(app.MaxSearchDays + 1)); !errors.Is(err, domain.ErrMalformedInteger) {
		t.Fatalf("expected ErrMalformedInteger past the limit, got %v", err)
	}
}

func TestDispatcher_SearchHonoursDeadline(t *testing.T) {
	d := app.NewDispatcher(newService(twoSingles(), nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := d.Process(ctx, "Search(H1, 36000, DBL)")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v (%q)", err, got)
	}
	if got != "" {
		t.Fatalf("partial result %q after cancellation", got)
	}
}
