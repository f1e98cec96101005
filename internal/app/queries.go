package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_availability/internal/adapters/observability"
	"hotel_availability/internal/domain"
	"hotel_availability/internal/engine"
)

// SearchResult is the outcome of scanning daysAhead days starting at From.
type SearchResult struct {
	From   time.Time                  `json:"from"`
	Days   int                        `json:"days"`
	Ranges []domain.AvailabilityRange `json:"ranges"`
}

// MaxSearchDays is the largest daysAhead any search accepts.
const MaxSearchDays = 36600

// lastDay is the last date the YYYYMMDD form can carry.
var lastDay = time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

type QueryService struct {
	eng      *engine.Engine
	cache    domain.Cache // optional
	cacheTTL time.Duration
	maxDays  int
	now      func() time.Time
}

func NewQueryService(e *engine.Engine, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{eng: e, cache: c, cacheTTL: ttl, maxDays: MaxSearchDays, now: time.Now}
}

// WithMaxDays lowers the search horizon; values outside (0, MaxSearchDays]
// are ignored.
func (s *QueryService) WithMaxDays(n int) *QueryService {
	if n > 0 && n <= MaxSearchDays {
		s.maxDays = n
	}
	return s
}

// WithClock replaces the source of "today".
func (s *QueryService) WithClock(now func() time.Time) *QueryService {
	s.now = now
	return s
}

// ResolveHotel returns the hotel or an error wrapping domain.ErrHotelNotFound.
func (s *QueryService) ResolveHotel(id string) (*domain.Hotel, error) { return s.eng.Hotel(id) }

// Today is the current calendar date in the local time zone.
func (s *QueryService) Today() time.Time { return domain.Day(s.now()) }

// Availability counts free rooms of roomType over [start, end]. Every booking
// that touches the range counts against it for its whole length.
func (s *QueryService) Availability(ctx context.Context, hotelID string, start, end time.Time, roomType string) (n int, err error) {
	defer observe("availability", time.Now(), &err)

	if end.Before(start) {
		return 0, fmt.Errorf("%w: range starts %s after it ends %s", domain.ErrMalformedDate, domain.FormatDate(start), domain.FormatDate(end))
	}
	h, err := s.eng.Hotel(hotelID)
	if err != nil {
		return 0, err
	}

	key := fmt.Sprintf("avail:%q:%q:%s-%s", hotelID, roomType, domain.FormatDate(start), domain.FormatDate(end))
	if s.cacheGet(ctx, key, &n) {
		return n, nil
	}
	n = s.eng.ComputeAvailability(h, start, end, roomType)
	s.cacheSet(ctx, key, n)
	return n, nil
}

// Search scans [today, today+daysAhead) for runs of days with free rooms.
func (s *QueryService) Search(ctx context.Context, hotelID string, daysAhead int, roomType string) (res SearchResult, err error) {
	defer observe("search", time.Now(), &err)

	if daysAhead < 0 {
		return SearchResult{}, fmt.Errorf("%w: days ahead must not be negative, got %d", domain.ErrMalformedInteger, daysAhead)
	}
	if daysAhead > s.maxDays {
		return SearchResult{}, fmt.Errorf("%w: days ahead must be at most %d, got %d", domain.ErrMalformedInteger, s.maxDays, daysAhead)
	}
	h, err := s.eng.Hotel(hotelID)
	if err != nil {
		return SearchResult{}, err
	}

	today := s.Today()
	end := today.AddDate(0, 0, daysAhead)
	if end.After(lastDay.AddDate(0, 0, 1)) {
		return SearchResult{}, fmt.Errorf("%w: %d days ahead runs past %s", domain.ErrMalformedInteger, daysAhead, domain.FormatDate(lastDay))
	}
	key := fmt.Sprintf("search:%q:%q:%s:%d", hotelID, roomType, domain.FormatDate(today), daysAhead)
	if s.cacheGet(ctx, key, &res) {
		return res, nil
	}
	ranges, err := s.eng.FindAvailableRangesContext(ctx, h, today, end, roomType)
	if err != nil {
		return SearchResult{}, err
	}
	res = SearchResult{From: today, Days: daysAhead, Ranges: ranges}
	s.cacheSet(ctx, key, res)
	return res, nil
}

// Cache failures never fail a query; the result is computed instead.
func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func observe(kind string, start time.Time, errp *error) {
	observability.ObserveQuery(kind, outcome(*errp), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrHotelNotFound):
		return "not_found"
	case domain.IsQueryError(err):
		return "invalid"
	default:
		return "error"
	}
}
