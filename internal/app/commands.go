package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_availability/internal/domain"
)

// IngestionService copies a loaded inventory into the repository.
type IngestionService struct {
	repo domain.InventoryRepository
}

func NewIngestionService(r domain.InventoryRepository) *IngestionService {
	return &IngestionService{repo: r}
}

// ImportSummary counts what an import wrote or skipped.
type ImportSummary struct {
	Hotels         int
	Bookings       int
	Failed         int
	OrphanBookings int // bookings whose hotel is not in the catalog
}

// Import writes each hotel and its bookings, at most workers hotels at a time.
// A failing hotel does not stop the others; all failures are returned joined.
func (s *IngestionService) Import(ctx context.Context, inv domain.Inventory, workers int) (ImportSummary, error) {
	if workers <= 0 {
		workers = 1
	}

	byHotel := make(map[string][]domain.Booking, len(inv.Hotels))
	for _, h := range inv.Hotels {
		byHotel[h.ID] = nil
	}
	var sum ImportSummary
	for _, b := range inv.Bookings {
		if _, ok := byHotel[b.HotelID]; !ok {
			sum.OrphanBookings++
			continue
		}
		byHotel[b.HotelID] = append(byHotel[b.HotelID], b)
	}
	if sum.OrphanBookings > 0 {
		log.Warn().Int("bookings", sum.OrphanBookings).Msg("skipping bookings for unknown hotels")
	}

	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, h := range inv.Hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}

		wg.Add(1)
		go func(h domain.Hotel, bs []domain.Booking) {
			defer wg.Done()
			defer sem.Release(1)

			err := s.importHotel(ctx, h, bs)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sum.Failed++
				errs = append(errs, err)
				log.Warn().Str("hotel", h.ID).Err(err).Msg("import failed")
				return
			}
			sum.Hotels++
			sum.Bookings += len(bs)
			log.Debug().Str("hotel", h.ID).Int("bookings", len(bs)).Msg("import ok")
		}(h, byHotel[h.ID])
	}

	wg.Wait()
	return sum, errors.Join(errs...)
}

func (s *IngestionService) importHotel(ctx context.Context, h domain.Hotel, bs []domain.Booking) error {
	// Parent upsert first to satisfy FK for rooms/bookings.
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return fmt.Errorf("upsert hotel %s: %w", h.ID, err)
	}
	if err := s.repo.ReplaceBookings(ctx, h.ID, bs); err != nil {
		return fmt.Errorf("replace bookings for %s: %w", h.ID, err)
	}
	return nil
}
