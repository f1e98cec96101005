package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_availability/internal/domain"
)

// LoadDocuments reads the hotel catalog and booking ledger concurrently.
func LoadDocuments(ctx context.Context, docs domain.DocumentFetcher, hotelsLoc, bookingsLoc string) (domain.Inventory, error) {
	var inv domain.Inventory
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		raw, err := docs.Fetch(gctx, hotelsLoc)
		if err != nil {
			return fmt.Errorf("load hotels: %w", err)
		}
		hs, err := mapHotels(raw)
		if err != nil {
			return fmt.Errorf("load hotels from %s: %w", hotelsLoc, err)
		}
		inv.Hotels = hs
		return nil
	})
	g.Go(func() error {
		raw, err := docs.Fetch(gctx, bookingsLoc)
		if err != nil {
			return fmt.Errorf("load bookings: %w", err)
		}
		bs, err := mapBookings(raw)
		if err != nil {
			return fmt.Errorf("load bookings from %s: %w", bookingsLoc, err)
		}
		inv.Bookings = bs
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Inventory{}, err
	}
	logLoaded(inv, "documents")
	return inv, nil
}

// LoadRepository reads the inventory previously imported into repo.
func LoadRepository(ctx context.Context, repo domain.InventoryRepository) (domain.Inventory, error) {
	var inv domain.Inventory
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		inv.Hotels, err = repo.ListHotels(gctx)
		if err != nil {
			return fmt.Errorf("list hotels: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		inv.Bookings, err = repo.ListBookings(gctx)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Inventory{}, err
	}
	logLoaded(inv, "repository")
	return inv, nil
}

func logLoaded(inv domain.Inventory, from string) {
	rooms := 0
	for _, h := range inv.Hotels {
		rooms += len(h.Rooms)
	}
	log.Info().
		Str("from", from).
		Int("hotels", len(inv.Hotels)).
		Int("rooms", rooms).
		Int("bookings", len(inv.Bookings)).
		Msg("inventory loaded")
}
