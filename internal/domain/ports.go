package domain

import "context"

// DocumentFetcher returns the JSON array stored at location (file path or URL)
// as generic objects.
type DocumentFetcher interface {
	Fetch(ctx context.Context, location string) ([]map[string]any, error)
}

type InventoryRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error
	ReplaceBookings(ctx context.Context, hotelID string, bs []Booking) error

	// Read paths
	ListHotels(ctx context.Context) ([]Hotel, error)
	ListBookings(ctx context.Context) ([]Booking, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
