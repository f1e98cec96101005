package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hotel_availability/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// UpsertHotel writes the hotel row and replaces its rooms.
func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertHotelSQL, h.ID, valStr(h.Name)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteRoomsSQL, h.ID); err != nil {
			return err
		}
		if len(h.Rooms) == 0 {
			return nil
		}
		values := make([]string, 0, len(h.Rooms))
		args := make([]any, 0, len(h.Rooms)*4)
		for i, room := range h.Rooms {
			values = append(values, "(?,?,?,?)")
			args = append(args, h.ID, i, room.RoomType, valStr(room.RoomID))
		}
		_, err := tx.ExecContext(ctx, insertRoomsPrefix+strings.Join(values, ","), args...)
		return err
	})
}

// ReplaceBookings swaps the hotel's ledger for bs in one transaction.
func (r *Repo) ReplaceBookings(ctx context.Context, hotelID string, bs []domain.Booking) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteBookingsSQL, hotelID); err != nil {
			return err
		}
		if len(bs) == 0 {
			return nil
		}
		values := make([]string, 0, len(bs))
		args := make([]any, 0, len(bs)*4)
		for _, b := range bs {
			if b.HotelID != hotelID {
				return fmt.Errorf("booking for %s in ledger of %s", b.HotelID, hotelID)
			}
			values = append(values, "(?,?,?,?)")
			args = append(args, hotelID, b.RoomType, domain.Day(b.Arrival), domain.Day(b.Departure))
		}
		_, err := tx.ExecContext(ctx, insertBookingsPrefix+strings.Join(values, ","), args...)
		return err
	})
}

func (r *Repo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var (
			id               string
			name             sql.NullString
			roomType, roomID sql.NullString
		)
		if err := rows.Scan(&id, &name, &roomType, &roomID); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].ID != id {
			out = append(out, domain.Hotel{ID: id, Name: name.String})
		}
		if roomType.Valid {
			cur := &out[len(out)-1]
			cur.Rooms = append(cur.Rooms, domain.Room{RoomType: roomType.String, RoomID: roomID.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		var arrival, departure time.Time
		if err := rows.Scan(&b.HotelID, &b.RoomType, &arrival, &departure); err != nil {
			return nil, err
		}
		b.Arrival, b.Departure = domain.Day(arrival), domain.Day(departure)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
