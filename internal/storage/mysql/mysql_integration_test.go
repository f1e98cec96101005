//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_availability/internal/app"
	"hotel_availability/internal/domain"
	mysqlrepo "hotel_availability/internal/storage/mysql"
)

// migrationsDir defaults to the repo's migrations folder.
func migrationsDir() string {
	if v := os.Getenv("MIGRATIONS_DIR"); v != "" {
		return v
	}
	return filepath.Join("..", "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir %s: %v", dir, err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=availability",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/availability?parseTime=true&multiStatements=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRepo_MySQL_ImportAndList(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	h1 := domain.Hotel{ID: "H1", Name: "Hotel California", Rooms: []domain.Room{
		{RoomType: "SGL", RoomID: "101"}, {RoomType: "SGL", RoomID: "102"}, {RoomType: "DBL", RoomID: "201"},
	}}
	h2 := domain.Hotel{ID: "H2"}
	for _, h := range []domain.Hotel{h1, h2} {
		if err := repo.UpsertHotel(ctx, h); err != nil {
			t.Fatalf("UpsertHotel %s: %v", h.ID, err)
		}
	}

	bs := []domain.Booking{
		{HotelID: "H1", RoomType: "SGL", Arrival: day("20240901"), Departure: day("20240903")},
		{HotelID: "H1", RoomType: "DBL", Arrival: day("20240902"), Departure: day("20240905")},
	}
	if err := repo.ReplaceBookings(ctx, "H1", bs); err != nil {
		t.Fatalf("ReplaceBookings: %v", err)
	}
	// running the import twice must not duplicate anything
	if err := repo.UpsertHotel(ctx, h1); err != nil {
		t.Fatalf("UpsertHotel again: %v", err)
	}
	if err := repo.ReplaceBookings(ctx, "H1", bs); err != nil {
		t.Fatalf("ReplaceBookings again: %v", err)
	}

	hotels, err := repo.ListHotels(ctx)
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(hotels) != 2 || hotels[0].ID != "H1" || len(hotels[0].Rooms) != 3 || hotels[0].Name != "Hotel California" {
		t.Fatalf("unexpected hotels %+v", hotels)
	}
	if hotels[0].Rooms[2] != (domain.Room{RoomType: "DBL", RoomID: "201"}) {
		t.Fatalf("room order not kept: %+v", hotels[0].Rooms)
	}
	if hotels[1].ID != "H2" || len(hotels[1].Rooms) != 0 {
		t.Fatalf("unexpected hotel %+v", hotels[1])
	}

	got, err := repo.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bookings, got %+v", got)
	}
	// ordered by room type: DBL first
	if got[0].RoomType != "DBL" || !got[0].Arrival.Equal(day("20240902")) || !got[0].Departure.Equal(day("20240905")) {
		t.Fatalf("unexpected booking %+v", got[0])
	}

	if err := repo.ReplaceBookings(ctx, "H2", bs); err == nil {
		t.Fatalf("expected error for bookings of another hotel")
	}
}

func TestRepo_MySQL_IdsAreCaseSensitive(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	inv := domain.Inventory{
		Hotels: []domain.Hotel{
			{ID: "H1", Name: "upper", Rooms: []domain.Room{{RoomType: "SGL"}, {RoomType: "sgl"}}},
			{ID: "h1", Name: "lower", Rooms: []domain.Room{{RoomType: "DBL"}}},
		},
		Bookings: []domain.Booking{
			{HotelID: "H1", RoomType: "SGL", Arrival: day("20240901"), Departure: day("20240903")},
			{HotelID: "h1", RoomType: "DBL", Arrival: day("20240905"), Departure: day("20240906")},
		},
	}
	sum, err := app.NewIngestionService(repo).Import(ctx, inv, 2)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if sum.Hotels != 2 || sum.Bookings != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	got, err := app.LoadRepository(ctx, repo)
	if err != nil {
		t.Fatalf("LoadRepository: %v", err)
	}
	if len(got.Hotels) != 2 || len(got.Bookings) != 2 {
		t.Fatalf("hotels or bookings collapsed: %+v", got)
	}
	byID := map[string]domain.Hotel{}
	for _, h := range got.Hotels {
		byID[h.ID] = h
	}
	if h := byID["H1"]; h.Name != "upper" || len(h.Rooms) != 2 || h.Rooms[1].RoomType != "sgl" {
		t.Fatalf("H1 not intact: %+v", h)
	}
	if h := byID["h1"]; h.Name != "lower" || len(h.Rooms) != 1 {
		t.Fatalf("h1 not intact: %+v", h)
	}
	perHotel := map[string]int{}
	for _, b := range got.Bookings {
		perHotel[b.HotelID]++
	}
	if perHotel["H1"] != 1 || perHotel["h1"] != 1 {
		t.Fatalf("ledgers overwrote each other: %v", perHotel)
	}
}
