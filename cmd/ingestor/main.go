package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"hotel_availability/internal/adapters/observability"
	"hotel_availability/internal/adapters/remote"
	"hotel_availability/internal/adapters/source"
	"hotel_availability/internal/app"
	"hotel_availability/internal/shared"
	mysqlrepo "hotel_availability/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	if !cfg.HasSources() {
		log.Fatal().Msg("HOTELS_SOURCE and BOOKINGS_SOURCE must be set")
	}

	log.Info().
		Str("hotels", cfg.HotelsSource).
		Str("bookings", cfg.BookingsSource).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	docs := source.NewRouter(remote.New(cfg.SourceToken, cfg.FetchRPS))
	inv, err := app.LoadDocuments(ctx, docs, cfg.HotelsSource, cfg.BookingsSource)
	if err != nil {
		log.Fatal().Err(err).Msg("document load failed")
	}

	ing := app.NewIngestionService(mysqlrepo.New(db))
	sum, err := ing.Import(ctx, inv, cfg.Workers)
	ev := log.Info()
	if err != nil {
		ev = log.Warn().Err(err)
	}
	ev.Int("hotels", sum.Hotels).
		Int("bookings", sum.Bookings).
		Int("failed", sum.Failed).
		Int("orphan_bookings", sum.OrphanBookings).
		Msg("ingestion completed")
}
