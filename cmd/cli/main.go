package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"hotel_availability/internal/adapters/console"
	"hotel_availability/internal/adapters/observability"
	redisad "hotel_availability/internal/adapters/redis"
	"hotel_availability/internal/adapters/remote"
	"hotel_availability/internal/adapters/source"
	"hotel_availability/internal/app"
	"hotel_availability/internal/domain"
	"hotel_availability/internal/engine"
	"hotel_availability/internal/shared"
)

const usage = "Usage: cli --hotels hotels.json --bookings bookings.json"

func main() {
	os.Exit(run())
}

func run() int {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	hotels := fs.String("hotels", "", "hotels document (path or URL)")
	bookings := fs.String("bookings", "", "bookings document (path or URL)")
	fs.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}
	cfg = withSources(cfg, *hotels, *bookings)
	if !cfg.HasSources() {
		fmt.Println(usage)
		return 1
	}
	if !source.Exists(cfg.HotelsSource) || !source.Exists(cfg.BookingsSource) {
		fmt.Println("Error: One or both files not found.")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	docs := source.NewRouter(remote.New(cfg.SourceToken, cfg.FetchRPS))
	inv, err := app.LoadDocuments(ctx, docs, cfg.HotelsSource, cfg.BookingsSource)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}
	q := app.NewQueryService(engine.New(inv), cache, cfg.CacheTTL()).WithMaxDays(cfg.SearchMaxDays)

	if err := console.Run(ctx, os.Stdin, os.Stdout, app.NewDispatcher(q)); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("console stopped")
		return 1
	}
	return 0
}

// withSources lets non-empty flags override the configured documents.
func withSources(cfg shared.Config, hotels, bookings string) shared.Config {
	if hotels != "" {
		cfg.HotelsSource = hotels
	}
	if bookings != "" {
		cfg.BookingsSource = bookings
	}
	return cfg
}
