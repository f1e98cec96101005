package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "hotel_availability/internal/adapters/http_server"
	"hotel_availability/internal/adapters/observability"
	redisad "hotel_availability/internal/adapters/redis"
	"hotel_availability/internal/adapters/remote"
	"hotel_availability/internal/adapters/source"
	"hotel_availability/internal/app"
	"hotel_availability/internal/domain"
	"hotel_availability/internal/engine"
	"hotel_availability/internal/shared"
	mysqlrepo "hotel_availability/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	inv, err := loadInventory(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.InventoryBackend).Msg("inventory load failed")
	}

	// deps
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, queries will not be cached until it recovers")
		}
		cache = rc
	}
	eng := engine.New(inv)
	log.Info().Int("hotels", eng.HotelCount()).Int("bookings", len(inv.Bookings)).Msg("engine ready")
	q := app.NewQueryService(eng, cache, cfg.CacheTTL()).WithMaxDays(cfg.SearchMaxDays)

	// http
	srv := server.New(cfg.Timeout())
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, D: app.NewDispatcher(q)})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

func loadInventory(ctx context.Context, cfg shared.Config) (domain.Inventory, error) {
	if cfg.InventoryBackend == shared.BackendMySQL {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return domain.Inventory{}, err
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return domain.Inventory{}, err
		}
		log.Info().Msg("database connection ok")
		return app.LoadRepository(ctx, mysqlrepo.New(db))
	}
	if !cfg.HasSources() {
		return domain.Inventory{}, errors.New("HOTELS_SOURCE and BOOKINGS_SOURCE must be set")
	}
	docs := source.NewRouter(remote.New(cfg.SourceToken, cfg.FetchRPS))
	return app.LoadDocuments(ctx, docs, cfg.HotelsSource, cfg.BookingsSource)
}
