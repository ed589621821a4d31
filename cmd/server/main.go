package main

import (
    "context"
    "os"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/iliyamo/hotel-room-reservation/internal/config"
    "github.com/iliyamo/hotel-room-reservation/internal/database"
    "github.com/iliyamo/hotel-room-reservation/internal/handler"
    "github.com/iliyamo/hotel-room-reservation/internal/middleware"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/router"
    "github.com/iliyamo/hotel-room-reservation/internal/service"
    "github.com/iliyamo/hotel-room-reservation/internal/store"
)

// initLogger configures the global zerolog logger: console output for
// development, JSON elsewhere.
func initLogger(env string) {
    zerolog.TimeFieldFormat = time.RFC3339
    if env == "dev" {
        log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
            With().Str("service", "hotel-room-reservation").Logger()
    } else {
        log.Logger = zerolog.New(os.Stdout).With().Timestamp().
            Str("service", "hotel-room-reservation").Logger()
    }
}

func main() {
    _ = godotenv.Load() // optional .env for local development

    cfg := config.Load()
    initLogger(cfg.Env)

    var recordStore store.RecordStore
    switch cfg.StoreDriver {
    case "mysql":
        db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
        if err != nil {
            log.Fatal().Err(err).Msg("database connection failed")
        }
        mysqlStore := store.NewMySQLStore(db)
        if err := mysqlStore.Migrate(context.Background()); err != nil {
            log.Fatal().Err(err).Msg("schema migration failed")
        }
        recordStore = mysqlStore
    case "memory":
        recordStore = store.NewMemoryStore()
    default:
        log.Fatal().Str("driver", cfg.StoreDriver).Msg("unknown STORE_DRIVER")
    }

    svc := service.NewReservationService(recordStore, log.Logger)

    e := echo.New()
    e.HideBanner = true

    // Redis-backed middleware degrades to a no-op when Redis is down.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
    }
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb))

    router.RegisterRoutes(e,
        handler.NewReservationHandler(svc),
        handler.NewRoomHandler(recordStore),
        handler.NewRoomTypeHandler(recordStore),
    )

    // Background consumer mirrors reservation events to logs/reservation.log.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Warn().Err(err).Msg("reservation consumer stopped")
        }
    }()

    addr := ":" + cfg.Port
    log.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("listening")
    if err := e.Start(addr); err != nil {
        log.Fatal().Err(err).Msg("server exited")
    }
}
