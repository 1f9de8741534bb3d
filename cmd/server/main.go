package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/facility-reservation/internal/config"
    "github.com/iliyamo/facility-reservation/internal/database"
    "github.com/iliyamo/facility-reservation/internal/handler"
    "github.com/iliyamo/facility-reservation/internal/middleware"
    "github.com/iliyamo/facility-reservation/internal/queue"
    "github.com/iliyamo/facility-reservation/internal/repository"
    "github.com/iliyamo/facility-reservation/internal/router"
)

func main() {
    // Load .env if present; real deployments set env vars directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    // Repositories share the single pooled handle.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    facilities := repository.NewFacilityRepo(db)
    facilityTypes := repository.NewFacilityTypeRepo(db)
    reservations := repository.NewReservationRepo(db)
    payments := repository.NewPaymentRepo(db)

    authH := handler.NewAuthHandler(cfg, users, tokens)
    facilityH := handler.NewFacilityHandler(facilities, facilityTypes, reservations, users)
    reservationH := handler.NewReservationHandler(reservations, facilities, payments, users)
    paymentH := handler.NewPaymentHandler(payments, reservations, facilities)

    e := echo.New()
    e.HideBanner = true

    // Redis backs the response cache and the rate limiter.  When the
    // client is nil both middlewares pass requests through untouched.
    rdb := config.NewRedisClient()
    rlCfg := config.LoadRateLimitConfig()
    if rlCfg.Enabled {
        e.Use(middleware.NewTokenBucket(rlCfg, rdb))
    }
    cacheCfg := config.LoadCacheConfig()
    var publicMW []echo.MiddlewareFunc
    if cacheCfg.Enabled {
        publicMW = append(publicMW, middleware.NewRedisCache(cacheCfg, rdb))
    }

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, facilityH, publicMW...)
    router.RegisterAPI(e, facilityH, reservationH, paymentH, cfg.JWTSecret)

    // Confirmation consumer runs for the life of the process and
    // reconnects on broker failures.
    go func() {
        if err := queue.StartReservationConsumer(); err != nil {
            log.Printf("reservation consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
