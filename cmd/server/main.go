package main // Entry point package

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/avelarde/gymcore/internal/access"
	"github.com/avelarde/gymcore/internal/config"
	"github.com/avelarde/gymcore/internal/database"
	"github.com/avelarde/gymcore/internal/handler"
	"github.com/avelarde/gymcore/internal/queue"
	"github.com/avelarde/gymcore/internal/repository"
	"github.com/avelarde/gymcore/internal/router"
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env wins

	cfg := config.Load()
	if cfg.Env == "dev" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables rate limiting and caching

	users := repository.NewUserRepo(db)
	centers := repository.NewCenterRepo(db)
	memberships := repository.NewMembershipRepo(db)
	slots := repository.NewScheduleRepo(db)
	blackouts := repository.NewBlackoutRepo(db)
	reservations := repository.NewReservationRepo(db)

	acc := access.New(access.SQLDirectory{
		Users:       users,
		Memberships: memberships,
		Centers:     centers,
	}, cfg.FleetCenterID)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(users, cfg), cfg.JWTSecret)
	router.RegisterAPI(e, &router.API{
		Centers:      handler.NewCenterHandler(acc, users, centers, memberships),
		Memberships:  handler.NewMembershipHandler(acc, users, memberships),
		Slots:        handler.NewScheduleHandler(acc, slots, &cfg),
		Blackouts:    handler.NewBlackoutHandler(acc, blackouts),
		Reservations: handler.NewReservationHandler(acc, centers, slots, blackouts, reservations),
	}, &cfg, rdb)

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Warn().Err(err).Msg("reservation consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
