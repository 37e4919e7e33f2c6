package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/user-session-service/internal/config"
	"github.com/iliyamo/user-session-service/internal/database"
	"github.com/iliyamo/user-session-service/internal/handler"
	"github.com/iliyamo/user-session-service/internal/middleware"
	"github.com/iliyamo/user-session-service/internal/queue"
	"github.com/iliyamo/user-session-service/internal/repository"
	"github.com/iliyamo/user-session-service/internal/router"
	"github.com/iliyamo/user-session-service/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	auth := service.NewAuth(
		repository.NewUserRepo(db),
		repository.NewSessionRepo(db),
		cfg.BcryptCost,
		time.Duration(cfg.SessionTTLHours)*time.Hour,
	)
	h := handler.NewAuthHandler(cfg, auth, queue.NewPublisher())

	// audit trail consumer; reconnects on its own and never takes the API down
	go func() {
		if err := queue.StartAuthEventConsumer(); err != nil {
			log.Printf("auth event consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, h, middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
