package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/moviestack/movie-catalog/internal/config"
	"github.com/moviestack/movie-catalog/internal/database"
	"github.com/moviestack/movie-catalog/internal/handler"
	"github.com/moviestack/movie-catalog/internal/middleware"
	"github.com/moviestack/movie-catalog/internal/queue"
	"github.com/moviestack/movie-catalog/internal/repository"
	"github.com/moviestack/movie-catalog/internal/router"
	queue_publisher "github.com/moviestack/movie-catalog/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	client, db, err := database.Open(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		log.Fatalf("ensure indexes failed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and token revocation disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(rdb)
	events := queue_publisher.New()

	h := router.Handlers{
		Movies:    handler.NewMovieHandler(repository.NewMovieRepo(db), events),
		Genres:    handler.NewTermHandler(repository.NewTermRepo(db, "genre"), events, "genre"),
		Directors: handler.NewTermHandler(repository.NewTermRepo(db, "director"), events, "director"),
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
	}

	e := echo.New()
	e.Use(middleware.Identity(cfg.JWTSecret, users, tokens))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	router.RegisterRoutes(e, h)

	go func() {
		if err := queue.StartCatalogConsumer(); err != nil {
			log.Printf("catalog consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
