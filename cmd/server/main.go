package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/saeid-a/CoachLogBack/internal/config"
	"github.com/saeid-a/CoachLogBack/internal/database"
	"github.com/saeid-a/CoachLogBack/internal/middleware"
	"github.com/saeid-a/CoachLogBack/internal/routes"
	notifyws "github.com/saeid-a/CoachLogBack/internal/websocket"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Connect to Database and Redis
	db, err := database.ConnectPostgres(context.Background(), cfg.DBUrl, log.Default())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient := database.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, log.Default())
	if redisClient != nil {
		defer redisClient.Close()
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := notifyws.NewHub(log.Default())
	go hub.Run(hubCtx)

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(middleware.NewAccessLogMiddleware(log.Default()).Middleware())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	if err := routes.RegisterRoutes(app, cfg, db, redisClient, hub); err != nil {
		log.Fatalf("Failed to register routes: %v", err)
	}

	// 4. Start Server
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("Server failed to start: %v", err)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}
}
