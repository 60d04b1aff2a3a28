package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/akazakov/shop-backend/internal/auth"
	"github.com/akazakov/shop-backend/internal/config"
	"github.com/akazakov/shop-backend/internal/repository"
	"github.com/akazakov/shop-backend/internal/service"
	httptransport "github.com/akazakov/shop-backend/internal/transport/http"
	"github.com/akazakov/shop-backend/internal/transport/http/handler"
	"github.com/akazakov/shop-backend/pkg/db"
	"github.com/akazakov/shop-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "shop-backend")
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("Error creating new postgres DB: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("shop backend started!")

	tokens, err := auth.NewTokenManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	if err != nil {
		log.Fatalf("Error creating token manager: %v", err)
	}

	userRepository := repository.NewUserRepository(pool, logger)
	categoryRepository := repository.NewCategoryRepository(pool, logger)
	productRepository := repository.NewProductRepository(pool, logger)

	userService := service.NewUserService(userRepository, tokens, pool, logger)
	categoryService := service.NewCategoryService(categoryRepository, productRepository, pool, logger)
	productService := service.NewProductService(productRepository, categoryRepository, pool, logger)
	cachedProductService := service.NewCachedProductService(productService, rdb, cfg.Redis.CacheTTL)

	app := fiber.New()

	app.Use(otelfiber.Middleware())

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 5 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Try again later.",
			})
		},
	}))

	handlers := &httptransport.Handlers{
		Auth:     handler.NewAuthHandler(userService, logger),
		User:     handler.NewUserHandler(userService, logger),
		Category: handler.NewCategoryHandler(categoryService, cachedProductService, logger),
		Product:  handler.NewProductHandler(cachedProductService, logger),
	}

	httptransport.RegisterRoutes(app, handlers, tokens)

	go func() {
		log.Println("HTTP service listening on: " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	} else {
		log.Println("Stopped HTTP server successfully")
	}

	pool.Close()
	log.Println("Closed db pool successfully")

	if err := rdb.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error stopping telemetry: %v\n", err)
	} else {
		log.Println("Telemetry closed correctly")
	}
}
