package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firebase-web/internal/di"
	sharederrors "firebase-web/internal/shared/errors"
	"firebase-web/internal/shared/logger"
	"firebase-web/internal/web"
	httpadapter "firebase-web/internal/web/adapter/http"
	"firebase-web/internal/web/config"

	"github.com/caarlos0/env/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"localhost"`
	Port string `env:"SERVER_PORT" envDefault:"3000"`
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	serverCfg := &ServerConfig{}
	if err := env.Parse(serverCfg); err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	appLogger := logger.NewLogger()

	webCfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load web configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeSample(); err != nil {
		log.Fatalf("Failed to initialize sample application: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := container.InitializeWeb(ctx, webCfg); err != nil {
		log.Fatalf("Failed to initialize web module: %v", err)
	}
	if err := container.HealthCheck(ctx); err != nil {
		log.Fatalf("Database is not reachable: %v", err)
	}
	appLogger.Infof("Web module initialized on the %s backend", webCfg.Backend)

	app := fiber.New(fiber.Config{
		AppName:      "Firebase Web Bridge",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := sharederrors.HTTPStatus(err)
			var fiberErr *fiber.Error
			if sharederrors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
			if status >= fiber.StatusInternalServerError {
				appLogger.Errorf("HTTP Error: %v", err)
			}
			return c.Status(status).JSON(fiber.Map{
				"error":   "Request failed",
				"message": err.Error(),
				"code":    status,
			})
		},
	})

	app.Use(recover.New())
	app.Use(httpadapter.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " +
			httpadapter.HeaderTenantDomain + ", " + httpadapter.HeaderTenantEmail + ", " +
			httpadapter.HeaderTenantValue + ", " + httpadapter.HeaderActor,
	}))

	webModule, err := di.GetService[*web.WebModule](container)
	if err != nil {
		log.Fatalf("Failed to resolve web module: %v", err)
	}
	webModule.RegisterRoutes(app)
	webModule.StartSubscriptionSweeper()

	serverAddr := fmt.Sprintf("%s:%s", serverCfg.Host, serverCfg.Port)
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	// Start server in a goroutine for graceful shutdown
	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed to start: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
