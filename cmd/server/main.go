package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"persona-orchestrator/internal/di"
	"persona-orchestrator/internal/infra/config"
	"persona-orchestrator/internal/infra/logger"
)

func main() {
	// 1. Load .env (optional; real deployments set the environment directly)
	_ = godotenv.Load()

	// 2. Load Config
	cfg := config.Load()

	// 3. Initialize Logger
	log := logger.New()
	slog.SetDefault(log)

	// 4. Wire Components
	ctx := context.Background()
	components, err := di.NewApplicationComponents(ctx, cfg, log)
	if err != nil {
		log.Error("failed to wire components", "error", err)
		os.Exit(1)
	}
	defer components.Close()

	// 5. Warm topic indexes in the background; questions for unwarmed
	// products build their index lazily.
	go components.Warmer.Run(ctx)

	// 6. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// 7. Register Handlers
	components.Handler.Register(e)

	// 8. Start Server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info("starting_server", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()

	// 9. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
