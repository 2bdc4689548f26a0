package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/trmnl-departures/internal/adapters/entur"
	"github.com/samirrijal/trmnl-departures/internal/adapters/http"
	natsadapter "github.com/samirrijal/trmnl-departures/internal/adapters/nats"
	"github.com/samirrijal/trmnl-departures/internal/adapters/valkey"
	"github.com/samirrijal/trmnl-departures/internal/core/ports"
	"github.com/samirrijal/trmnl-departures/internal/core/usecases"
	"github.com/samirrijal/trmnl-departures/internal/pkg/config"
	"github.com/samirrijal/trmnl-departures/internal/pkg/logging"
	"github.com/samirrijal/trmnl-departures/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("trmnl-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Journey planner
	client, err := entur.NewClient(entur.Config{
		URL:        cfg.Entur.URL,
		ClientName: cfg.Entur.ClientName,
		Contact:    cfg.Entur.Contact,
		Timeout:    time.Duration(cfg.Entur.Timeout) * time.Second,
	})
	if err != nil {
		log.Fatalf("entur client: %v", err)
	}

	deps := &http.Dependencies{
		Secret: cfg.Auth.Secret,
		Limits: http.BoardLimits{
			MaxWindow:     cfg.Board.MaxWindow,
			MaxFetchLimit: cfg.Board.MaxFetchLimit,
		},
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		RateLimit:      cfg.Server.RateLimit,
	}

	// Board events (optional)
	var publisher ports.EventPublisher
	if cfg.NATS.URL != "" {
		events, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, board events disabled", "error", err)
		} else {
			defer events.Close()
			publisher = events
			deps.Events = events
		}
	}

	// Shared rate limit counters (optional)
	if cfg.Valkey.Addr != "" {
		store, err := valkey.New(cfg.Valkey.Addr, "trmnl:limiter:")
		if err != nil {
			slog.Warn("valkey unavailable, rate limits kept in memory", "error", err)
		} else {
			defer store.Close()
			deps.Valkey = store
			deps.LimiterStorage = store
		}
	}

	deps.Board = usecases.NewBoardService(client, publisher, usecases.BoardDefaults{
		StopID:        cfg.Board.DefaultStop,
		WindowMinutes: cfg.Board.WindowMinutes,
		LeadMinutes:   cfg.Board.LeadMinutes,
		FetchLimit:    cfg.Board.FetchLimit,
	})

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "trmnl departures",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "default_stop", cfg.Board.DefaultStop)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
