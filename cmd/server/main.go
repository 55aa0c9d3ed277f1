package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/alerts"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/api"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/config"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/events"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/ingest"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/observability"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/store"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/ws"
)

func main() {
	configPath := flag.String("config", "config/server.yaml", "path to config file")
	flag.Parse()

	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("cosmic-health-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"store_backend", cfg.Server.Store.Backend,
		"kafka_enabled", cfg.Server.Kafka.Enabled,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	metrics := observability.NewMetrics()

	st, err := openStore(ctx, cfg.Server.Store, logger)
	if err != nil {
		slog.Error("failed to open point store", "err", err)
		os.Exit(1)
	}

	// WebSocket hub — fans each ingested zone out to connected clients.
	hub := ws.New(logger, metrics, ws.Options{
		SendBuffer:   cfg.Server.Broadcast.SendBuffer,
		WriteTimeout: cfg.Server.Broadcast.WriteTimeout,
	})
	go hub.Run(ctx)

	// Alerts engine — evaluates rules on every ingested zone.
	alertEngine := alerts.New(cfg.Server.Alerts, metrics)

	sinks := []ingest.Broadcaster{hub, alertEngine}
	if cfg.Server.Kafka.Enabled {
		kafkaSink := events.NewKafkaSink(cfg.Server.Kafka, logger, metrics)
		defer kafkaSink.Close() //nolint:errcheck
		sinks = append(sinks, kafkaSink)
		slog.Info("kafka sink enabled",
			"brokers", cfg.Server.Kafka.Brokers, "topic", cfg.Server.Kafka.Topic)
	}

	coord := ingest.New(st, logger, metrics, sinks...)

	// Hot reload of alert rules on config file changes.
	go func() {
		err := config.Watch(ctx, *configPath, func(c *config.Config) {
			alertEngine.UpdateRules(c.Server.Alerts)
			slog.Info("alert rules reloaded", "rules", len(c.Server.Alerts.Rules))
		})
		if err != nil {
			slog.Warn("config watch disabled", "err", err)
		}
	}()

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: api.NewRouter(coord, hub, alertEngine, cfg.Server.Auth, logger),
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("cosmic-health-server shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
	if closer, ok := st.(interface{ Close() }); ok {
		closer.Close()
	}
}

// openStore picks the persistence backend. "auto" uses Postgres when a
// database URL is configured and falls back to the seeded in-memory store
// otherwise, so the server always comes up.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ingest.PointStore, error) {
	url := cfg.DatabaseURL()

	if cfg.Backend == "postgres" || (cfg.Backend == "auto" && url != "") {
		pg, err := store.NewPostgres(ctx, url, logger)
		if err != nil {
			if cfg.Backend == "postgres" {
				return nil, err
			}
			slog.Warn("postgres unavailable, using in-memory store", "err", err)
		} else {
			slog.Info("using postgres point store")
			return pg, nil
		}
	}

	seed := store.DefaultFixtures()
	if cfg.Fixtures != "" {
		loaded, err := store.LoadFixtures(cfg.Fixtures)
		if err != nil {
			return nil, fmt.Errorf("load fixtures: %w", err)
		}
		seed = loaded
	}
	slog.Info("using in-memory point store", "seed_points", len(seed))
	return store.NewMemory(seed...), nil
}
