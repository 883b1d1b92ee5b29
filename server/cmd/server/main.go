package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/omegasovereign/omega/server/internal/api"
	"github.com/omegasovereign/omega/server/internal/config"
	"github.com/omegasovereign/omega/server/internal/metrics"
	"github.com/omegasovereign/omega/server/internal/pulse"
	"github.com/omegasovereign/omega/server/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	watch := flag.Bool("watch", true, "reload CORS origins and log level when the config file changes")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("omega-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := cfg.LoadEnv(*configPath); err != nil {
		slog.Error("failed to load env file", "err", err)
		os.Exit(1)
	}
	level.Set(parseLevel(cfg.Server.LogLevel))

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"log_level", cfg.Server.LogLevel,
		"cors_origins", cfg.Server.CORS.AllowedOrigins,
		"pulse_interval", cfg.Server.Pulse.Interval,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	reporter := telemetry.NewReporter(telemetry.Host{}, cfg.Server.Telemetry.HostTimeout)
	cors := api.NewCORS(cfg.Server.CORS.AllowedOrigins)

	// Pulse hub streams a telemetry sample to WebSocket clients every interval.
	hub := pulse.New(reporter, cfg.Server.Pulse.Interval, m.SetPulseClients)
	go hub.Run(ctx)

	if *watch {
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				cors.SetOrigins(next.Server.CORS.AllowedOrigins)
				level.Set(parseLevel(next.Server.LogLevel))
				slog.Info("config applied",
					"cors_origins", next.Server.CORS.AllowedOrigins,
					"log_level", next.Server.LogLevel)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	httpMux := http.NewServeMux()
	telemetryRoutes := api.New(reporter, m)
	httpMux.Handle("/telemetry", telemetryRoutes)
	httpMux.Handle("/telemetry/", telemetryRoutes)
	httpMux.Handle("/warfare/", telemetryRoutes)
	httpMux.Handle("/metrics", m.Handler())
	httpMux.Handle("/ws/pulse", hub)

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           cors.Wrap(httpMux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("omega-server shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}

// parseLevel maps a validated config level name to a slog.Level.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
