package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nexus-chat/internal/config"
	"nexus-chat/internal/handlers"
	"nexus-chat/internal/metrics"
	"nexus-chat/internal/router"
	"nexus-chat/internal/services"
	"nexus-chat/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("✗ %v", err)
	}
}

// run owns every resource so deferred cleanup happens on all exit paths.
func run() error {
	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	// ──── Step 2: Logging & Telemetry ────
	logger, closeLog, err := telemetry.InitLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	defer closeLog()
	logger.Info("starting nexus chat proxy", "env", cfg.Env)

	tracer, meter, shutdownTelemetry, err := telemetry.InitTelemetry(context.Background(), cfg.LogDir)
	if err != nil {
		return fmt.Errorf("telemetry initialization failed: %w", err)
	}
	defer shutdownTelemetry()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// ──── Step 3: Initialize Gemini Generator ────
	var generator services.Generator
	switch cfg.GeminiTransport {
	case "sdk":
		generator = services.NewGeminiSDK(cfg.GeminiModel)
	case "rest":
		generator = services.NewGeminiREST(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.UpstreamTimeout)
	default:
		return fmt.Errorf("unknown GEMINI_TRANSPORT %q (want rest or sdk)", cfg.GeminiTransport)
	}

	instrumented, err := services.Instrument(generator, cfg.GeminiTransport, tracer, meter)
	if err != nil {
		return fmt.Errorf("gemini instrumentation failed: %w", err)
	}
	if config.APIKey() == "" {
		logger.Warn(config.APIKeyEnv + " environment variable is not set; chat requests will fail until it is")
	}
	logger.Info("Gemini generator ready", "transport", cfg.GeminiTransport, "model", cfg.GeminiModel)

	// ──── Step 4: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(instrumented, config.APIKey, cfg.UpstreamTimeout, collector, logger)
	r := router.New(chatHandler, collector.Handler(), cfg.CORSOrigin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	logger.Info("nexus chat proxy ready", "addr", "http://localhost:"+cfg.Port, "endpoint", "/api/chat")
	return serve(server, ln, sigChan, 30*time.Second, logger)
}

// serve runs server on ln until stop fires, then waits up to grace for
// in-flight requests before returning.
func serve(server *http.Server, ln net.Listener, stop <-chan os.Signal, grace time.Duration, logger *slog.Logger) error {
	drained := make(chan error, 1)
	go func() {
		<-stop
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		drained <- server.Shutdown(ctx)
	}()

	if err := server.Serve(ln); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	if err := <-drained; err != nil {
		logger.Error("shutdown did not finish cleanly", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
