package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogfront/api"
	"blogfront/config"
	"blogfront/logging"
	"blogfront/metrics"
	"blogfront/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "blogfront:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// ===== CONFIG =====
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting blog front", zap.String("api", cfg.APIBaseURL), zap.String("assets", cfg.AssetBaseURL))

	// ===== GIN MODE =====
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	logger.Info("gin mode", zap.String("mode", gin.Mode()))

	// ===== API CLIENT =====
	m := metrics.New()
	client, err := api.New(cfg.APIBaseURL,
		api.WithTransport(m.Transport(nil)),
		api.WithLogger(logger.Named("api")),
	)
	if err != nil {
		return err
	}

	// ===== ROUTER =====
	router, err := routes.SetupRouter(cfg, client, m, logger)
	if err != nil {
		return err
	}

	// ===== SERVER CONFIG =====
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// ===== GRACEFUL SHUTDOWN =====
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
