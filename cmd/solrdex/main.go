package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/config"
	logpkg "github.com/solrdex/solrdex/internal/logger"
	"github.com/solrdex/solrdex/internal/metrics"
	"github.com/solrdex/solrdex/internal/solr"
	chiTransport "github.com/solrdex/solrdex/internal/transport/chi"
	searchuc "github.com/solrdex/solrdex/internal/usecase/search"
	"github.com/solrdex/solrdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting solrdex gateway",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_base_url", cfg.Solr.BaseURL),
		zap.String("default_handler", cfg.Solr.DefaultHandler),
	)

	metrics.RegisterEngineMetrics()

	engine, err := solr.NewClient(
		cfg.Solr.BaseURL,
		solr.WithDefaultHandler(cfg.Solr.DefaultHandler),
		solr.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Solr.TimeoutSec) * time.Second,
		}),
		solr.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("Failed to create engine client", zap.Error(err))
	}

	ctx := context.Background()
	if err := engine.Ping(ctx); err != nil {
		// non-fatal: the engine may come up after us
		logger.Warn("Engine not reachable at startup", zap.Error(err))
	} else {
		logger.Info("Connected to search engine")
	}

	searchSvc := searchuc.New(engine, &cfg, logger)
	server := chiTransport.NewServer(searchSvc, engine, logger)

	r := chirouter.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())
	r.Handle("/metrics", promhttp.Handler())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
