// Package main runs shelfd, the demo catalog API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/logging"
	"github.com/five82/shelf/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override shelf config path (optional)")
	datasetPath := flag.String("dataset", "", "YAML dataset to serve (optional)")
	listen := flag.String("listen", "", "listen address (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shelfd: load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Server.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "shelfd: init logger: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	data, err := loadDataset(*datasetPath, cfg.Server.Dataset)
	if err != nil {
		logger.Error("failed to load dataset", zap.Error(err))
		return 1
	}

	opts := server.Options{
		Listen:         cfg.Server.Listen,
		Latency:        cfg.Server.Latency,
		Jitter:         cfg.Server.Jitter,
		FailureRate:    cfg.Server.FailureRate,
		MetricsEnabled: cfg.Server.Metrics,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	}
	if addr := strings.TrimSpace(*listen); addr != "" {
		opts.Listen = addr
	}

	srv, err := server.New(opts, logger, data)
	if err != nil {
		logger.Error("failed to create server", zap.Error(err))
		return 1
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return 1
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

func loadDataset(flagPath, configPath string) (catalog.Dataset, error) {
	for _, path := range []string{flagPath, configPath} {
		if strings.TrimSpace(path) != "" {
			return catalog.LoadDataset(path)
		}
	}
	return catalog.Builtin(), nil
}
