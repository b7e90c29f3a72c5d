package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Brownie44l1/cxr-api/internal/client"
	"github.com/Brownie44l1/cxr-api/internal/config"
	"github.com/Brownie44l1/cxr-api/internal/logging"
	"github.com/Brownie44l1/cxr-api/internal/server"
	"github.com/Brownie44l1/cxr-api/internal/web"
)

const sweepInterval = time.Minute

func main() {
	cfg, err := config.Load("web", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.New(cfg.DebugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	api := client.New(cfg.APIURL, &http.Client{Timeout: cfg.APITimeout}, logger)
	store := web.NewSessionStore(cfg.SessionTTL, func() *client.Session {
		return client.NewSession(api, logger)
	})
	handler := web.NewHandler(store, web.Templates, logger, cfg.MaxUploadBytes())

	srv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
		ErrorLog:          zap.NewStdLog(logger.Desugar()),
	}

	logger.Infow("Web front end starting",
		"port", cfg.WebPort,
		"api_url", cfg.APIURL,
		"api_timeout", cfg.APITimeout,
		"session_ttl", cfg.SessionTTL,
	)
	logger.Infof("Open http://localhost:%s in a browser", cfg.WebPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweep := func(ctx context.Context) error {
		return store.Sweep(ctx, sweepInterval)
	}
	if err := server.Run(ctx, srv, logger, sweep); err != nil {
		logger.Errorw("Server failed", "error", err)
		os.Exit(1)
	}
}
