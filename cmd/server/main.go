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

	"github.com/Brownie44l1/cxr-api/internal/config"
	"github.com/Brownie44l1/cxr-api/internal/handlers"
	"github.com/Brownie44l1/cxr-api/internal/logging"
	"github.com/Brownie44l1/cxr-api/internal/model"
	"github.com/Brownie44l1/cxr-api/internal/server"
)

func main() {
	cfg, err := config.Load("server", os.Args[1:])
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

	predictor := model.NewMockPredictor(cfg.MockResult())
	handler := handlers.NewHandler(predictor, logger, cfg.MaxUploadBytes())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
		ErrorLog:          zap.NewStdLog(logger.Desugar()),
	}

	logger.Infow("Server starting", "port", cfg.Port, "predictor", "mock", "max_upload_mb", cfg.MaxUploadSizeMB)
	logger.Info("Endpoints:")
	logger.Info("  GET  /health  - Health check")
	logger.Info("  POST /predict - Predict from image upload (field \"image\")")
	logger.Infof("Upload test: curl -X POST -F \"image=@xray.png\" http://localhost:%s/predict", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, srv, logger); err != nil {
		logger.Errorw("Server failed", "error", err)
		os.Exit(1)
	}
}
