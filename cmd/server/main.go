package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/chat-transcript/internal/app"
	"github.com/nguyentantai21042004/chat-transcript/internal/config"
	"github.com/nguyentantai21042004/chat-transcript/internal/httpserver"
	"github.com/nguyentantai21042004/chat-transcript/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.EnsureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	proc, err := app.NewProcessor(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize processor: %v", err)
		os.Exit(1)
	}

	srv := httpserver.New(cfg.Server, proc, log)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error(ctx, "HTTP server error: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Server stopped")
}
