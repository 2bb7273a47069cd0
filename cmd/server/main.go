package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal"
	api "github.com/hrcadm/sleeptracker/internal/api"
	"github.com/hrcadm/sleeptracker/internal/config"
	"github.com/hrcadm/sleeptracker/internal/service"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "path to a config file (default: ./sleeptracker.yaml if present)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	store, err := service.NewSleepStore(ctx, repo, logger)
	if err != nil {
		logger.Fatalf("failed to load sleep store: %v", err)
	}
	defer store.Close()

	metrics := api.NewMetrics()
	router := api.NewRouter(api.NewApp(store, logger, metrics))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("server running on %s (storage=%s)", cfg.HTTPAddr, cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("failed to start server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
