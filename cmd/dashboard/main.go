// cmd/dashboard/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hasithasandunlakshan/inventory-console/internal/analytics"
	"github.com/hasithasandunlakshan/inventory-console/internal/api"
	"github.com/hasithasandunlakshan/inventory-console/internal/api/handlers"
	"github.com/hasithasandunlakshan/inventory-console/internal/auth"
	"github.com/hasithasandunlakshan/inventory-console/internal/cache"
	"github.com/hasithasandunlakshan/inventory-console/internal/client"
	"github.com/hasithasandunlakshan/inventory-console/internal/config"
	"github.com/hasithasandunlakshan/inventory-console/internal/repository"
	"github.com/hasithasandunlakshan/inventory-console/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens := auth.NewTokenStore(cfg.Auth.TokenFile)
	orderClient := client.New(cfg.Services.OrderURL, cfg.HTTP.Timeout, tokens)
	supplierClient := client.New(cfg.Services.SupplierURL, cfg.HTTP.Timeout, tokens)

	orderRepo := repository.NewHTTPPORepository(orderClient)
	supplierRepo := repository.NewHTTPSupplierRepository(supplierClient)
	aggregator := analytics.NewAggregator(orderRepo, supplierRepo)

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to initialize report cache")
	}

	router := api.NewRouter(handlers.NewReportHandler(aggregator, reportCache), cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("starting dashboard server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("shutting down dashboard server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("server forced to shutdown")
	}
}
