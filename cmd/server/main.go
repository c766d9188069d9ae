package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ldhng/retail-backoffice/internal/adapter/gateway"
	"github.com/ldhng/retail-backoffice/internal/adapter/handler"
	"github.com/ldhng/retail-backoffice/internal/adapter/sessioncache"
	"github.com/ldhng/retail-backoffice/internal/config"
	"github.com/ldhng/retail-backoffice/internal/core/service"
	"github.com/ldhng/retail-backoffice/internal/core/state"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis (invalidated sessions + presence)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connect failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

	// Adapters
	cache := sessioncache.NewRedisAdapter(rdb)
	gw := gateway.New(cfg.BackendBaseURL, cfg.BackendTimeout, log)

	// Core
	store := state.New()
	sessions := service.NewSessionService(store, gw, cache, log,
		cfg.LivenessPollInterval, cfg.ActivityPingInterval, cfg.LogoutGrace)
	api := &handler.API{
		Store:     store,
		Sessions:  sessions,
		Checkout:  service.NewCheckoutService(store, gw, log),
		Inventory: service.NewInventoryService(store, gw, log),
		Orders:    service.NewOrderService(store, gw, log),
		Discounts: service.NewDiscountService(store, gw, log),
		Inquiries: service.NewInquiryService(store, gw, log),
		Backups:   service.NewBackupService(store, gw, log),
		Cache:     cache,
		Log:       log,
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Router()}
	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	sessions.Close()
	_ = rdb.Close()
	log.Info("stopped")
}
