package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/shopkit/cartkeeper/internal/cart"
	"github.com/shopkit/cartkeeper/internal/config"
	h "github.com/shopkit/cartkeeper/internal/http"
	"github.com/shopkit/cartkeeper/internal/store"
	"github.com/shopkit/cartkeeper/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service: "cartkeeper",
		Level:   cfg.LogLevel,
	})

	ctx := context.Background()

	st, cleanup, err := buildStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to set up store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	manager := cart.NewManager(st)
	handler := h.NewCartHandler(manager, log)
	router := h.NewRouter(handler, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	go func() {
		log.Info("cartkeeper listening", "addr", cfg.HTTPAddr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}

func buildStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		log.Info("connected to redis", "addr", cfg.RedisAddr)
		return store.NewRedis(client), func() { client.Close() }, nil

	case "mongo":
		db, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to mongodb", "uri", cfg.MongoURI)
		cleanup := func() {
			if err := db.Client().Disconnect(ctx); err != nil {
				log.Error("mongodb disconnect failed", "error", err)
			}
		}
		return store.NewMongo(db), cleanup, nil

	default:
		log.Info("using in-memory store, carts will not survive a restart")
		return store.NewMemory(), func() {}, nil
	}
}
