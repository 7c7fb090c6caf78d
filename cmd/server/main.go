package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/storewise/sales-service/internal/adapter/handler"
	"github.com/storewise/sales-service/internal/adapter/storage"
	"github.com/storewise/sales-service/internal/config"
	"github.com/storewise/sales-service/internal/core/service"
	"github.com/storewise/sales-service/internal/obs"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()

	// Relational store: one process-wide pool, bounded.
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		obs.Logger.Error("mysql_open_failed", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	err = db.PingContext(pingCtx)
	pingCancel()
	if err != nil {
		obs.Logger.Error("mysql_ping_failed", "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("mysql_connected", "max_open_conns", cfg.MaxOpenConns)

	// Document mirror.
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, pingCancel = context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	err = rdb.Ping(pingCtx).Err()
	pingCancel()
	if err != nil {
		obs.Logger.Error("redis_ping_failed", "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("redis_connected", "addr", cfg.RedisAddr)

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)
	saleService := service.NewSaleService(mysqlAdapter, mysqlAdapter)

	h := handler.NewHTTPHandler(saleService, mysqlAdapter, redisAdapter)
	mux := handler.NewRouter(h)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.WithRequestID(handler.WithLogging(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	obs.Logger.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}

	rdb.Close()
	db.Close()
	obs.Logger.Info("stopped")
}
