package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/bienesraices/bienesraices-go/internal/config"
	"github.com/bienesraices/bienesraices-go/internal/db"
	"github.com/bienesraices/bienesraices-go/internal/mailer"
	"github.com/bienesraices/bienesraices-go/internal/server"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	conn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	if *migrateOnlyFlag {
		slog.Info("migrations completed; exiting as requested")
		return
	}
	if err := db.SeedLookups(conn); err != nil {
		slog.Error("seed lookups failed", "error", err)
		os.Exit(1)
	}

	mail := mailer.NewService(mailer.LogMailer{}, "http://localhost:"+cfg.Port)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.New(conn, cfg, mail),
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	slog.Info("server stopped")
}
