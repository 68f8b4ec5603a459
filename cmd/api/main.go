package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JoachimHamraoui/bibliomania/internal/config"
	"github.com/JoachimHamraoui/bibliomania/internal/container"
	"github.com/JoachimHamraoui/bibliomania/internal/router"
	"github.com/JoachimHamraoui/bibliomania/internal/schema"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		logrus.WithError(err).Fatal("Database connection failed")
	}
	if cfg.AutoMigrate {
		if err := schema.Migrate(ctx, db); err != nil {
			logrus.WithError(err).Fatal("Schema migration failed")
		}
	}

	c, err := container.New(ctx, cfg, db)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to build application")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(router.RouterConfig{Container: c, CORSOrigins: cfg.CORSOrigins}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	logrus.WithField("port", cfg.Port).Info("Listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Fatal("Server stopped")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logrus.Info("Server closed")
}
