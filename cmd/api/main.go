package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/patelfin/lendbook/pkg/config"
	"github.com/patelfin/lendbook/pkg/logger"
	"github.com/patelfin/lendbook/pkg/scheduler"
	"github.com/patelfin/lendbook/pkg/store"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	sqliteStore, err := store.NewSQLiteStore(cfg.DB.Path)
	if err != nil {
		baseLogger.Fatal("failed to initialize sqlite store", zap.Error(err))
	}
	defer sqliteStore.Close()
	baseLogger.Info("database connection established", zap.String("path", cfg.DB.Path))

	server := NewServer(sqliteStore, baseLogger.Named("api"))
	server.ledger.SetInitialCapital(cfg.Ledger.InitialCapital)
	if err := server.ledger.Reload(); err != nil {
		baseLogger.Fatal("failed to load initial data", zap.Error(err))
	}

	sched := scheduler.NewScheduler(server.ledger, baseLogger.Named("scheduler"))
	if err := sched.Start(cfg.Ledger.RevalueSchedule); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.routes(),
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		baseLogger.Error("server shutdown failed", zap.Error(err))
	}
	baseLogger.Info("server stopped")
}
