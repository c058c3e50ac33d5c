package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"procurehub/store-portal/store-portal-backend/internal/config"
	"procurehub/store-portal/store-portal-backend/internal/procurement"
	"procurehub/store-portal/store-portal-backend/internal/reports"
	"procurehub/store-portal/store-portal-backend/pkg/staging"
)

// The workers binary runs scheduled jobs: dashboard snapshots every five
// minutes and a nightly prune of old snapshot rows.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found")
	}

	cfg, err := config.LoadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	registry := procurement.NewRegistry()
	engine := staging.NewEngine(registry, staging.SystemClock{}, nil, staging.Kolkata())
	board := procurement.NewService(procurement.NewPostgresRepository(db, registry), engine, nil, logger)
	dashboard := reports.NewService(board, db, 5*time.Minute, logger)

	scheduler := cron.New(cron.WithLocation(staging.Kolkata()))

	_, err = scheduler.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := dashboard.SaveSnapshots(ctx); err != nil {
			logger.Error("snapshot job failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule snapshot job", zap.Error(err))
	}

	_, err = scheduler.AddFunc("30 2 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		res, err := db.ExecContext(ctx,
			`DELETE FROM dashboard_snapshots WHERE computed_at < NOW() - INTERVAL '90 days'`)
		if err != nil {
			logger.Error("snapshot prune failed", zap.Error(err))
			return
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			logger.Info("old snapshots pruned", zap.Int64("rows", n))
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule prune job", zap.Error(err))
	}

	scheduler.Start()
	logger.Info("workers started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("stopping workers")
	ctx := scheduler.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		logger.Warn("jobs still running at shutdown deadline")
	}
	logger.Info("workers exited")
}
