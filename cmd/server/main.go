package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamskills/skills-matrix-api/internal/api"
	"github.com/teamskills/skills-matrix-api/internal/core/service"
	"github.com/teamskills/skills-matrix-api/internal/infrastructure/config"
	mongodb "github.com/teamskills/skills-matrix-api/internal/infrastructure/db/mongo"
	redisdb "github.com/teamskills/skills-matrix-api/internal/infrastructure/db/redis"
	"github.com/teamskills/skills-matrix-api/internal/infrastructure/queue"
	"github.com/teamskills/skills-matrix-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	if err := mongodb.EnsureAllIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// Audit writer lifecycle is owned here: its workers stop with the
	// process context, after the HTTP server has drained.
	auditRepo := mongodb.NewAuditRepository(db)
	auditWriter := queue.NewAuditWriter(cfg.Audit.Workers, auditRepo, log)
	auditWriter.Start(ctx)
	auditService := service.NewAuditService(auditWriter, auditRepo, log)

	e := api.NewRouter(cfg, db, rdb, auditService, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
