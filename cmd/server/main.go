package main

import (
	"context"
	"time"

	"letsarc/internal/config"
	"letsarc/internal/handler"
	"letsarc/internal/httpserver"
	"letsarc/internal/repository"
	"letsarc/internal/service/clients"
	"letsarc/internal/service/project"
	"letsarc/pkg/db"
	"letsarc/pkg/logger"
	"letsarc/pkg/mq"
	redisclient "letsarc/pkg/redis"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	log.Info("Starting letsarc tracker...",
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
		zap.String("server_port", cfg.Server.Port),
	)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	// Repositories
	projectRepo := repository.NewProjectRepository(dbConn, log)

	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := projectRepo.EnsureSchema(schemaCtx); err != nil {
		cancel()
		log.Fatal("Failed to ensure schema", zap.Error(err))
	}
	cancel()

	// Redis (client directory cache)
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	// RabbitMQ publisher. Events are best-effort: the tracker runs without a
	// broker, it just stops emitting lifecycle events.
	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		publisher, err = mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Warn("Failed to init MQ publisher, events disabled", zap.Error(err))
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Services
	var events project.Publisher
	if publisher != nil {
		events = publisher
	}
	projectService := project.NewService(projectRepo, events, log)

	cacheTTL := time.Duration(cfg.Users.CacheTTLSecs) * time.Second
	directory := clients.NewDirectory(cfg.Users.BaseURL, rdb, cacheTTL, log)

	// Handlers
	projectHandler := handler.NewProjectHandler(projectService, log)
	clientHandler := handler.NewClientHandler(directory, log)

	// Router
	var probe httpserver.Publisher
	if publisher != nil {
		probe = publisher
	}
	router := httpserver.NewRouter(projectHandler, clientHandler, log, dbConn, probe)

	log.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
