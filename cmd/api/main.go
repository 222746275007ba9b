package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/inverland/estate-crm/internal/api"
	"github.com/inverland/estate-crm/internal/api/handler"
	"github.com/inverland/estate-crm/internal/core/service"
	mongodb "github.com/inverland/estate-crm/internal/infrastructure/db/mongo"
	redisdb "github.com/inverland/estate-crm/internal/infrastructure/db/redis"
	"github.com/inverland/estate-crm/internal/infrastructure/mail"
	"github.com/inverland/estate-crm/internal/infrastructure/queue"
	"github.com/inverland/estate-crm/internal/pkg/config"
	"github.com/inverland/estate-crm/internal/pkg/idgen"
	"github.com/inverland/estate-crm/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           Inverland Estate CRM API
// @version         1.0
// @description     Property listings, client pipeline and marketing campaigns.
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == service.EnvDevelopment,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories and stores ---
	userRepo := mongodb.NewUserRepository(db)
	propertyRepo := mongodb.NewPropertyRepository(db)
	clientRepo := mongodb.NewClientRepository(db)
	campaignRepo := mongodb.NewCampaignRepository(db)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		propertyRepo.EnsureIndexes,
		clientRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	snapshots := redisdb.NewSnapshotStore(rdb, log)
	sessions := redisdb.NewSessionStore(rdb)
	ids := idgen.NewUUID()

	// --- Outbound mail ---
	mailer := mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From)
	dispatcher := queue.NewDispatcher(cfg.MailWorkers, mailer, log)
	dispatcher.Start(ctx)

	// --- Services ---
	properties := service.NewPropertyService(propertyRepo, snapshots, ids, log)
	clients := service.NewClientService(clientRepo, snapshots, ids, log)
	campaigns := service.NewCampaignService(campaignRepo, snapshots, ids, clients, dispatcher, log)
	users := service.NewUserService(userRepo, snapshots, sessions, ids, properties, clients, cfg.Env, log)
	auth := service.NewAuthService(users, sessions, cfg.JWTSecret, 24*time.Hour, log)

	for name, bootstrap := range map[string]func(context.Context) error{
		"users":      users.Bootstrap,
		"properties": properties.Bootstrap,
		"clients":    clients.Bootstrap,
		"campaigns":  campaigns.Bootstrap,
	} {
		if err := bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("bootstrap failed")
		}
	}

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
		Auth:       handler.NewAuthHandler(auth, users),
		Users:      handler.NewUserHandler(users),
		Properties: handler.NewPropertyHandler(properties),
		Clients:    handler.NewClientHandler(clients),
		Campaigns:  handler.NewCampaignHandler(campaigns),
		Health:     handler.NewHealthHandler(db, rdb),
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("estate-crm listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
