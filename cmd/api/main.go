package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lazarnikolic5396/Razmenime/internal/api"
	"github.com/lazarnikolic5396/Razmenime/internal/auth"
	"github.com/lazarnikolic5396/Razmenime/internal/cache"
	"github.com/lazarnikolic5396/Razmenime/internal/config"
	"github.com/lazarnikolic5396/Razmenime/internal/events"
	"github.com/lazarnikolic5396/Razmenime/internal/handlers"
	"github.com/lazarnikolic5396/Razmenime/internal/logger"
	"github.com/lazarnikolic5396/Razmenime/internal/repository"
	"github.com/lazarnikolic5396/Razmenime/internal/services"
	"github.com/lazarnikolic5396/Razmenime/internal/storage"
	"github.com/lazarnikolic5396/Razmenime/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logg, err := logger.New(logger.Config{
		Development: cfg.App.Env != "production",
		Level:       cfg.Log.Level,
	})
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logg.Sync()

	ctx := context.Background()

	mc, err := repository.NewMongoClient(cfg.Mongo.URI)
	if err != nil {
		logg.Fatalw("mongo init", "err", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()

	db := mc.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		logg.Fatalw("mongo indexes", "err", err)
	}

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		logg.Fatalw("redis init", "err", err)
	}
	defer rdb.Close()

	s3store, err := storage.NewS3Store(ctx, cfg.AWS.Region, cfg.AWS.Endpoint, cfg.Storage.PublicRead, logg)
	if err != nil {
		logg.Fatalw("s3 init", "err", err)
	}

	var publisher *events.Publisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
	}

	// repositories
	profiles := repository.NewProfileRepository(db)
	ads := repository.NewAdRepository(db)
	conversations := repository.NewConversationRepository(db)
	messages := repository.NewMessageRepository(db)
	requests := repository.NewRequestRepository(db)
	catalog := repository.NewCatalogRepository(db)

	// services
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL)
	hub := ws.NewHub()
	unread := cache.NewUnreadCounts(rdb)

	accountSvc := services.NewAccountService(profiles, catalog, tokens, logg)
	adSvc := services.NewAdService(ads, logg)
	var eventSink services.EventPublisher
	if publisher != nil {
		eventSink = publisher
	}
	messageSvc := services.NewMessageService(conversations, messages, profiles, hub, eventSink, unread, logg)
	contactSvc := services.NewContactService(conversations, requests, ads, messageSvc, logg)
	donationSvc := services.NewDonationService(requests, profiles, logg)
	moderationSvc := services.NewModerationService(profiles, ads, cfg.Admin.ServiceToken, logg)
	mediaSvc := services.NewMediaService(s3store, services.MediaBuckets{
		AdImages:      cfg.Storage.AdImagesBucket,
		ChatImages:    cfg.Storage.ChatImagesBucket,
		ProfileImages: cfg.Storage.ProfileImagesBucket,
	}, cfg.PresignTTL, logg)

	app := api.NewServer(api.Deps{
		Config:   cfg,
		Tokens:   tokens,
		Profiles: profiles,
		Redis:    rdb,
		Auth:     handlers.NewAuthHandler(accountSvc, cfg.TokenTTL),
		Ads:      handlers.NewAdsHandler(adSvc),
		Chat:     handlers.NewChatHandler(messageSvc, contactSvc, hub, logg),
		Requests: handlers.NewRequestsHandler(donationSvc),
		Admin:    handlers.NewAdminHandler(moderationSvc),
		Media:    handlers.NewMediaHandler(mediaSvc),
		Catalog:  handlers.NewCatalogHandler(services.NewCatalogService(catalog, ads)),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		if err := app.Listen(addr); err != nil {
			logg.Fatalw("server listen", "err", err)
		}
	}()
	logg.Infow("api started", "port", cfg.App.Port, "env", cfg.App.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("shutdown", "err", err)
	}
	logg.Infow("api stopped")
}
