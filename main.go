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

	"cloud.google.com/go/pubsub"
	"golang.org/x/sync/errgroup"

	"social-hub/domain/repository"
	"social-hub/infrastructure/cache"
	"social-hub/infrastructure/configuration"
	"social-hub/infrastructure/events"
	"social-hub/infrastructure/logger"
	"social-hub/infrastructure/oauthstate"
	"social-hub/infrastructure/persistence"
	"social-hub/infrastructure/platform"
	"social-hub/infrastructure/realtime"
	httpHandler "social-hub/interfaces/http"
	"social-hub/server"
	"social-hub/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	psqlDb, err := persistence.NewPostgreSQLDB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Cannot connect to PostgreSQL")
	}
	if err := persistence.EnsureSchema(psqlDb); err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Failed ensuring database schema")
	}
	logger.GetLogger().Info("Database connected.")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - oauth state falls back to in-memory store")
		redisClient = nil
	}

	var pubSubClient *pubsub.Client
	if configuration.C.Pubsub.ProjectID != "" {
		pubSubClient, err = pubsub.NewClient(ctx, configuration.C.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without post events")
			pubSubClient = nil
		}
	}

	// a typed nil pointer would defeat the store's client != nil check
	stateStore := oauthstate.NewStore(nil)
	if redisClient != nil {
		stateStore = oauthstate.NewStore(redisClient)
	}
	registry := buildRegistry()

	connectionRepository := persistence.NewSocialConnectionRepository(psqlDb)
	postRepository := persistence.NewPostRepository(psqlDb)
	userRepository := persistence.NewUserRepository(psqlDb)

	postEvents := events.NewPostEvents(pubSubClient, configuration.C.Pubsub.Topic)

	userUsecase := usecase.NewUserUsecase(userRepository)
	socialAuthUsecase := usecase.NewSocialAuthUsecase(connectionRepository, stateStore, registry)
	postUsecase := usecase.NewPostUsecase(
		postRepository,
		connectionRepository,
		registry,
		postEvents,
		time.Duration(configuration.C.Social.PublishTimeoutSeconds)*time.Second,
	)

	postHub := realtime.NewPostHub()
	postUsecase.SetBroadcaster(postHub.Broadcast)

	userHandler := httpHandler.NewUserHandler(userUsecase)
	socialAuthHandler := httpHandler.NewSocialAuthHandler(socialAuthUsecase)
	postHandler := httpHandler.NewPostHandler(postUsecase)
	healthHandler := httpHandler.NewHealthHandler(psqlDb)

	router := server.InitiateRouter(userHandler, socialAuthHandler, postHandler, healthHandler, postHub)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if pubSubClient != nil {
		_ = pubSubClient.Close()
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// buildRegistry wires an adapter for every platform enabled in config.
func buildRegistry() repository.IPlatformRegistry {
	enabled := make(map[string]bool, len(configuration.C.Social.Platforms))
	for _, p := range configuration.C.Social.Platforms {
		enabled[p] = true
	}

	var adapters []repository.IPlatformAdapter
	if enabled["facebook"] {
		adapters = append(adapters, platform.NewFacebookAdapter(configuration.C.OAuth.Facebook))
	}
	if enabled["twitter"] {
		adapters = append(adapters, platform.NewTwitterAdapter(configuration.C.OAuth.Twitter))
	}
	if enabled["instagram"] {
		adapters = append(adapters, platform.NewInstagramAdapter(configuration.C.OAuth.Instagram))
	}
	if enabled["telegram"] {
		adapters = append(adapters, platform.NewTelegramAdapter(configuration.C.OAuth.Telegram))
	}
	return platform.NewRegistry(adapters...)
}
