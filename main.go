package main

import (
	"context"
	"fmt"

	"mailmind-backend/cmd/api"
	accountDelivery "mailmind-backend/internal/account/delivery"
	accountRepo "mailmind-backend/internal/account/repository"
	accountUsecase "mailmind-backend/internal/account/usecase"
	authDelivery "mailmind-backend/internal/auth/delivery"
	authRepo "mailmind-backend/internal/auth/repository"
	authUsecase "mailmind-backend/internal/auth/usecase"
	mailDelivery "mailmind-backend/internal/mailcache/delivery"
	mailRepo "mailmind-backend/internal/mailcache/repository"
	"mailmind-backend/internal/mailcache/scheduler"
	mailUsecase "mailmind-backend/internal/mailcache/usecase"
	"mailmind-backend/internal/notification"
	"mailmind-backend/pkg/ai"
	"mailmind-backend/pkg/config"
	"mailmind-backend/pkg/crypto"
	"mailmind-backend/pkg/docstore"
	"mailmind-backend/pkg/fcm"
	"mailmind-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func newStore(ctx context.Context, cfg *config.Config) (docstore.Store, error) {
	switch cfg.StoreDriver {
	case "firestore":
		return docstore.NewFirestoreStore(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredential)
	case "postgres":
		return docstore.NewSQLStore(cfg.PostgresDSN)
	case "memory":
		return docstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	ctx := context.Background()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize document store")
	}

	encryptor, err := crypto.NewEncryptor(cfg.EncryptionSecret)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize encryptor")
	}

	completer, err := ai.NewCompleter(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiModel:   cfg.GeminiModel,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to initialize AI completer")
	}

	accounts := accountRepo.NewAccountRepository(store)
	messages := mailRepo.NewMessageRepository(store)
	index := mailRepo.NewIndexRepository(store)
	profiles := mailRepo.NewProfileRepository(store)
	users := authRepo.NewUserRepository(store)
	sources := accountUsecase.NewSourceFactory(cfg.GoogleClientID, cfg.GoogleClientSecret, accounts, encryptor)

	promMetrics := metrics.NewMetrics()

	// Push notifications are optional; without Firebase credentials the
	// notifier degrades to a no-op.
	var pusher notification.Pusher
	if cfg.FirebaseProjectID != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredential)
		if err != nil {
			log.WithError(err).Warn("push notifications disabled")
		} else {
			pusher = fcmClient
		}
	}
	notifier := notification.NewService(store, pusher, log)

	service := mailUsecase.NewService(mailUsecase.Deps{
		Messages:  messages,
		Index:     index,
		Profiles:  profiles,
		Accounts:  accounts,
		Sources:   sources,
		Completer: completer,
		Metrics:   promMetrics,
		Notifier:  notifier,
		Logger:    log,
		BatchSize: cfg.EnrichBatchSize,
	})

	refresher := scheduler.NewScheduler(cfg.RefreshInterval, service, accounts, log)
	if err := refresher.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer refresher.Stop()

	r := gin.Default()
	api.SetupRoutes(r, cfg,
		authDelivery.NewAuthHandler(authUsecase.NewAuthUsecase(users, cfg.JWTSecret)),
		mailDelivery.NewMailCacheHandler(service),
		mailDelivery.NewProfileHandler(profiles),
		accountDelivery.NewAccountHandler(accounts, encryptor),
		notification.NewHandler(notifier),
	)

	log.Infof("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
