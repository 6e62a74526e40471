package main

import (
	"context"
	"log"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/firebase"
	"horizon/internal/infrastructure/identity"
	"horizon/internal/infrastructure/postgres"
	"horizon/internal/infrastructure/processor"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
	"horizon/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	BankAccountHandler  *httphandlers.BankAccountHandler
	LinkingHandler      *httphandlers.LinkingHandler
	TransferHandler     *httphandlers.TransferHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Services
	UserService *user.Service

	// Repositories (for the scheduler job provider)
	OrphanRepo *postgres.OrphanRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor for access tokens at rest
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	bankAccountRepo := postgres.NewBankAccountRepository(db, encryptor)
	transferRepo := postgres.NewTransferRepository(db)
	orphanRepo := postgres.NewOrphanRepository(db)
	deviceTokenRepo := postgres.NewDeviceTokenRepository(db)

	// Initialize upstream clients
	aggregatorClient := aggregator.NewClient(aggregator.Config{
		BaseURL:      cfg.Aggregator.BaseURL,
		ClientID:     cfg.Aggregator.ClientID,
		ClientSecret: cfg.Aggregator.ClientSecret,
	})
	processorClient := processor.NewClient(processor.Config{
		BaseURL: cfg.Processor.BaseURL,
		Key:     cfg.Processor.Key,
		Secret:  cfg.Processor.Secret,
	})
	identityClient := identity.NewClient(identity.Config{
		Endpoint: cfg.Identity.Endpoint,
		Project:  cfg.Identity.Project,
		APIKey:   cfg.Identity.APIKey,
	})

	// Initialize FCM messenger if configured
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, deviceTokenRepo.DeactivateToken)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase messaging: %v", err)
		} else {
			messenger = fcmClient
			log.Println("Firebase messaging initialized")
		}
	}

	// Initialize domain services
	notificationService := notification.NewService(deviceTokenRepo, messenger)
	bankAccountService := bankaccount.NewService(bankAccountRepo)
	userService := user.NewService(identityClient, processorClient, userRepo)
	transferService := transfer.NewService(processorClient, bankAccountService, transferRepo)

	// Notification texts; pushes fall back to silence if the file is missing
	msgs, err := messages.Load(cfg.Firebase.MessagesFile)
	if err != nil {
		log.Printf("Warning: notification messages unavailable: %v", err)
		msgs = &messages.Messages{}
	}

	transferService.SetNotifier(func(ctx context.Context, t *transfer.Transfer) {
		notificationService.NotifyUser(ctx, t.SenderID, msgs.TransferSent.Title, msgs.TransferSent.Body,
			map[string]string{"transferId": t.ID})
		notificationService.NotifyUser(ctx, t.ReceiverID, msgs.TransferReceived.Title, msgs.TransferReceived.Body,
			map[string]string{"transferId": t.ID})
	})

	linkingService := linking.NewService(
		aggregatorClient,
		linking.NewProvisioner(processorClient),
		bankAccountService,
		orphanRepo,
		linking.NewCodec(cfg.Sharing.Secret),
	)
	// A fresh link means cached account views on the user's devices are stale.
	linkingService.SetInvalidator(func(ctx context.Context, userID string) {
		notificationService.InvalidateAccounts(ctx, userID)
		notificationService.NotifyUser(ctx, userID, msgs.AccountLinked.Title, msgs.AccountLinked.Body, nil)
	})

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userService)
	userHandler := httphandlers.NewUserHandler()
	bankAccountHandler := httphandlers.NewBankAccountHandler(bankAccountService)
	linkingHandler := httphandlers.NewLinkingHandler(linkingService, aggregatorClient)
	transferHandler := httphandlers.NewTransferHandler(transferService)
	notificationHandler := httphandlers.NewNotificationHandler(notificationService)

	return &Dependencies{
		DB:                  db,
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		BankAccountHandler:  bankAccountHandler,
		LinkingHandler:      linkingHandler,
		TransferHandler:     transferHandler,
		NotificationHandler: notificationHandler,
		UserService:         userService,
		OrphanRepo:          orphanRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
