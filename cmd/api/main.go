package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"unimarket/internal/adapter/api"
	"unimarket/internal/adapter/api/handler"
	apimiddleware "unimarket/internal/adapter/api/middleware"
	"unimarket/internal/adapter/api/router"
	"unimarket/internal/adapter/repository"
	"unimarket/internal/infrastructure/firebase"
	"unimarket/internal/infrastructure/storage"
	"unimarket/internal/usecase"
	"unimarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account JSON in the environment wins (deployed setups);
	// fall back to a credentials file for local development.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)

	identityClient := firebase.NewAuthClient(authClient)

	authUseCase := usecase.NewAuthUseCase(userRepo, identityClient, cfg.AllowedEmailDomain, cfg.UniversityName)
	userUseCase := usecase.NewUserUseCase(userRepo, identityClient, storageClient, cfg.UniversityName)
	listingUseCase := usecase.NewListingUseCase(listingRepo, storageClient)
	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo)
	adminUseCase := usecase.NewAdminUseCase(userRepo, listingRepo, storageClient)

	handler.Setup(authUseCase, userUseCase, listingUseCase, chatUseCase, adminUseCase)
	handler.SetupFileHandler(storageClient)
	handler.SetupHealthHandler(firestoreClient)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(identityClient, userUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	wsHandler := handler.NewWebSocketHandler(chatUseCase)

	router.Setup(e, authMiddleware, adminMiddleware)
	router.SetupWebSocketRouter(e, wsHandler, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
