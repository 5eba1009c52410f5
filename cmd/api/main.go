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

	"tradepost/internal/adapter/api"
	"tradepost/internal/adapter/api/handler"
	apimiddleware "tradepost/internal/adapter/api/middleware"
	"tradepost/internal/adapter/api/router"
	"tradepost/internal/adapter/repository"
	"tradepost/internal/infrastructure/firebase"
	"tradepost/internal/infrastructure/realtime"
	"tradepost/internal/usecase"
	"tradepost/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
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

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	discussionRepo := repository.NewFirestoreDiscussionRepository(firestoreClient)

	firebaseAuthClient := firebase.NewAuthClient(authClient)

	// The hub is the process's single realtime client, constructed here and
	// injected everywhere it is needed.
	hub := realtime.NewHub()
	hub.Start(ctx)

	notifications := usecase.NewNotificationMaintainer(discussionRepo, userRepo)

	authUseCase := usecase.NewAuthUseCase(userRepo, firebaseAuthClient)
	userUseCase := usecase.NewUserUseCase(userRepo, discussionRepo, firebaseAuthClient)
	listingUseCase := usecase.NewListingUseCase(listingRepo)
	discussionUseCase := usecase.NewDiscussionUseCase(discussionRepo, userRepo, listingRepo, notifications, hub)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)

	router.Setup(e, router.Handlers{
		Auth:       handler.NewAuthHandler(authUseCase),
		User:       handler.NewUserHandler(userUseCase),
		Listing:    handler.NewListingHandler(listingUseCase),
		Discussion: handler.NewDiscussionHandler(discussionUseCase),
		WebSocket:  handler.NewWebSocketHandler(hub, authMiddleware, cfg.SendBufferSize),
	}, authMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
