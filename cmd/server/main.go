package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nuricanozturk01/setupshowroom-public/internal/config"
	"github.com/nuricanozturk01/setupshowroom-public/internal/database"
	"github.com/nuricanozturk01/setupshowroom-public/internal/handlers"
	"github.com/nuricanozturk01/setupshowroom-public/internal/notifier"
	"github.com/nuricanozturk01/setupshowroom-public/internal/repository"
	cronjobs "github.com/nuricanozturk01/setupshowroom-public/internal/scheduler"
	"github.com/nuricanozturk01/setupshowroom-public/internal/services"
	"github.com/nuricanozturk01/setupshowroom-public/internal/storage"
	"github.com/nuricanozturk01/setupshowroom-public/pkg/logger"
	"github.com/nuricanozturk01/setupshowroom-public/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	objectStorage, err := storage.NewMinioStorage(cfg)
	if err != nil {
		log.Fatalf("Object storage error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	setupRepo := repository.NewSetupRepository(db)

	// --- Notification delivery core ---
	registry := notifier.NewRegistry()
	dispatcher := notifier.NewDispatcher(registry, notificationRepo, userRepo)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	setupService := services.NewSetupService(setupRepo, userRepo, dispatcher, objectStorage)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	streamHandler := handlers.NewStreamHandler(registry, cfg.JWTSecret)
	setupHandler := handlers.NewSetupHandler(setupService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Auth routes
	router.HandleFunc("/api/v1/auth/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/api/v1/auth/login", userHandler.LoginUserHandler).Methods("POST")

	// EventSource clients cannot set request headers, so the stream endpoint
	// authenticates through a token query parameter instead of the auth middleware.
	router.HandleFunc("/public/notification/stream", streamHandler.StreamNotificationsHandler).Methods("GET")

	// Protected user routes
	protectedUserRoutes := router.PathPrefix("/api/v1/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/{id}/setups", setupHandler.GetUserSetupsHandler).Methods("GET")

	// Notification management routes
	notificationRoutes := router.PathPrefix("/api/v1/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.GetUnreadNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read", notificationHandler.GetReadNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/all", notificationHandler.GetAllNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}/unread", notificationHandler.MarkAsUnreadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")
	notificationRoutes.HandleFunc("", notificationHandler.DeleteAllNotificationsHandler).Methods("DELETE")

	// Setup routes
	setupRoutes := router.PathPrefix("/api/v1/setups").Subrouter()
	setupRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	setupRoutes.HandleFunc("", setupHandler.CreateSetupHandler).Methods("POST")
	setupRoutes.HandleFunc("/explore", setupHandler.ExploreSetupsHandler).Methods("GET")
	setupRoutes.HandleFunc("/{id}", setupHandler.GetSetupHandler).Methods("GET")
	setupRoutes.HandleFunc("/{id}/like", setupHandler.LikeSetupHandler).Methods("POST")
	setupRoutes.HandleFunc("/{id}/like", setupHandler.UnlikeSetupHandler).Methods("DELETE")
	setupRoutes.HandleFunc("/{id}/comments", setupHandler.AddCommentHandler).Methods("POST")
	setupRoutes.HandleFunc("/{id}/comments/{commentId}", setupHandler.DeleteCommentHandler).Methods("DELETE")
	setupRoutes.HandleFunc("/{id}/comments/{commentId}/like", setupHandler.LikeCommentHandler).Methods("POST")
	setupRoutes.HandleFunc("/{id}/comments/{commentId}/like", setupHandler.UnlikeCommentHandler).Methods("DELETE")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Periodic liveness sweep over the stream connections
	heartbeat := cronjobs.StartHeartbeatJob(dispatcher)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:4200"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: c.Handler(router),
	}

	go func() {
		fmt.Printf("Server running on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutdown signal received")

	// Stop proving liveness, notify and release every stream connection,
	// then drain the HTTP server.
	heartbeat.Stop()
	dispatcher.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server shutdown error: %v", err)
	}

	logger.Log.Info("Server stopped")
}
