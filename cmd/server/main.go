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

	"quickfeedback/internal/api"
	"quickfeedback/internal/app/service"
	"quickfeedback/internal/app/worker"
	"quickfeedback/internal/common/security"
	"quickfeedback/internal/domain/repository"
	"quickfeedback/internal/platform/config"
	"quickfeedback/internal/platform/database"
	"quickfeedback/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.Migrate()

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	formRepo := repository.NewPgFormRepository(database.DB)
	responseRepo := repository.NewPgResponseRepository(database.DB)

	// 6. Initialize Services
	notifier := worker.NewPublisher(queue.RDB)
	authService := service.NewAuthService(userRepo)
	formService := service.NewFormService(formRepo, responseRepo)
	responseService := service.NewResponseService(responseRepo, formRepo, notifier)
	analyticsService := service.NewAnalyticsService(responseService)
	templateService := service.NewTemplateService(formService)

	// 7. Initialize Notification Worker (as a goroutine)
	notificationWorker := worker.NewNotificationWorker(queue.RDB, worker.LogSender{})
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go notificationWorker.Start(workerCtx)
	fmt.Println("Notification worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, formService, responseService, analyticsService, templateService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}
