package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lodge-backend/config"
	"lodge-backend/controllers"
	"lodge-backend/routes"
	"lodge-backend/services"
	"lodge-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	// Connect database (config.ConnectDatabase should set config.DB)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Initialize services
	propertyService := services.NewPropertyService(db)
	roomService := services.NewRoomService(db)
	occupantService := services.NewOccupantService(db)
	assignmentService := services.NewAssignmentService(db)
	historyService := services.NewHistoryService(db)

	// Initialize controllers
	propertyController := controllers.NewPropertyController(propertyService)
	roomController := controllers.NewRoomController(roomService, assignmentService, occupantService)
	occupantController := controllers.NewOccupantController(occupantService)
	assignmentController := controllers.NewAssignmentController(assignmentService)
	historyController := controllers.NewHistoryController(historyService)

	// Build router
	router := routes.SetupRouter(propertyController, roomController, occupantController, assignmentController, historyController)

	// Port from env (prefer), fallback to 8080
	addr := ":" + utils.EnvOrDefault("PORT", "8080")

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
