// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/Nattapat2550/chat/internal/config"
	"github.com/Nattapat2550/chat/internal/domain"
	"github.com/Nattapat2550/chat/internal/handlers"
	"github.com/Nattapat2550/chat/internal/middleware"
	"github.com/Nattapat2550/chat/internal/repository/message"
	"github.com/Nattapat2550/chat/internal/repository/thread"
	"github.com/Nattapat2550/chat/internal/services"
	"github.com/Nattapat2550/chat/internal/services/ai"
)

func main() {
	cfg := config.Load()

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.Thread{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	threadRepo := thread.NewThreadRepository(db)
	messageRepo := message.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.AIAPIKey
	aiConfig.BaseURL = cfg.AIBaseURL
	aiConfig.Model = cfg.AIModel
	aiConfig.Timeout = cfg.AITimeout

	generator, err := ai.NewOpenAIProvider(aiConfig)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	attachmentStore, err := services.NewDiskAttachmentStore(cfg.UploadDir, cfg.UploadMaxMB, services.NewLogger("attachments"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize attachment store: %v", err)
	}

	conversationService, err := services.NewConversationService(
		threadRepo, messageRepo, generator, services.NewLogger("conversation"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}

	threadService, err := services.NewThreadService(
		threadRepo, messageRepo, attachmentStore, services.NewLogger("threads"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Thread Service: %v", err)
	}

	// --- Handlers ---
	threadHandler := handlers.NewThreadHandler(threadService)
	messageHandler := handlers.NewMessageHandler(conversationService, attachmentStore, cfg.UploadMaxMB)

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/threads", threadHandler.ListThreads).Methods("GET")
	api.HandleFunc("/threads", threadHandler.CreateThread).Methods("POST")
	api.HandleFunc("/threads/{id:[0-9]+}", threadHandler.RenameThread).Methods("PUT")
	api.HandleFunc("/threads/{id:[0-9]+}", threadHandler.DeleteThread).Methods("DELETE")
	api.HandleFunc("/messages/{threadId:[0-9]+}", messageHandler.GetMessages).Methods("GET")
	api.HandleFunc("/messages", messageHandler.SubmitMessage).Methods("POST")
	api.HandleFunc("/delete-image", messageHandler.DeleteImage).Methods("POST")

	// Static assets: the browser UI and the uploaded images.
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(attachmentStore.Dir()))))
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("web/static")))

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Chat server starting on port %s", cfg.ServerPort)
	log.Printf("Local access: http://localhost:%s", cfg.ServerPort)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	// Let dispatched generations finish resolving their placeholders.
	conversationService.WaitIdle()
	log.Println("Server stopped gracefully")
}
