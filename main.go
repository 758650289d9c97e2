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

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/adapter/document"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/adapter/llm"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/adapter/media"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/config"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/conversation"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/hub"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/policy"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/prompt"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/repository"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/service"
	"github.com/Drmohdfaizan/Medical-Ai-App/internal/session"
	server "github.com/Drmohdfaizan/Medical-Ai-App/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if cfg.LogLevel == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	log.Printf("Starting DocPro intake service...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database driver: %s", cfg.DatabaseDriver)
	log.Printf("LLM provider: %s", cfg.LLMProvider)

	// Initialize store
	db, err := repository.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Initialize generation client. A missing key is not fatal: the service
	// starts and analysis requests are refused until it is configured.
	generator, err := llm.NewGenerator(ctx, llm.Options{
		Provider:      cfg.LLMProvider,
		Model:         cfg.LLMModel,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		Sampling:      llm.DefaultSampling(prompt.SystemInstruction),
	})
	if err != nil {
		log.Printf("ERROR: generation client unavailable, analysis disabled: %v", err)
		generator = nil
	}

	// Initialize policy engine
	policyEngine, err := policy.NewDefaultEngine(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	machine := conversation.NewMachine(generator, document.NewTextExtractor(), media.NewNormalizer(cfg.MaxImageEdge), policyEngine)

	// Push channel
	h := hub.NewHub()
	go h.Run(ctx)

	// Initialize service
	sessions := session.NewRegistry()
	svc := service.New(db, machine, sessions, h, cfg)

	wsHandler := hub.NewHandler(h, svc, hub.Options{
		PingInterval: cfg.PingInterval,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
	})
	e := server.NewServer(svc, wsHandler, cfg.MaxUploadBytes)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}
	stop()

	log.Println("DocPro stopped")
}
