package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minimarket/internal/api"
	"minimarket/internal/app/service"
	"minimarket/internal/common/security"
	"minimarket/internal/domain/repository"
	"minimarket/internal/platform/cache"
	"minimarket/internal/platform/config"
	"minimarket/internal/platform/database"
)

func main() {
	// 1. Load Configuration (fatal on bad config, never per-request)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	log.Println("Configuration loaded.")

	// 2. Initialize security primitives
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	tokens, err := security.NewTokenService(cfg.JWTKey, cfg.JWTExp)
	if err != nil {
		log.Fatalf("Token service error: %v", err)
	}

	// 3. Initialize Database
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer db.Close()
	log.Println("Database connected.")

	// 4. Initialize Redis (product read cache)
	rdb, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Redis error: %v", err)
	}
	defer rdb.Close()
	log.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	productRepo := repository.NewPgProductRepository(db)

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, hasher, tokens)
	productService := service.NewProductService(productRepo, rdb, cfg.ProductCacheTTL)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(tokens, authService, productService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
