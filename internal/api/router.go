package api

import (
	"net/http"
	"time"

	"minimarket/internal/api/handler"
	apimiddleware "minimarket/internal/api/middleware"
	"minimarket/internal/app/service"
	"minimarket/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	tokens *security.TokenService,
	authService *service.AuthService,
	productService *service.ProductService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	authenticate := apimiddleware.Authenticator(tokens, authService)

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// User routes (public)
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/users", authHandler.RegisterRoutes)

		// Product routes (reads public, mutations owner-only)
		productHandler := handler.NewProductHandler(productService, authenticate)
		v1.Route("/products", productHandler.RegisterRoutes)
	})

	return r
}
