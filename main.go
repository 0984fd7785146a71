package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"react-app-backend/auth"
	"react-app-backend/cache"
	"react-app-backend/config"
	"react-app-backend/email"
	"react-app-backend/handler"
	appLogger "react-app-backend/logger"
	"react-app-backend/middleware"
	redisClient "react-app-backend/redis"
	"react-app-backend/reset"
	"react-app-backend/store"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// @title React App Backend API
// @version 1.0
// @description Web application backend: user accounts, JWT login, password reset email flow, and static serving for the SPA build.

// @host localhost:5000
// @BasePath /
// @schemes http https

// @tag.name Authentication
// @tag.description Registration, login, token refresh, and password reset

// @tag.name System
// @tag.description Health checks

func main() {
	// Initialize logger
	appLogger.Initialize()

	// Load configuration
	cfg := config.MustLoadConfig()
	log.Info().Msg("Configuration loaded successfully")

	// Initialize Redis client
	rdb := redisClient.NewClient(cfg.Redis)

	// Initialize cache (if enabled)
	var cacheClient *cache.Cache
	if cfg.Cache.Enabled {
		var err error
		cacheClient, err = cache.New(cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize cache")
		}
	} else {
		log.Info().Msg("Cache disabled in configuration")
	}

	// User persistence
	userStore := store.NewUserStore(rdb, cacheClient)

	// Session tokens
	jwtManager, err := auth.NewJWTManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.AccessTTLMins)*time.Minute,
		time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	// Password reset tokens and the notification sink
	resetManager := reset.NewManager(time.Duration(cfg.Reset.TokenTTL) * time.Second)
	emailService := email.NewEmailService(cfg.Email)
	log.Info().
		Bool("email_enabled", cfg.Email.Enabled).
		Int("reset_token_ttl", cfg.Reset.TokenTTL).
		Msg("Password reset flow initialized")

	// Create handlers with dependency injection
	userHandler := handler.NewUserHandler(userStore, jwtManager, cfg)
	resetHandler := handler.NewResetHandler(userStore, rdb, resetManager, emailService, cfg)
	healthHandler := handler.NewHealthHandler(rdb)
	spaHandler := handler.NewSPAHandler(cfg.Static)

	// Set up router
	r := mux.NewRouter()

	// Apply global middleware
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	userAuth := middleware.NewUserAuth(jwtManager)

	r.Use(middleware.CORS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequestLogger)
	r.Use(rateLimiter.Limit)

	// Register routes
	r.HandleFunc("/health", healthHandler.Check).Methods("GET")
	r.HandleFunc("/api/users", userHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", userHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/refresh", userHandler.RefreshToken).Methods("POST")
	r.Handle("/api/auth/me", userAuth.Protect(http.HandlerFunc(userHandler.Me))).Methods("GET")
	r.HandleFunc("/api/auth/reset-password", resetHandler.ForgotPassword).Methods("POST")
	r.HandleFunc("/api/auth/reset-password/{userID}/{token}", resetHandler.ResetPassword).Methods("PUT")

	// SPA catch-all (must be last to avoid conflicts)
	r.PathPrefix("/").Handler(spaHandler).Methods("GET")

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("scheme", cfg.WebServer.Scheme).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Close cache
	if cacheClient != nil {
		cacheClient.Close()
	}

	// Close Redis connection
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close Redis connection")
	}

	log.Info().Msg("Server stopped gracefully")
}
