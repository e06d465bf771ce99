package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"medbill/internal/app"
	"medbill/internal/config"
	"medbill/internal/handler"
	"medbill/internal/router"
	"medbill/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	pipeline, err := app.NewPipeline(cfg)
	if err != nil {
		return err
	}

	var authSvc service.AuthService
	if cfg.Auth.Enabled() {
		authSvc = service.NewAuthService(cfg.Auth)
		log.Println("Bearer token auth enabled")
	}

	// Initialize handlers
	extractH := handler.NewExtractionHandler(pipeline)
	healthH := handler.NewHealthHandler(app.ReadinessChecks(cfg))

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, extractH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
