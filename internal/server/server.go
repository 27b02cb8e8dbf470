package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mealscribe/backend/config"
	"github.com/mealscribe/backend/internal/api"
	"github.com/mealscribe/backend/internal/middleware"
	"github.com/mealscribe/backend/internal/router"
	"github.com/mealscribe/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg  *config.Config
	http *http.Server
}

// New wires the services and handlers into a server instance.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, engine service.InferenceEngine) *Server {
	scribeService := service.NewScribeService(engine)
	preferencesService := service.NewPreferencesService(db)

	scribeHandler := api.NewScribeHandler(scribeService)
	preferencesHandler := api.NewPreferencesHandler(preferencesService)
	admission := middleware.NewEngineAdmissionLimiter(redisClient)

	engineRouter := router.SetupRouter(scribeHandler, preferencesHandler, admission, cfg.CORSOrigin)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler: engineRouter,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
