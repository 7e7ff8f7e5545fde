// Package server assembles the HTTP server: router, middleware, and the
// graceful-shutdown lifecycle around the review session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mkessler/rewind/internal/api"
	"github.com/mkessler/rewind/internal/config"
	"github.com/mkessler/rewind/internal/db"
	"github.com/mkessler/rewind/internal/index"
	"github.com/mkessler/rewind/internal/logger"
	"github.com/mkessler/rewind/internal/middleware"
	"github.com/mkessler/rewind/internal/review"
)

// Server wraps the HTTP listener and its dependencies
type Server struct {
	httpServer *http.Server
}

// New builds the router and binds all routes
func New(cfg *config.Config, database *db.DB, repos *db.Repositories, idx *index.Service, session *review.Session) *Server {
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.Default())

	apiGroup := router.Group("/api")
	api.SetupHealthRoutes(apiGroup, database)
	api.SetupCameraRoutes(apiGroup, repos, idx)
	api.SetupSessionRoutes(apiGroup, session)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Start begins serving and blocks until the listener stops
func (s *Server) Start() error {
	logger.Log.Info().
		Str("addr", s.httpServer.Addr).
		Msg("HTTP server listening")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("HTTP server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}
