// Package server exposes the monetization engine to the editor UI over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"MonetizationEngine/internal/compliance"
	"MonetizationEngine/internal/engine"
)

// Server owns the gin router and its handler dependencies.
type Server struct {
	engine    *engine.Engine
	validator *compliance.Validator
	logger    *slog.Logger
	router    *gin.Engine
}

// New builds the router with all API routes registered.
func New(eng *engine.Engine, validator *compliance.Validator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:    eng,
		validator: validator,
		logger:    logger,
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery())

	s.router.GET("/healthz", s.health)
	api := s.router.Group("/api")
	{
		api.POST("/monetize", s.monetize)
		api.POST("/validate", s.validate)
		api.POST("/topic-match", s.topicMatch)
	}

	return s
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
