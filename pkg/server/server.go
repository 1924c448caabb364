// Package server exposes the graph store over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soundprediction/graphmem"
	"github.com/soundprediction/graphmem/pkg/config"
	"github.com/soundprediction/graphmem/pkg/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	store  *graphmem.Store
	log    *slog.Logger
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, store *graphmem.Store, log *slog.Logger) *Server {
	return &Server{
		config: cfg,
		store:  store,
		log:    log,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	// Set gin mode
	gin.SetMode(s.config.Server.Mode)

	// Create router
	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(requestLogMiddleware(s.log))

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// Router returns the configured gin engine. Setup must run first.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.store)
	graphHandler := handlers.NewGraphHandler(s.store)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/graph", graphHandler.ReadGraph)

		v1.POST("/entities", graphHandler.CreateEntities)
		v1.DELETE("/entities", graphHandler.DeleteEntities)
		v1.POST("/entities/open", graphHandler.OpenNodes)
		v1.POST("/observations", graphHandler.AddObservations)
		v1.POST("/observations/delete", graphHandler.DeleteObservations)

		v1.POST("/relations", graphHandler.CreateRelations)
		v1.DELETE("/relations", graphHandler.DeleteRelations)

		v1.POST("/merge", graphHandler.MergeEntities)

		v1.GET("/search", graphHandler.Search)
		v1.POST("/search/advanced", graphHandler.AdvancedSearch)
		v1.GET("/stats", graphHandler.Statistics)
		v1.GET("/report", graphHandler.Report)
		v1.POST("/paths", graphHandler.FindPaths)
		v1.GET("/clusters", graphHandler.Clusters)
		v1.GET("/suggestions", graphHandler.Suggestions)
		v1.GET("/export/:format", graphHandler.Export)

		admin := v1.Group("/admin")
		{
			admin.POST("/backup", graphHandler.Backup)
			admin.GET("/backups", graphHandler.ListBackups)
			admin.POST("/restore", graphHandler.Restore)
		}
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestLogMiddleware tags each request with an ID and logs its outcome.
func requestLogMiddleware(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Info("request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
		)
	}
}
