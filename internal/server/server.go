package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/config"
	"github.com/cinefusion/cinefusion/internal/middleware"
	"github.com/cinefusion/cinefusion/internal/server/handlers"
	"github.com/cinefusion/cinefusion/internal/services"
)

// HTTPServer represents the HTTP server
type HTTPServer struct {
	config    *config.Config
	container *services.Container
	router    *gin.Engine
	server    *http.Server
	logger    *logrus.Logger
}

// NewHTTPServer creates a new HTTP server
func NewHTTPServer(cfg *config.Config, container *services.Container) *HTTPServer {
	// Set Gin mode based on configuration
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	logger := container.GetLogger()

	server := &HTTPServer{
		config:    cfg,
		container: container,
		router:    router,
		logger:    logger,
	}

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	// Create HTTP server
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	return server
}

// Router exposes the configured gin engine, mainly for tests.
func (s *HTTPServer) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *HTTPServer) Start() error {
	s.logger.Infof("Starting HTTP server on port %d", s.config.Server.Port)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown() error {
	s.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// setupMiddleware configures middleware
func (s *HTTPServer) setupMiddleware() {
	// Logger middleware
	s.router.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.TimeStamp.Format("2006-01-02 15:04:05"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))

	// Recovery middleware
	s.router.Use(gin.Recovery())

	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Metrics(s.container.GetMonitor()))
	s.router.Use(middleware.Throttle(s.config.Server.ThrottleRPS, s.config.Server.ThrottleBurst))
}

// setupRoutes configures all API routes
func (s *HTTPServer) setupRoutes() {
	systemHandler := handlers.NewSystemHandler(s.container)

	// Liveness endpoint for load balancers
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := s.router.Group("/api/v1")

	v1.GET("/health", systemHandler.GetHealth)

	// WebSocket event stream
	v1.GET("/ws", s.websocketHandler)

	// Rate-governed query surface
	governed := v1.Group("/")
	governed.Use(middleware.RateGovernor(s.container.GetGovernor()))
	{
		searchHandler := handlers.NewSearchHandler(s.container)
		governed.GET("/search", searchHandler.Search)
		governed.GET("/suggestions", searchHandler.GetSuggestions)

		movieHandler := handlers.NewMovieHandler(s.container)
		governed.GET("/movies", movieHandler.ListMovies)
		governed.GET("/movies/:id", movieHandler.GetMovie)
		governed.GET("/genres", movieHandler.GetGenres)
		governed.GET("/directors", movieHandler.GetDirectors)
		governed.GET("/stats", movieHandler.GetStats)
	}

	// Admin surface
	if s.config.Server.AdminEnabled {
		admin := v1.Group("/admin")
		{
			admin.GET("/cache/stats", systemHandler.GetCacheStats)
			admin.POST("/cache/clear", systemHandler.ClearCache)
			admin.GET("/performance", systemHandler.GetPerformance)
			admin.POST("/reload", systemHandler.ReloadDataset)
		}
	}
}

// websocketHandler handles WebSocket upgrade requests
func (s *HTTPServer) websocketHandler(c *gin.Context) {
	clientID := c.GetHeader("X-Client-ID")
	if clientID == "" {
		clientID = services.NewClientID()
	}

	hub := s.container.GetEventsHub()
	hub.HandleWebSocket(c.Writer, c.Request, clientID)
}
