package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"fund-investment-service/internal/auth"
	"fund-investment-service/internal/database"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int
	Host           string
	ProductionMode bool
	AllowOrigins   []string
}

// Server represents the HTTP API server
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	repo       *database.Repository
	handlers   *Handlers
	jwtManager *auth.JWTManager
	config     ServerConfig
	logger     zerolog.Logger
}

// NewServer creates a new API server
func NewServer(
	config ServerConfig,
	repo *database.Repository,
	handlers *Handlers,
	jwtManager *auth.JWTManager,
	logger zerolog.Logger,
) *Server {
	if config.ProductionMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(config.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = config.AllowOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:     router,
		repo:       repo,
		handlers:   handlers,
		jwtManager: jwtManager,
		config:     config,
		logger:     logger.With().Str("component", "server").Logger(),
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", s.handlers.Register)
		authGroup.POST("/login", s.handlers.Login)
		authGroup.POST("/refresh", s.handlers.Refresh)
	}

	investmentGroup := v1.Group("/investment")
	investmentGroup.Use(auth.Middleware(s.jwtManager))
	{
		investmentGroup.POST("/invest", s.handlers.Invest)
		investmentGroup.POST("/disinvest", s.handlers.Disinvest)
		investmentGroup.POST("/claim", s.handlers.Claim)
		investmentGroup.POST("/withdraw", s.handlers.Withdraw)
		investmentGroup.GET("/balance", s.handlers.Balance)
	}

	companyGroup := v1.Group("/company")
	companyGroup.Use(auth.Middleware(s.jwtManager), auth.RequireManager())
	{
		companyGroup.POST("/profit", s.handlers.AddProfit)
		companyGroup.POST("/settle", s.handlers.Settle)
	}
}

// handleHealth returns server health status, including database reachability.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.repo.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Msg("starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
