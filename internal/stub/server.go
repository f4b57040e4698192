// Package stub is a local stand-in for the recipe backend and the identity
// provider's auth API. It speaks the same wire contract as the real services
// so the client can be developed and tested without them.
package stub

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mihailo50/ai-powered-personalized-recipe-generator/internal/config"
)

// Server represents the stub HTTP server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    config.StubConfig
	logger    zerolog.Logger
	tokens    *Tokens
	generator Generator
	loginURL  string
}

// New creates a new server instance
func New(cfg config.StubConfig, zlog zerolog.Logger) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	tokens, err := NewTokens(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	loginURL := cfg.LoginURL
	if loginURL == "" {
		loginURL = config.DefaultLoginURL
	}

	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		tokens:    tokens,
		generator: TemplateGenerator{},
		loginURL:  loginURL,
	}

	if cfg.SeedFile != "" {
		seed, err := LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		if err := server.ApplySeed(seed); err != nil {
			return nil, err
		}
	}

	server.setupRouter()

	return server, nil
}

// initDatabase opens the SQLite store
func initDatabase(cfg config.StubConfig, zlog zerolog.Logger) (*gorm.DB, error) {
	const busyTimeout = 5000 // 5 seconds

	db, err := gorm.Open(sqlite.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// A shared-cache memory database lives as long as one connection does
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	origins := s.config.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "apikey"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Identity provider subset
	gotrue := s.router.Group("/auth/v1")
	gotrue.Use(requireAPIKey())
	{
		gotrue.POST("/token", s.issueToken)
		gotrue.POST("/logout", s.revokeSession)
		gotrue.GET("/user", s.getUser)
	}

	// Public backend endpoints
	s.router.GET("/health/", s.healthCheck)
	s.router.POST("/auth/register/", s.register)
	s.router.POST("/auth/logout/", s.logout)

	// Anonymous callers allowed, bad tokens are still rejected
	optional := s.router.Group("/")
	optional.Use(s.authMiddleware(false))
	{
		optional.POST("/suggestions/", s.createSuggestion)
		optional.GET("/auth/status/", s.authStatus)
	}

	protected := s.router.Group("/")
	protected.Use(s.authMiddleware(true))
	{
		protected.GET("/recipes/", s.listRecipes)
		protected.GET("/recipes/:id", s.getRecipe)
		protected.GET("/history/", s.listHistory)
		protected.POST("/favorites/", s.toggleFavorite)
		protected.GET("/profile/", s.getProfile)
		protected.PUT("/profile/", s.updateProfile)
		protected.GET("/recommendations/", s.recommendations)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"supabase": "connected",
	})
}

// Handler exposes the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database
func (s *Server) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go runTokenSweeper(sweepCtx, s.db, s.config.TokenSweepSchedule, s.logger)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.config.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	if err := s.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Error closing database")
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
