package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carthatamaz/cartha/internal/auth"
	"github.com/carthatamaz/cartha/internal/config"
	"github.com/carthatamaz/cartha/internal/models"
)

// Server represents the demo marketplace API server
type Server struct {
	router    *gin.Engine
	db        *gorm.DB
	config    *config.Config
	logger    zerolog.Logger
	validator *validator.Validate
	cron      *cron.Cron
	version   string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	auth.InitializeJWT(cfg.Auth.JWTSecret)

	// Seed demo fixtures on an empty database so the CLI works offline
	// right after first boot
	if err := SeedIfEmpty(db, zlog); err != nil {
		return nil, fmt.Errorf("failed to seed demo data: %w", err)
	}

	server := &Server{
		db:        db,
		config:    cfg,
		logger:    zlog,
		validator: validator.New(),
		cron:      cron.New(),
		version:   version,
	}

	server.setupRouter()
	server.setupCron()

	return server, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 5 * time.Minute
		busyTimeout     = 5000 // milliseconds
	)

	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
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

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
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

	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Public auth endpoints (no auth required)
	s.router.POST("/api/auth/login", s.login)
	s.router.POST("/api/auth/register", s.register)
	s.router.POST("/api/auth/forgot-password", s.forgotPassword)
	s.router.POST("/api/auth/reset-password", s.resetPassword)

	// Authenticated API routes (JWT required)
	api := s.router.Group("/api")
	api.Use(JWTAuthMiddleware(s.db, s.logger))
	{
		// Auth endpoints
		api.GET("/auth/me", s.getCurrentUser)
		api.PUT("/auth/me", s.updateProfile)
		api.POST("/auth/logout", s.logout)

		// Guest surface: browse listings, manage own reservations
		guest := api.Group("/guest")
		{
			guest.GET("/guesthouses", s.listGuesthouses)
			guest.GET("/guesthouses/:id", s.getGuesthouse)
			guest.GET("/reservations", s.listGuestReservations)
			guest.GET("/reservations/:id", s.getReservation)
			guest.POST("/reservations", s.createReservation)
			guest.PUT("/reservations/:id/cancel", s.cancelReservation)
		}

		// Owner surface (host area)
		owner := api.Group("/owner")
		owner.Use(RequireRoles(s.logger, models.RoleOwner, models.RoleAdmin))
		{
			owner.GET("/guesthouses", s.listOwnerGuesthouses)
			owner.POST("/guesthouses", s.createGuesthouse)
			owner.PUT("/guesthouses/:id", s.updateGuesthouse)
			owner.DELETE("/guesthouses/:id", s.deleteGuesthouse)
			owner.GET("/reservations", s.listOwnerReservations)
			owner.PUT("/reservations/:id/confirm", s.confirmReservation)
			owner.PUT("/reservations/:id/reject", s.rejectReservation)
		}

		// Messaging
		api.GET("/messages", s.listMessages)
		api.POST("/messages", s.createMessage)
		api.PUT("/messages/:id/read", s.markMessageRead)
		api.GET("/messages/unread/count", s.unreadMessageCount)
		api.GET("/messages/conversations", s.listConversations)

		// Favorites
		api.GET("/favorites", s.listFavorites)
		api.POST("/favorites", s.addFavorite)
		api.DELETE("/favorites/:id", s.removeFavorite)
		api.GET("/favorites/check/:id", s.checkFavorite)

		// Admin surface
		admin := api.Group("/admin")
		admin.Use(RequireRoles(s.logger, models.RoleAdmin))
		{
			admin.GET("/stats", s.adminStats)
			admin.GET("/users", s.listUsers)
			admin.GET("/users/:id", s.getUser)
			admin.PUT("/users/:id", s.updateUser)
			admin.DELETE("/users/:id", s.deleteUser)
		}
	}
}

// setupCron registers background jobs. Reservations whose checkout date has
// passed move from CONFIRMED to COMPLETED once a day.
func (s *Server) setupCron() {
	_, err := s.cron.AddFunc("@daily", func() {
		s.completeExpiredReservations()
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to schedule reservation completion job")
	}
}

// completeExpiredReservations marks confirmed reservations past their
// checkout date as completed
func (s *Server) completeExpiredReservations() {
	today := time.Now().UTC().Format("2006-01-02")

	result := s.db.Model(&models.Reservation{}).
		Where("status = ? AND check_out_date < ?", models.ReservationConfirmed, today).
		Update("status", models.ReservationCompleted)
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("Failed to complete expired reservations")
		return
	}

	if result.RowsAffected > 0 {
		s.logger.Info().
			Int64("count", result.RowsAffected).
			Msg("Completed expired reservations")
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
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "cartha-api",
		"version":   s.version,
	})
}

// GetDB returns the database connection (used by tests)
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Router returns the configured gin engine (used by tests)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	s.cron.Start()
	defer s.cron.Stop()

	srv := &http.Server{
		Addr:    s.config.HTTP.ListenAddr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.Info().Str("addr", s.config.HTTP.ListenAddr).Msg("Demo API server listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	return nil
}
