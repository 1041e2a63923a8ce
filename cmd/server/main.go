// Package main runs the multi-tenant auth and membership HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/atlashq/backend/config"
	"github.com/atlashq/backend/internal/auth"
	"github.com/atlashq/backend/internal/invites"
	"github.com/atlashq/backend/internal/middleware"
	"github.com/atlashq/backend/internal/organizations"
	"github.com/atlashq/backend/internal/profiles"
	"github.com/atlashq/backend/pkg/database"
	"github.com/atlashq/backend/pkg/redis"
	"github.com/atlashq/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	sessionCfg := auth.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        time.Duration(cfg.Session.TTLHours) * time.Hour,
	}

	// Auth
	userRepo := auth.NewRepository(pool)
	sessionService := auth.NewSessionService(userRepo, sessionCfg)
	authHandler := auth.NewHandler(userRepo, sessionService, sessionCfg, cfg.Session.CookieSecure, logger)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo, logger)

	// Membership
	profileRepo := profiles.NewRepository(pool)
	profileHandler := profiles.NewHandler(profileRepo, logger)

	// Invites
	inviteService := invites.NewService(cfg.Invite.Secret, cfg.Invite.ExpireHours)
	inviteHandler := invites.NewHandler(inviteService, orgRepo, profileRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	loginLimit := middleware.RateLimit(rdb.Client, "login", cfg.Login.MaxAttempts,
		time.Duration(cfg.Login.WindowSec)*time.Second, logger)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", loginLimit, authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Protected API (session cookie required)
	api := router.Group("")
	api.Use(middleware.Session(userRepo, cfg.Session.CookieName))
	{
		api.GET("/me", authHandler.Me)
		api.GET("/me/sessions", authHandler.MySessions)

		api.POST("/organizations", orgHandler.Create)
		api.GET("/organizations/:id/membership", profileHandler.Membership)
		api.POST("/organizations/:id/invites", inviteHandler.Create)
		api.POST("/invites/accept", inviteHandler.Accept)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
