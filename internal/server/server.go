package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dagbolade/proposal-box/internal/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	echo   *echo.Echo
	config Config
	hub    *Hub
}

type Config struct {
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  string
}

// Deps are the collaborators the HTTP surface calls into.
type Deps struct {
	Recorder         AnswerRecorder
	Loader           ResponseLoader
	Auth             *auth.Manager
	RemoteConfigured bool
}

func New(cfg Config, deps Deps) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		config: cfg,
		hub:    NewHub(),
	}

	s.setupMiddleware()
	s.setupRoutes(deps)

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Info().Int("port", s.config.Port).Msg("starting HTTP server")

	s.echo.Server.ReadTimeout = time.Duration(s.config.ReadTimeout) * time.Second
	s.echo.Server.WriteTimeout = time.Duration(s.config.WriteTimeout) * time.Second

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down server")

	s.hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.AllowedOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "Authorization"},
	}))
}

func (s *Server) setupRoutes(deps Deps) {
	uiHandler := NewUIHandler(webAssets)
	answerHandler := NewAnswerHandler(deps.Recorder, s.hub, deps.RemoteConfigured)
	adminHandler := NewAdminHandler(deps.Loader)
	wsHandler := NewWSHandler(s.hub)
	authHandler := auth.NewHandler(deps.Auth)

	s.echo.GET("/health", s.handleHealth)

	// Pages
	s.echo.GET("/", uiHandler.ServePage("index.html"))
	s.echo.GET("/admin", uiHandler.ServePage("admin.html"))
	s.echo.GET("/assets/*", uiHandler.ServeAsset)

	api := s.echo.Group("/api")
	api.GET("/config", answerHandler.GetConfig)
	api.POST("/answers", answerHandler.Record)
	api.POST("/admin/login", authHandler.Login)

	admin := api.Group("/admin")
	admin.Use(deps.Auth.Middleware())
	admin.GET("/responses", adminHandler.GetResponses)
	admin.GET("/ws", wsHandler.HandleWebSocket)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
