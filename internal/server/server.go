package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusnet/config"
	"campusnet/internal/handler"
	"campusnet/internal/middleware"
	"campusnet/internal/redis"
	"campusnet/internal/transport/httpdto"
	"campusnet/pkg/database"
	"campusnet/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Status       *handler.StatusHandler
	Typing       *handler.TypingHandler
	Presence     *handler.PresenceHandler
	Message      *handler.MessageHandler
	Conversation *handler.ConversationHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	auth := middleware.AuthMiddleware([]byte(s.config.JWTSecret))
	poll := middleware.PollRateLimitMiddleware(limiter)
	action := middleware.ActionRateLimitMiddleware(limiter)

	status := s.engine.Group("/v1/status", auth)
	{
		status.POST("/delivered", handlers.Status.MarkDelivered)
		status.POST("/seen", handlers.Status.MarkSeen)
		status.GET("", poll, handlers.Status.GetStatuses)
	}

	typing := s.engine.Group("/v1/typing", auth)
	{
		typing.POST("/start", handlers.Typing.Start)
		typing.POST("/stop", handlers.Typing.Stop)
		typing.GET("", poll, handlers.Typing.Get)
		typing.POST("/cleanup", handlers.Typing.Cleanup)
	}

	presence := s.engine.Group("/v1/presence", auth)
	{
		presence.POST("/heartbeat", handlers.Presence.Heartbeat)
		presence.POST("/activity", handlers.Presence.UpdateActivity)
		presence.GET("", poll, handlers.Presence.GetOnlineStatus)
		presence.GET("/partner", poll, handlers.Presence.GetPartnerStatus)
	}

	messages := s.engine.Group("/v1/messages", auth)
	{
		messages.POST("", action, handlers.Message.Send)
		messages.GET("", handlers.Message.List)
		messages.GET("/pinned", handlers.Message.ListPinned)
		messages.GET("/unread", handlers.Message.UnreadCount)
		messages.POST("/read", handlers.Message.MarkRead)
		messages.POST("/:id/edit", action, handlers.Message.Edit)
		messages.POST("/:id/unsend", action, handlers.Message.Unsend)
		messages.POST("/:id/delete", action, handlers.Message.Delete)
		messages.POST("/:id/pin", action, handlers.Message.Pin)
	}

	conversations := s.engine.Group("/v1/conversations", auth)
	{
		conversations.POST("", action, handlers.Conversation.Create)
		conversations.GET("", handlers.Conversation.List)
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}
