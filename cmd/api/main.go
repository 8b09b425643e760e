package main

import (
	"log"

	"campusnet/config"
	"campusnet/internal/domain/conversation"
	"campusnet/internal/domain/message"
	"campusnet/internal/domain/presence"
	"campusnet/internal/domain/user"
	"campusnet/internal/handler"
	"campusnet/internal/jobs"
	"campusnet/internal/proxy"
	campusredis "campusnet/internal/redis"
	"campusnet/internal/repository"
	"campusnet/internal/server"
	"campusnet/internal/services"
	"campusnet/pkg/clock"
	"campusnet/pkg/database"
	"campusnet/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	// Connect to Database
	database.Connect(cfg)

	if err := database.DB.AutoMigrate(
		&user.User{},
		&conversation.Conversation{},
		&conversation.Participant{},
		&message.Message{},
		&message.MessageEdit{},
		&message.PinnedMessage{},
		&presence.TypingIndicator{},
	); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := campusredis.NewClient(campusredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	limiterCfg := campusredis.DefaultRateLimitConfig()
	limiterCfg.PollLimit = cfg.PollLimitPerMinute
	limiterCfg.ActionLimit = cfg.ActionLimitPerMinute
	limiter := campusredis.NewRateLimiter(redisClient, limiterCfg)

	userRepo := repository.NewUserRepository(database.DB)
	conversationRepo := repository.NewConversationRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	typingRepo := repository.NewTypingRepository(database.DB)

	access := proxy.NewAccessControl(conversationRepo)
	clk := clock.New()

	statusService := services.NewStatusService(messageRepo, access, clk)
	typingService := services.NewTypingService(typingRepo, access, clk)
	presenceService := services.NewPresenceService(userRepo, conversationRepo, access, clk)
	messageService := services.NewMessageService(messageRepo, conversationRepo, access, clk)
	conversationService := services.NewConversationService(conversationRepo, userRepo, access, clk)

	cleanupJob := jobs.StartTypingCleanupJob(typingService, l)
	defer cleanupJob.Stop()

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Status:       handler.NewStatusHandler(statusService),
		Typing:       handler.NewTypingHandler(typingService),
		Presence:     handler.NewPresenceHandler(presenceService),
		Message:      handler.NewMessageHandler(messageService),
		Conversation: handler.NewConversationHandler(conversationService),
	}, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
