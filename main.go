package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chatwire/config"
	"chatwire/handlers"
	"chatwire/middleware"
	"chatwire/protocol"
	"chatwire/store"
	"chatwire/websocket"
)

func main() {
	_ = godotenv.Load()

	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	rdb, err := store.Dial(ctx, config.Cfg.RedisURL, config.Cfg.ChannelPrefix)
	if err != nil {
		logger.Fatal("connect to store", zap.Error(err))
	}
	defer rdb.Close()

	friends := protocol.NewFriends(rdb, rdb, logger)
	messages := protocol.NewMessages(rdb, rdb, logger)

	hub := websocket.NewHub(messages, logger)
	go hub.Run()
	go websocket.NewBridge(rdb, hub, logger).Run(ctx)

	authHandler := &handlers.AuthHandler{Store: rdb}
	userHandler := &handlers.UserHandler{Store: rdb}
	friendHandler := &handlers.FriendHandler{Friends: friends}
	chatHandler := &handlers.ChatHandler{Messages: messages, Friends: friends}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(), authHandler.Logout)
		auth.POST("/refresh", middleware.AuthMiddleware(), authHandler.RefreshToken)
	}

	users := r.Group("/api/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", userHandler.Me)
		users.GET("/lookup", userHandler.Lookup)
	}

	friendRoutes := r.Group("/api/friends")
	friendRoutes.Use(middleware.AuthMiddleware())
	{
		friendRoutes.GET("", friendHandler.List)
		friendRoutes.GET("/requests", friendHandler.Requests)
		friendRoutes.POST("/add", friendHandler.Add)
		friendRoutes.POST("/accept", friendHandler.Accept)
		friendRoutes.POST("/decline", friendHandler.Decline)
	}

	message := r.Group("/api/message")
	message.Use(middleware.AuthMiddleware())
	{
		message.POST("/send", chatHandler.Send)
	}

	chats := r.Group("/api/chats")
	chats.Use(middleware.AuthMiddleware())
	{
		chats.GET("", chatHandler.List)
		chats.GET("/:id/messages", chatHandler.History)
	}

	r.GET("/ws", hub.HandleWebSocket)

	logger.Info("server starting", zap.String("addr", config.Cfg.Addr))
	if err := r.Run(config.Cfg.Addr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
