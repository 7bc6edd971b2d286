package main

import (
	"log"
	"time"

	"wegram_server/config"
	"wegram_server/handler"
	"wegram_server/middleware"
	"wegram_server/model"
	"wegram_server/service"
	"wegram_server/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// 设置时区为 UTC（推荐服务端统一使用 UTC）
	time.Local = time.UTC
}

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化数据库
	if err := utils.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer utils.CloseDB()

	if err := model.Migrate(utils.GetDB()); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	if err := utils.InitRedis(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer utils.CloseRedis()

	// 初始化认证中间件
	middleware.InitAuth(cfg.JWTSecret, cfg.TokenTTLHours)

	db := utils.GetDB()
	rdb := utils.GetRedis()

	// 创建 WebSocket Hub
	hub := handler.NewHub(rdb)

	// 创建服务
	notifSvc := service.NewNotificationService(db)
	notifSvc.SetHubNotifier(hub)

	authSvc := service.NewAuthService(db, rdb)
	profileSvc := service.NewProfileService(db)
	blockSvc := service.NewBlockService(db)

	followSvc := service.NewFollowService(db)
	followSvc.SetNotificationService(notifSvc)

	postSvc := service.NewPostServiceWithRedis(db, rdb, cfg.TrendingCacheTTL)
	postSvc.SetNotificationService(notifSvc)

	commentSvc := service.NewCommentService(db)
	commentSvc.SetNotificationService(notifSvc)

	msgSvc := service.NewMessageService(db, blockSvc)
	msgSvc.SetNotificationService(notifSvc)
	msgSvc.SetPusher(hub)

	referralSvc := service.NewReferralService(db)
	walletSvc := service.NewWalletService(db, rdb, cfg.TokenListURL, cfg.TokenListCacheTTL)

	// S3 不可用时发帖仍然可用，只是没有图片上传
	uploadSvc, err := service.NewUploadService(cfg.S3.Region, cfg.S3.Bucket)
	if err != nil {
		log.Printf("Warning: S3 upload service unavailable: %v", err)
	}

	// 创建处理器
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	followHandler := handler.NewFollowHandler(followSvc)
	blockHandler := handler.NewBlockHandler(blockSvc)
	postHandler := handler.NewPostHandler(postSvc, uploadSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	msgHandler := handler.NewMessageHandler(msgSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc)
	referralHandler := handler.NewReferralHandler(referralSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)

	// 创建 Gin 路由
	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		utils.MethodNotAllowed(c)
	})

	// 注册统一错误处理和指标中间件
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	// 健康检查和指标
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(middleware.GetRegistry(), promhttp.HandlerOpts{})))

	// WebSocket 连接（使用 token 认证，不需要 HTTP 中间件）
	r.GET("/ws", handler.HandleWebSocket(hub))

	// 认证入口（无需登录）
	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-email", authHandler.VerifyEmail)
	}

	// HTTP API 路由组（需要认证）
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware())
	{
		// 用户资料
		api.GET("/profiles/me", profileHandler.GetMe)
		api.PUT("/profiles/me", profileHandler.UpdateMe)
		api.GET("/profiles/:id", profileHandler.GetProfile)

		// 关注关系
		api.POST("/follows", followHandler.Follow)
		api.DELETE("/follows", followHandler.Unfollow)
		api.GET("/follows/status", followHandler.GetStatus)
		api.GET("/follows/followers/:id", followHandler.GetFollowers)
		api.GET("/follows/following/:id", followHandler.GetFollowing)

		// 拉黑
		api.POST("/blocks", blockHandler.Block)
		api.DELETE("/blocks", blockHandler.Unblock)
		api.GET("/blocks", blockHandler.GetBlockedUsers)

		// 帖子
		api.POST("/posts", postHandler.Create)
		api.GET("/posts", postHandler.GetFeed)
		api.PUT("/posts", postHandler.Action)
		api.GET("/posts/:id", postHandler.GetPost)
		api.POST("/posts/:id/view", postHandler.View)
		api.DELETE("/posts/:id", postHandler.Delete)
		api.POST("/posts/upload-url", postHandler.UploadURL)

		// 评论
		api.GET("/comments", commentHandler.List)
		api.POST("/comments", commentHandler.Create)
		api.PUT("/comments", commentHandler.Action)
		api.DELETE("/comments/:id", commentHandler.Delete)

		// 私信
		api.POST("/messages", msgHandler.Send)
		api.GET("/messages/conversations", msgHandler.GetConversations)
		api.GET("/messages/with/:user_id", msgHandler.GetThread)
		api.POST("/messages/mark-read", msgHandler.MarkRead)

		// 通知
		api.GET("/notifications", notifHandler.List)
		api.POST("/notifications", notifHandler.Create)
		api.PUT("/notifications", notifHandler.MarkRead)

		// 推荐
		api.POST("/referrals", referralHandler.Create)
		api.GET("/referrals", referralHandler.List)
		api.GET("/referrals/stats", referralHandler.Stats)

		// 钱包
		api.POST("/wallet", walletHandler.Link)
		api.GET("/wallet", walletHandler.Get)
		api.GET("/wallet/tokens", walletHandler.Tokens)

		// 登出（清除在线状态）
		api.POST("/logout", func(c *gin.Context) {
			if userID, ok := middleware.GetUserID(c); ok {
				hub.ForceOffline(userID)
			}
			utils.SuccessWithMessage(c, "Logged out", nil)
		})
	}

	// 启动服务
	log.Printf("🚀 wegram_server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
