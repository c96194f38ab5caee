package router

import (
	"net/http"

	"grapebd/g2g/config"
	"grapebd/g2g/internal/handler"
	"grapebd/g2g/internal/logging"
	"grapebd/g2g/internal/middleware"
	"grapebd/g2g/internal/realtime"
	"grapebd/g2g/internal/repository"
	"grapebd/g2g/internal/service"
	"grapebd/g2g/internal/ws"
	"grapebd/g2g/pkg/cloudinary"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers. cloud may be nil when Cloudinary is
// not configured; uploads then answer 503.
func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, bus *realtime.Bus, hub *ws.Hub) *gin.Engine {
	log := logging.For("router")
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.RequestLogger())
	r.Use(middleware.RateLimit(newLimiter(cfg)))

	// Repositories
	profileRepo := repository.NewProfileRepository(db)
	stockRepo := repository.NewStockRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	giftRepo := repository.NewGiftRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	tokenRepo := repository.NewFcmTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)

	// Services
	var sender service.PushSender
	if fcm := service.NewFCMService(cfg.Firebase.ServiceAccountPath, cfg.Server.PublicURL); fcm != nil {
		sender = fcm
		log.Info("push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Warn("push notifications disabled: failed to init (check service account file)")
	} else {
		log.Info("push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	if cloud == nil {
		log.Info("image uploads disabled: set CLOUDINARY_* to enable")
	}
	dispatcher := service.NewPushDispatcher(tokenRepo, sender, cfg.Firebase.SendsPerSecond)
	notifSvc := service.NewNotificationService(notificationRepo, dispatcher, bus)
	media := service.NewMediaService(cloud, cfg.Cloudinary.Folder, cfg.Images.MaxPixels)
	authSvc := service.NewAuthService(cfg, profileRepo)
	profileSvc := service.NewProfileService(profileRepo, media)
	inventorySvc := service.NewInventoryService(stockRepo, catalogRepo)
	catalogSvc := service.NewCatalogService(catalogRepo, media)
	giftSvc := service.NewGiftService(giftRepo, catalogRepo, profileRepo, notifSvc, bus, cfg.Gifts.RestoreStockOnCancel)
	messageSvc := service.NewMessageService(messageRepo, profileRepo, notifSvc, bus)
	feedSvc := service.NewFeedService(feedRepo, media, bus)
	tokenSvc := service.NewTokenService(tokenRepo, profileRepo)
	noticeSvc := service.NewNoticeService(noticeRepo, bus)

	// Handlers
	maxUpload := cfg.Images.MaxUploadBytes
	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc, maxUpload)
	inventoryHandler := handler.NewInventoryHandler(inventorySvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, maxUpload)
	giftHandler := handler.NewGiftHandler(giftSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	feedHandler := handler.NewFeedHandler(feedSvc, maxUpload)
	pushHandler := handler.NewPushHandler(tokenSvc, dispatcher)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)
	uploadHandler := handler.NewUploadHandler(media, maxUpload)
	adminHandler := handler.NewAdminHandler(profileSvc, giftSvc)

	authMw := middleware.AuthRequired(&cfg.JWT, profileRepo)
	adminMw := middleware.AdminRequired()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "realtime_clients": hub.ClientCount()})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("", authHandler.Me)
			me.PATCH("", profileHandler.UpdateMe)
			me.POST("/avatar", profileHandler.UploadAvatar)
			me.GET("/stock", inventoryHandler.ListMine)
			me.GET("/gifts/sent", giftHandler.Sent)
			me.GET("/gifts/received", giftHandler.Received)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.GET("/push/permission", pushHandler.GetPermission)
			me.PUT("/push/permission", pushHandler.SetPermission)
			me.GET("/push/tokens", pushHandler.ListTokens)
			me.POST("/push/tokens", pushHandler.RegisterToken)
			me.DELETE("/push/tokens", pushHandler.UnregisterToken)
			me.POST("/push/test", pushHandler.Test)
		}

		authed := api.Group("")
		authed.Use(authMw)
		{
			authed.GET("/profiles/:id", profileHandler.Get)
			authed.POST("/uploads", uploadHandler.UploadImage)

			authed.POST("/stock", inventoryHandler.Add)
			authed.PATCH("/stock/:id", inventoryHandler.Update)
			authed.DELETE("/stock/:id", inventoryHandler.Delete)

			authed.GET("/varieties", catalogHandler.ListVarieties)
			authed.GET("/varieties/:id", catalogHandler.GetVariety)
			authed.GET("/rounds", catalogHandler.ListRounds)

			authed.POST("/gifts", giftHandler.Create)
			authed.GET("/gifts/:id", giftHandler.Get)
			authed.POST("/gifts/:id/received", giftHandler.MarkReceived)

			authed.GET("/messages/conversations", messageHandler.Conversations)
			authed.GET("/messages/unread", messageHandler.Unread)
			authed.GET("/messages/unread/total", messageHandler.UnreadTotal)
			authed.POST("/messages", messageHandler.Send)
			authed.GET("/messages/with/:id", messageHandler.Thread)
			authed.DELETE("/messages/with/:id", messageHandler.Clear)

			authed.GET("/posts", feedHandler.List)
			authed.POST("/posts", feedHandler.CreatePost)
			authed.DELETE("/posts/:id", feedHandler.DeletePost)
			authed.POST("/posts/:id/comments", feedHandler.AddComment)
			authed.POST("/posts/:id/reactions", feedHandler.React)
			authed.DELETE("/comments/:id", feedHandler.DeleteComment)

			authed.GET("/notices", noticeHandler.List)
			authed.POST("/notices/:id/read", noticeHandler.MarkRead)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, adminMw)
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/profiles", profileHandler.List)
			admin.PATCH("/profiles/:id/status", profileHandler.SetStatus)
			admin.PATCH("/profiles/:id/role", profileHandler.SetRole)
			admin.DELETE("/profiles/:id", profileHandler.Delete)
			admin.GET("/profiles/:id/stock", inventoryHandler.ListForProfile)

			admin.POST("/varieties", catalogHandler.CreateVariety)
			admin.PATCH("/varieties/:id", catalogHandler.UpdateVariety)
			admin.PUT("/varieties/:id/active", catalogHandler.SetVarietyActive)
			admin.POST("/varieties/:id/image", catalogHandler.UploadVarietyImage)
			admin.DELETE("/varieties/:id", catalogHandler.DeleteVariety)
			admin.POST("/rounds", catalogHandler.CreateRound)
			admin.PATCH("/rounds/:id", catalogHandler.UpdateRound)
			admin.PUT("/rounds/:id/active", catalogHandler.SetRoundActive)
			admin.DELETE("/rounds/:id", catalogHandler.DeleteRound)

			admin.GET("/gifts", giftHandler.AdminList)
			admin.GET("/gifts/pending/count", giftHandler.PendingCount)
			admin.POST("/gifts", giftHandler.AdminCreate)
			admin.POST("/gifts/:id/approve", giftHandler.Approve)
			admin.POST("/gifts/:id/cancel", giftHandler.Cancel)
			admin.POST("/gifts/:id/sent", giftHandler.MarkSent)
			admin.POST("/gifts/:id/received", giftHandler.MarkReceived)

			admin.POST("/notices", noticeHandler.Create)
			admin.DELETE("/notices/:id", noticeHandler.Delete)
		}
	}

	r.GET("/ws/realtime", ws.UpgradeRealtimeWS(&cfg.JWT, profileRepo, hub))

	return r
}

// newLimiter shares counters through Redis when REDIS_ADDR is set.
func newLimiter(cfg *config.Config) middleware.Limiter {
	if cfg.Redis.Addr == "" {
		return middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return middleware.NewRedisRateLimiter(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}
