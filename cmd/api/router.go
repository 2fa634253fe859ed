package api

import (
	"net/http"

	accountDelivery "mailmind-backend/internal/account/delivery"
	"mailmind-backend/internal/auth/delivery"
	mailDelivery "mailmind-backend/internal/mailcache/delivery"
	"mailmind-backend/internal/notification"
	"mailmind-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, authHandler *delivery.AuthHandler, mailHandler *mailDelivery.MailCacheHandler, profileHandler *mailDelivery.ProfileHandler, accountHandler *accountDelivery.AccountHandler, notificationHandler *notification.Handler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := delivery.AuthMiddleware(cfg.JWTSecret)

		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.RefreshToken)
			authGroup.GET("/me", auth, authHandler.Me)
		}

		// Push notification tokens (protected)
		fcmGroup := api.Group("/fcm")
		fcmGroup.Use(auth)
		{
			fcmGroup.POST("/register", notificationHandler.RegisterToken)
			fcmGroup.DELETE("/:token", notificationHandler.UnregisterToken)
		}

		// Account routes (protected)
		accounts := api.Group("/accounts")
		accounts.Use(auth)
		{
			accounts.GET("", accountHandler.List)
			accounts.POST("/google", accountHandler.LinkGoogle)
			accounts.POST("/imap", accountHandler.LinkIMAP)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(auth)
		{
			profile.GET("", profileHandler.Get)
			profile.PUT("", profileHandler.Update)
		}

		// Mail cache routes (protected)
		mail := api.Group("/mail")
		mail.Use(auth)
		{
			mail.POST("/import", mailHandler.Import)
			mail.POST("/process", mailHandler.Process)
			mail.POST("/rescore", mailHandler.Rescore)
			mail.POST("/refresh", mailHandler.Refresh)
			mail.GET("/refresh/status", mailHandler.RefreshStatus)

			mail.GET("/inbox", mailHandler.GetInbox)
			mail.GET("/deletables", mailHandler.GetDeletables)
			mail.GET("/search", mailHandler.Search)

			mail.GET("/messages/:id", mailHandler.GetMessage)
			mail.GET("/messages/:id/brief", mailHandler.GetBrief)
			mail.POST("/messages/:id/archive", mailHandler.Archive)
			mail.POST("/messages/:id/trash", mailHandler.Trash)
			mail.POST("/messages/:id/junk", mailHandler.Junk)
			mail.POST("/messages/:id/reset", mailHandler.ResetEnrichment)
		}
	}
}
