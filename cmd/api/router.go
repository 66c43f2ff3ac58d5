package api

import (
	"net/http"

	"disposal-backend/internal/auth/delivery"
	authUsecase "disposal-backend/internal/auth/usecase"
	notificationDelivery "disposal-backend/internal/notification/delivery"
	receiptDelivery "disposal-backend/internal/receipt/delivery"
	"disposal-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, notificationHandler *notificationDelivery.NotificationHandler, receiptHandler *receiptDelivery.ReceiptHandler) {
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Notification operations (protected)
		notifications := api.Group("/notifications")
		notifications.Use(delivery.AuthMiddleware(authUsecase))
		{
			notifications.GET("/status", notificationHandler.Status)
			notifications.POST("/run", notificationHandler.Run)
		}

		// Receipt OCR (protected)
		receipts := api.Group("/receipts")
		receipts.Use(delivery.AuthMiddleware(authUsecase))
		{
			receipts.POST("/scan", receiptHandler.ScanReceipt)
		}
	}
}
