package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "disposal-backend/internal/auth/usecase"
	notificationDelivery "disposal-backend/internal/notification/delivery"
	receiptDelivery "disposal-backend/internal/receipt/delivery"
	receiptUsecase "disposal-backend/internal/receipt/usecase"
	"disposal-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	authUsecase         authUsecase.AuthUsecase
	config              *config.Config
	notificationHandler *notificationDelivery.NotificationHandler
	receiptHandler      *receiptDelivery.ReceiptHandler
	logger              *zap.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, runner notificationDelivery.Runner, receiptUc receiptUsecase.ReceiptUsecase, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		authUsecase:         authUc,
		config:              cfg,
		notificationHandler: notificationDelivery.NewNotificationHandler(runner),
		receiptHandler:      receiptDelivery.NewReceiptHandler(receiptUc, cfg.MaxUploadMB),
		logger:              logger,
	}
}

// Router builds the gin engine with middleware and routes
func (h *Handler) Router() *gin.Engine {
	if h.config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(RecoveryMiddleware(h.logger), RequestLogger(h.logger), MetricsMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.notificationHandler, h.receiptHandler)
	return r
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	h.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
