package delivery

import (
	"context"
	"errors"
	"net/http"

	"disposal-backend/internal/notification"

	"github.com/gin-gonic/gin"
)

// Runner is the part of the scheduler exposed over HTTP
type Runner interface {
	RunNow(ctx context.Context) (*notification.CycleReport, error)
	Status() notification.Status
}

// NotificationHandler exposes manual runs and scheduler status
type NotificationHandler struct {
	runner Runner
}

func NewNotificationHandler(runner Runner) *NotificationHandler {
	return &NotificationHandler{runner: runner}
}

// Run triggers one dispatch cycle and returns its report
// POST /api/notifications/run
func (h *NotificationHandler) Run(c *gin.Context) {
	report, err := h.runner.RunNow(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, notification.ErrCycleInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, notification.ErrDisabled):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, report)
}

// Status reports whether dispatch is enabled, running, and how the last cycle went
// GET /api/notifications/status
func (h *NotificationHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.runner.Status())
}
