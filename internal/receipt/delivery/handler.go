package delivery

import (
	"errors"
	"io"
	"net/http"

	"disposal-backend/internal/receipt/usecase"
	"disposal-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// ReceiptHandler handles receipt scanning requests
type ReceiptHandler struct {
	receiptUsecase usecase.ReceiptUsecase
	maxBytes       int64
}

func NewReceiptHandler(receiptUsecase usecase.ReceiptUsecase, maxUploadMB int) *ReceiptHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &ReceiptHandler{
		receiptUsecase: receiptUsecase,
		maxBytes:       int64(maxUploadMB) << 20,
	}
}

// ScanReceipt extracts items from an uploaded receipt image
// POST /api/receipts/scan (multipart field "image")
func (h *ReceiptHandler) ScanReceipt(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > h.maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	items, err := h.receiptUsecase.Scan(c.Request.Context(), image, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyImage), errors.Is(err, usecase.ErrUnsupportedImage):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrImageTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, ai.ErrNoProvider):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "receipt scanning unavailable"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to scan receipt"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
