package ai

import (
	"context"

	"disposal-backend/pkg/gemini"
)

// GeminiScanner reads receipts with Gemini's multimodal generateContent API
type GeminiScanner struct {
	svc *gemini.GeminiService
}

func NewGeminiScanner(apiKey, model string) *GeminiScanner {
	return &GeminiScanner{svc: gemini.NewGeminiService(apiKey, model)}
}

func (g *GeminiScanner) ScanReceipt(ctx context.Context, image []byte, mimeType string) ([]ReceiptItem, error) {
	text, err := g.svc.GenerateFromImage(ctx, receiptPrompt, image, mimeType)
	if err != nil {
		return nil, err
	}
	return ParseReceiptItems(text)
}
