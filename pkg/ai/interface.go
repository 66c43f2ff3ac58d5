package ai

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when no AI provider is configured or all of them failed
var ErrNoProvider = errors.New("no AI provider available")

// ReceiptItem is one product read off a receipt photo
type ReceiptItem struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int    `json:"quantity"`
	DisposalDays int    `json:"disposalDays"` // days from purchase until the item should be thrown out
}

// ReceiptScanner extracts purchased items from a receipt image.
// Implement this interface to add new AI providers.
type ReceiptScanner interface {
	ScanReceipt(ctx context.Context, image []byte, mimeType string) ([]ReceiptItem, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

const receiptPrompt = `You read grocery and household receipts.
List every purchased product on the receipt image as JSON:
{"items":[{"name":"...","category":"...","quantity":1,"disposalDays":7}]}

Rules:
- name: the product as a shopper would call it, not the receipt abbreviation
- category: one of produce, dairy, meat, seafood, bakery, frozen, pantry, beverage, household, other
- quantity: whole number, 1 when not printed
- disposalDays: typical days until the product should be used up or thrown away
- skip totals, taxes, discounts, bags and payment lines
- reply with JSON only`
