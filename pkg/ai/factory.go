package ai

import (
	"fmt"

	"go.uber.org/zap"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType // "gemini", "openai", "ollama" or "auto"

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	OllamaBaseURL string // e.g. "http://localhost:11434"; empty disables Ollama in auto mode
	OllamaModel   string // e.g. "llava"
}

// NewReceiptScanner creates a ReceiptScanner based on the config.
// In auto mode every configured provider is chained in a FallbackService,
// Gemini first.
func NewReceiptScanner(cfg Config, logger *zap.Logger) (ReceiptScanner, error) {
	switch cfg.Provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiScanner(cfg.GeminiAPIKey, cfg.GeminiModel), nil

	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIScanner(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil

	case ProviderOllama:
		return NewOllamaScanner(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	case ProviderAuto, "":
		var providers []NamedScanner
		if cfg.GeminiAPIKey != "" {
			providers = append(providers, NamedScanner{Name: string(ProviderGemini), Scanner: NewGeminiScanner(cfg.GeminiAPIKey, cfg.GeminiModel)})
		}
		if cfg.OpenAIAPIKey != "" {
			providers = append(providers, NamedScanner{Name: string(ProviderOpenAI), Scanner: NewOpenAIScanner(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)})
		}
		if cfg.OllamaBaseURL != "" {
			providers = append(providers, NamedScanner{Name: string(ProviderOllama), Scanner: NewOllamaScanner(cfg.OllamaBaseURL, cfg.OllamaModel)})
		}
		if len(providers) == 0 {
			return nil, ErrNoProvider
		}
		if len(providers) == 1 {
			return providers[0].Scanner, nil
		}
		return NewFallbackService(logger, providers...), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
