// Package llm provides clients for the models that turn OCR text into
// structured health metrics.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/padmanaresh1986/fitness-app/internal/config"
)

// Client produces raw model output for an extraction prompt. Implementations
// return the model text verbatim; callers locate and parse the JSON inside.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New selects the provider named by cfg.LLMProvider.
func New(cfg config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.LLMTimeout), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
		return NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
