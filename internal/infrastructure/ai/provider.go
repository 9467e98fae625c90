package ai

import (
	"fmt"
	"strings"

	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/pkg/config"
)

// NewPredictionService elige el adaptador según AI_PROVIDER (gemini por defecto).
func NewPredictionService(cfg config.AIConfig) (ports.PredictionService, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel), nil
	case "anthropic":
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("AI: proveedor %q no soportado (gemini | anthropic)", cfg.Provider)
	}
}
