package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// Las respuestas del modelo son JSON sin garantías: se decodifican en estructuras de transporte,
// se validan y recién después se convierten en los tipos del dominio.

var validate = validator.New()

type restockPayload struct {
	ProductID         string                    `json:"product_id" validate:"required"`
	PredictedUsage    *int                      `json:"predicted_usage" validate:"required,gte=0"`
	RestockSuggestion string                    `json:"restock_suggestion" validate:"required,max=500"`
	Urgency           string                    `json:"urgency" validate:"required,oneof=Low Medium High"`
	BranchSuggestions []branchSuggestionPayload `json:"branch_suggestions" validate:"omitempty,dive"`
}

type branchSuggestionPayload struct {
	BranchID      string `json:"branch_id" validate:"required"`
	RestockAmount *int   `json:"restock_amount" validate:"required,gte=0"`
}

type pricePayload struct {
	ProductID                 string   `json:"product_id" validate:"required"`
	ProductName               string   `json:"product_name" validate:"required"`
	PredictionSummary         string   `json:"prediction_summary" validate:"required,max=1000"`
	PredictedChangePercentage *float64 `json:"predicted_change_percentage" validate:"required,gte=-100,lte=1000"`
}

// decodeRestock convierte el texto del modelo en resultados tipados. Un elemento inválido
// invalida toda la respuesta.
func decodeRestock(raw string) ([]entity.PredictionResult, error) {
	var items []restockPayload
	if err := decodeArray(raw, &items); err != nil {
		return nil, err
	}
	out := make([]entity.PredictionResult, 0, len(items))
	for i, it := range items {
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("AI: predicción %d inválida: %w", i, err)
		}
		r := entity.PredictionResult{
			ProductID:         it.ProductID,
			PredictedUsage:    *it.PredictedUsage,
			RestockSuggestion: strings.TrimSpace(it.RestockSuggestion),
			Urgency:           entity.Urgency(it.Urgency),
		}
		for _, bs := range it.BranchSuggestions {
			r.BranchSuggestions = append(r.BranchSuggestions, entity.BranchSuggestion{
				BranchID:      bs.BranchID,
				RestockAmount: *bs.RestockAmount,
			})
		}
		out = append(out, r)
	}
	return out, nil
}

func decodePriceTrend(raw string) ([]entity.PricePrediction, error) {
	var items []pricePayload
	if err := decodeArray(raw, &items); err != nil {
		return nil, err
	}
	out := make([]entity.PricePrediction, 0, len(items))
	for i, it := range items {
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("AI: predicción de precio %d inválida: %w", i, err)
		}
		out = append(out, entity.PricePrediction{
			ProductID:                 it.ProductID,
			ProductName:               it.ProductName,
			PredictionSummary:         strings.TrimSpace(it.PredictionSummary),
			PredictedChangePercentage: decimal.NewFromFloat(*it.PredictedChangePercentage).Round(2),
		})
	}
	return out, nil
}

func decodeArray(raw string, dest any) error {
	clean := extractJSONArray(raw)
	if clean == "" {
		return fmt.Errorf("AI: no se encontró un arreglo JSON en la respuesta del modelo")
	}
	if err := json.Unmarshal([]byte(clean), dest); err != nil {
		return fmt.Errorf("AI: respuesta del modelo no es JSON válido: %w", err)
	}
	return nil
}

// extractJSONArray quita bloques markdown (```json … ```) y devuelve desde el primer '['
// hasta el último ']'.
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx != -1 {
		after := text[idx+3:]
		if nl := strings.Index(after, "\n"); nl != -1 {
			after = after[nl+1:]
		}
		if end := strings.LastIndex(after, "```"); end != -1 {
			after = after[:end]
		}
		text = strings.TrimSpace(after)
	}
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end < start {
		return ""
	}
	return text[start : end+1]
}
