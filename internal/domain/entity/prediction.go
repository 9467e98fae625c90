package entity

import "github.com/shopspring/decimal"

// Urgency clasificación de prioridad de reposición.
type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

// Valid indica si es uno de los tres niveles conocidos.
func (u Urgency) Valid() bool {
	return u == UrgencyLow || u == UrgencyMedium || u == UrgencyHigh
}

// BranchSuggestion cantidad sugerida a reponer en una sede.
type BranchSuggestion struct {
	BranchID      string `json:"branch_id"`
	RestockAmount int    `json:"restock_amount"`
}

// PredictionResult resultado tipado (ya validado) de la predicción de reposición.
type PredictionResult struct {
	ProductID         string             `json:"product_id"`
	PredictedUsage    int                `json:"predicted_usage"`
	RestockSuggestion string             `json:"restock_suggestion"`
	Urgency           Urgency            `json:"urgency"`
	BranchSuggestions []BranchSuggestion `json:"branch_suggestions,omitempty"`
}

// PricePrediction tendencia de precio estimada para un producto de un proveedor.
type PricePrediction struct {
	ProductID                 string          `json:"product_id"`
	ProductName               string          `json:"product_name"`
	PredictionSummary         string          `json:"prediction_summary"`
	PredictedChangePercentage decimal.Decimal `json:"predicted_change_percentage"`
}
