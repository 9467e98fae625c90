package entity

import "github.com/shopspring/decimal"

// InventoryItem vista derivada (no persistida): producto + campos de predicción opcionales + stock total.
type InventoryItem struct {
	Product
	PredictedUsage    *int               `json:"predicted_usage,omitempty"`
	RestockSuggestion string             `json:"restock_suggestion,omitempty"`
	Urgency           Urgency            `json:"urgency,omitempty"`
	BranchSuggestions []BranchSuggestion `json:"branch_suggestions,omitempty"`
	TotalStock        int                `json:"total_stock"`
}

// HasSuggestionFor indica si la predicción trae sugerencia específica para la sede.
func (i InventoryItem) HasSuggestionFor(branchID string) bool {
	for _, bs := range i.BranchSuggestions {
		if bs.BranchID == branchID {
			return true
		}
	}
	return false
}

// ExpiringBatch lote que vence dentro de la ventana consultada.
type ExpiringBatch struct {
	ProductID       string `json:"product_id"`
	ProductName     string `json:"product_name"`
	BranchID        string `json:"branch_id"`
	BranchName      string `json:"branch_name"`
	BatchID         string `json:"batch_id"`
	Quantity        int    `json:"quantity"`
	ExpiryDate      Date   `json:"expiry_date"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// BranchPerformance agregados de una sede para el tablero.
type BranchPerformance struct {
	BranchID          string   `json:"branch_id"`
	BranchName        string   `json:"branch_name"`
	TotalProducts     int      `json:"total_products"`
	TotalStockUnits   int      `json:"total_stock_units"`
	HighUrgencyAlerts int      `json:"high_urgency_alerts"`
	TopUsedItem       *Product `json:"top_used_item,omitempty"`
}

// DashboardKPIs indicadores del tablero. StockTurnover es 0 cuando el valor de inventario es 0.
type DashboardKPIs struct {
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	TotalUsageValue     decimal.Decimal `json:"total_usage_value"`
	StockTurnover       decimal.Decimal `json:"stock_turnover"`
	NearingExpiryCount  int             `json:"nearing_expiry_count"`
}

// Movers productos de mayor y menor consumo en la ventana seleccionada.
type Movers struct {
	Top  []Product `json:"top"`
	Slow []Product `json:"slow"`
}
