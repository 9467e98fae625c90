package dto

import "github.com/jhoicas/clinic-inventory-api/internal/domain/entity"

// DashboardFilter filtros del tablero: ventana de días (7, 30, 90, 365) y sede ("all" o id).
type DashboardFilter struct {
	Days     int    `query:"days" validate:"omitempty,oneof=7 30 90 365"`
	BranchID string `query:"branch_id"`
}

// Normalize aplica valores por defecto.
func (f *DashboardFilter) Normalize() {
	if f.Days == 0 {
		f.Days = 30
	}
	if f.BranchID == "" {
		f.BranchID = "all"
	}
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Days              int                        `json:"days"`
	BranchID          string                     `json:"branch_id"`
	KPIs              entity.DashboardKPIs       `json:"kpis"`
	Movers            entity.Movers              `json:"movers"`
	BranchPerformance []entity.BranchPerformance `json:"branch_performance,omitempty"`
	Expiring          []entity.ExpiringBatch     `json:"expiring"`
	Alerts            []entity.InventoryItem     `json:"alerts"`
	Suggestions       []entity.InventoryItem     `json:"suggestions"`
	PredictionsReady  bool                       `json:"predictions_ready"`
}
