package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// ReceiveStockRequest body para POST /api/inventory/receive.
type ReceiveStockRequest struct {
	ProductID  string           `json:"product_id" validate:"required"`
	BranchID   string           `json:"branch_id" validate:"required"`
	Quantity   int              `json:"quantity" validate:"required,gt=0"`
	ExpiryDate string           `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	UnitCost   *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason     string           `json:"reason" validate:"max=300"`
}

// ConsumeStockRequest body para POST /api/inventory/consume.
type ConsumeStockRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	BranchID  string `json:"branch_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Policy    string `json:"policy,omitempty" validate:"omitempty,oneof=FEFO FIFO"`
	Reason    string `json:"reason" validate:"max=300"`
}

// AdjustStockRequest body para POST /api/inventory/adjust (conteo físico: fija el total de la sede).
type AdjustStockRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	BranchID   string `json:"branch_id" validate:"required"`
	NewTotal   int    `json:"new_total" validate:"gte=0"`
	ExpiryDate string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reason     string `json:"reason" validate:"required,max=300"`
}

// TransferStockRequest body para POST /api/inventory/transfer.
type TransferStockRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	FromBranchID string `json:"from_branch_id" validate:"required"`
	ToBranchID   string `json:"to_branch_id" validate:"required,nefield=FromBranchID"`
	BatchID      string `json:"batch_id" validate:"required"`
	Amount       int    `json:"amount" validate:"required,gt=0"`
}

// StockMovementResponse producto resultante de una operación de stock.
type StockMovementResponse struct {
	Product     entity.Product `json:"product"`
	BranchTotal int            `json:"branch_total"`
	Delta       int            `json:"delta"`
}

// InventoryListResponse vista de inventario según el rol del usuario.
type InventoryListResponse struct {
	Items []entity.InventoryItem `json:"items"`
}

// ExpiringResponse lotes próximos a vencer.
type ExpiringResponse struct {
	AsOf        string                 `json:"as_of"`
	HorizonDays int                    `json:"horizon_days"`
	Items       []entity.ExpiringBatch `json:"items"`
}
