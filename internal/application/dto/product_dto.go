package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// InitialStockRequest stock inicial por sede al crear un producto.
type InitialStockRequest struct {
	BranchID   string `json:"branch_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gt=0"`
	ExpiryDate string `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name          string                `json:"name" validate:"required,min=1,max=200"`
	SupplierID    string                `json:"supplier_id" validate:"required"`
	MinStockLevel *int                  `json:"min_stock_level,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice *decimal.Decimal      `json:"purchase_price,omitempty"`
	InitialStock  []InitialStockRequest `json:"initial_stock" validate:"dive"`
}

// UpdateProductRequest entrada para actualizar un producto (el stock solo cambia por el ledger).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SupplierID    *string          `json:"supplier_id" validate:"omitempty,min=1"`
	MinStockLevel *int             `json:"min_stock_level" validate:"omitempty,gte=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

// ProductListResponse página de productos.
type ProductListResponse struct {
	Items []entity.Product `json:"items"`
	Page  PageResponse     `json:"page"`
}
