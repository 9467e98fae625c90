package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// PurchaseOrder datos de una orden de compra rápida lista para imprimir.
type PurchaseOrder struct {
	Reference   string
	Supplier    entity.Supplier
	Product     entity.Product
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
	RequestedBy string
	CreatedAt   time.Time
}

// ReorderPDFGenerator genera el PDF de una orden de compra.
type ReorderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, order PurchaseOrder) ([]byte, error)
}
