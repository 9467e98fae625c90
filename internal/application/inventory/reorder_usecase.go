package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// ReorderUseCase prepara la orden de compra rápida de un producto a su proveedor.
type ReorderUseCase struct {
	catalog  *catalog.Catalog
	pdf      ports.ReorderPDFGenerator
	recorder *audit.Recorder
	now      func() time.Time
}

// NewReorderUseCase construye el caso de uso.
func NewReorderUseCase(cat *catalog.Catalog, pdf ports.ReorderPDFGenerator, recorder *audit.Recorder) *ReorderUseCase {
	return &ReorderUseCase{catalog: cat, pdf: pdf, recorder: recorder, now: time.Now}
}

// Prepare genera el PDF de la orden. Requiere Admin y que el proveedor tenga habilitado el pedido rápido.
func (uc *ReorderUseCase) Prepare(ctx context.Context, user entity.User, in dto.ReorderRequest) ([]byte, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}

	snap := uc.catalog.Snapshot()
	product, ok := snap.Product(in.ProductID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrProductNotFound, in.ProductID)
	}
	supplier, ok := snap.Supplier(product.SupplierID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSupplierNotFound, product.SupplierID)
	}
	if !supplier.QuickReorderEnabled {
		return nil, fmt.Errorf("%w: el proveedor %s no tiene habilitado el pedido rápido", domain.ErrConflict, supplier.Name)
	}

	reference := strings.TrimSpace(in.OrderName)
	if reference == "" {
		reference = "Reorder for " + product.Name
	}
	unit := product.Price()
	order := ports.PurchaseOrder{
		Reference:   reference,
		Supplier:    supplier,
		Product:     product,
		Quantity:    in.Quantity,
		UnitPrice:   unit,
		Total:       unit.Mul(decimal.NewFromInt(int64(in.Quantity))).Round(2),
		RequestedBy: user.Name,
		CreatedAt:   uc.now(),
	}

	doc, err := uc.pdf.GeneratePurchaseOrderPDF(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("orden de compra: %w", err)
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action: entity.ActionReorderPrepared,
		Details: fmt.Sprintf("Order %q: %d units of %q (ID: %s) from supplier %q.",
			reference, in.Quantity, product.Name, product.ID, supplier.Name),
		ProductID: product.ID,
		UserID:    user.ID,
	})
	return doc, nil
}
