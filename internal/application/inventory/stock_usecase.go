// Package inventory orquesta los movimientos de stock sobre el catálogo: recepción, consumo,
// ajuste por conteo físico, traslado entre sedes y la orden de compra rápida.
package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	ledger "github.com/jhoicas/clinic-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
)

// StockUseCase aplica el ledger de lotes a un producto del catálogo y registra la auditoría.
// Cada operación reemplaza el producto completo dentro de Catalog.Mutate, así que nadie observa
// un estado parcial.
type StockUseCase struct {
	catalog  *catalog.Catalog
	recorder *audit.Recorder
	today    func() entity.Date
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(cat *catalog.Catalog, recorder *audit.Recorder) *StockUseCase {
	return &StockUseCase{catalog: cat, recorder: recorder, today: entity.Today}
}

// Receive ingresa unidades a una sede como lote nuevo o fusionado.
func (uc *StockUseCase) Receive(ctx context.Context, user entity.User, in dto.ReceiveStockRequest) (*dto.StockMovementResponse, error) {
	if err := checkBranchAccess(user, in.BranchID); err != nil {
		return nil, err
	}
	expiry, err := parseOptionalDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}

	updated, err := uc.apply(ctx, in.ProductID, []string{in.BranchID}, func(p entity.Product) (entity.Product, error) {
		return ledger.Receive(p, ledger.ReceiveInput{
			BranchID:     in.BranchID,
			Quantity:     in.Quantity,
			ExpiryDate:   expiry,
			ReceivedDate: uc.today(),
			UnitCost:     in.UnitCost,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionStockReceived,
		Details:   withReason(fmt.Sprintf("%d units of Product ID %s received at Branch ID %s.", in.Quantity, in.ProductID, in.BranchID), in.Reason),
		ProductID: in.ProductID,
		BranchID:  in.BranchID,
		UserID:    user.ID,
	})
	return movementResponse(updated, in.BranchID, in.Quantity), nil
}

// Consume descuenta unidades de una sede (FEFO salvo que se pida FIFO).
func (uc *StockUseCase) Consume(ctx context.Context, user entity.User, in dto.ConsumeStockRequest) (*dto.StockMovementResponse, error) {
	if err := checkBranchAccess(user, in.BranchID); err != nil {
		return nil, err
	}
	policy, ok := ledger.ParsePolicy(in.Policy)
	if !ok {
		return nil, fmt.Errorf("%w: política %q desconocida", domain.ErrInvalidInput, in.Policy)
	}

	updated, err := uc.apply(ctx, in.ProductID, []string{in.BranchID}, func(p entity.Product) (entity.Product, error) {
		return ledger.Consume(p, in.BranchID, in.Quantity, policy)
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionStockConsumed,
		Details:   withReason(fmt.Sprintf("%d units of Product ID %s used at Branch ID %s (%s).", in.Quantity, in.ProductID, in.BranchID, policy), in.Reason),
		ProductID: in.ProductID,
		BranchID:  in.BranchID,
		UserID:    user.ID,
	})
	return movementResponse(updated, in.BranchID, -in.Quantity), nil
}

// Adjust fija el total de la sede al conteo físico. Un ajuste sin diferencia no se audita.
func (uc *StockUseCase) Adjust(ctx context.Context, user entity.User, in dto.AdjustStockRequest) (*dto.StockMovementResponse, error) {
	if err := checkBranchAccess(user, in.BranchID); err != nil {
		return nil, err
	}
	expiry, err := parseOptionalDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}

	var delta int
	updated, err := uc.apply(ctx, in.ProductID, []string{in.BranchID}, func(p entity.Product) (entity.Product, error) {
		out, d, err := ledger.Adjust(p, ledger.AdjustInput{
			BranchID:     in.BranchID,
			NewTotal:     in.NewTotal,
			ExpiryDate:   expiry,
			ReceivedDate: uc.today(),
		}, ledger.PolicyFEFO)
		delta = d
		return out, err
	})
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		uc.recorder.Record(ctx, audit.Entry{
			Action: entity.ActionStockAdjusted,
			Details: fmt.Sprintf("Product ID %s at Branch ID %s set to %d (%+d). Reason: %s.",
				in.ProductID, in.BranchID, in.NewTotal, delta, in.Reason),
			ProductID: in.ProductID,
			BranchID:  in.BranchID,
			UserID:    user.ID,
		})
	}
	return movementResponse(updated, in.BranchID, delta), nil
}

// Transfer mueve unidades de un lote a otra sede. Staff solo puede trasladar desde su sede.
func (uc *StockUseCase) Transfer(ctx context.Context, user entity.User, in dto.TransferStockRequest) (*dto.StockMovementResponse, error) {
	if err := checkBranchAccess(user, in.FromBranchID); err != nil {
		return nil, err
	}

	updated, err := uc.apply(ctx, in.ProductID, []string{in.FromBranchID, in.ToBranchID}, func(p entity.Product) (entity.Product, error) {
		return ledger.Transfer(p, ledger.TransferInput{
			FromBranchID: in.FromBranchID,
			ToBranchID:   in.ToBranchID,
			BatchID:      in.BatchID,
			Amount:       in.Amount,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionStockTransferred,
		Details:   fmt.Sprintf("%d units of Product ID %s from %s to %s.", in.Amount, in.ProductID, in.FromBranchID, in.ToBranchID),
		ProductID: in.ProductID,
		BranchID:  in.FromBranchID,
		UserID:    user.ID,
	})
	return movementResponse(updated, in.FromBranchID, -in.Amount), nil
}

// apply resuelve producto y sedes y reemplaza el producto con el resultado de op.
func (uc *StockUseCase) apply(ctx context.Context, productID string, branchIDs []string, op func(entity.Product) (entity.Product, error)) (entity.Product, error) {
	var updated entity.Product
	err := uc.catalog.Mutate(ctx, repository.CollectionProducts, func(s *catalog.Snapshot) error {
		idx := s.ProductIndex(productID)
		if idx < 0 {
			return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
		}
		for _, id := range branchIDs {
			if _, ok := s.Branch(id); !ok {
				return fmt.Errorf("%w: %s", domain.ErrBranchNotFound, id)
			}
		}
		next, err := op(s.Products[idx])
		if err != nil {
			return err
		}
		s.Products[idx] = next
		updated = next.Clone()
		return nil
	})
	if err != nil {
		return entity.Product{}, err
	}
	return updated, nil
}

func checkBranchAccess(user entity.User, branchID string) error {
	if !user.CanAccessBranch(branchID) {
		return fmt.Errorf("%w: sin acceso a la sede %s", domain.ErrForbidden, branchID)
	}
	return nil
}

func parseOptionalDate(s string) (*entity.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := entity.ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha de vencimiento: %v", domain.ErrInvalidInput, err)
	}
	return &d, nil
}

func withReason(details, reason string) string {
	if reason == "" {
		return details
	}
	return details + " Reason: " + reason + "."
}

func movementResponse(p entity.Product, branchID string, delta int) *dto.StockMovementResponse {
	return &dto.StockMovementResponse{
		Product:     p,
		BranchTotal: ledger.BranchTotal(p, branchID),
		Delta:       delta,
	}
}
