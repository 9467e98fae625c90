// Package analytics contiene el proyector de vistas de inventario y los casos de uso del tablero.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/inventory"
)

const defaultExpiryHorizon = 30

// PredictionSource últimas predicciones disponibles y alertas reconocidas por usuario.
type PredictionSource interface {
	Latest(ctx context.Context) ([]entity.PredictionResult, error)
	Acknowledged(userID string) map[string]bool
}

// DashboardUseCase arma las vistas de inventario y el tablero a partir del catálogo y las predicciones.
type DashboardUseCase struct {
	catalog     *catalog.Catalog
	predictions PredictionSource
	today       func() entity.Date
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(cat *catalog.Catalog, predictions PredictionSource) *DashboardUseCase {
	return &DashboardUseCase{catalog: cat, predictions: predictions, today: entity.Today}
}

// items devuelve snapshot e items con predicciones. Una falla del origen de predicciones no es
// fatal: se sigue sin ellas.
func (uc *DashboardUseCase) items(ctx context.Context) (catalog.Snapshot, []entity.InventoryItem, bool) {
	snap := uc.catalog.Snapshot()
	preds, err := uc.predictions.Latest(ctx)
	if err != nil {
		preds = nil
	}
	return snap, BuildInventoryItems(snap.Products, preds), len(preds) > 0
}

// InventoryView inventario proyectado según el rol del usuario.
func (uc *DashboardUseCase) InventoryView(ctx context.Context, user entity.User) []entity.InventoryItem {
	_, items, _ := uc.items(ctx)
	return ViewForUser(items, user)
}

// Expiring lotes que vencen en los próximos horizonDays días; Staff solo ve su sede.
func (uc *DashboardUseCase) Expiring(ctx context.Context, user entity.User, horizonDays int) dto.ExpiringResponse {
	if horizonDays <= 0 {
		horizonDays = defaultExpiryHorizon
	}
	snap := uc.catalog.Snapshot()
	asOf := uc.today()
	list := inventory.ExpiringWithin(snap.Products, snap.Branches, horizonDays, asOf)
	if !user.IsAdmin() {
		filtered := list[:0]
		for _, e := range list {
			if e.BranchID == user.BranchID {
				filtered = append(filtered, e)
			}
		}
		list = filtered
	}
	return dto.ExpiringResponse{AsOf: asOf.String(), HorizonDays: horizonDays, Items: list}
}

// BranchPerformance agregados por sede (vista de administración).
func (uc *DashboardUseCase) BranchPerformance(ctx context.Context, user entity.User) ([]entity.BranchPerformance, error) {
	if !user.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	snap, items, _ := uc.items(ctx)
	return BranchPerformance(snap.Branches, items, snap.Products), nil
}

// Alerts alertas High no reconocidas por el usuario, dentro de su vista.
func (uc *DashboardUseCase) Alerts(ctx context.Context, user entity.User) []entity.InventoryItem {
	_, items, _ := uc.items(ctx)
	return HighUrgencyAlerts(ViewForUser(items, user), uc.predictions.Acknowledged(user.ID))
}

// Suggestions sugerencias de reposición High/Medium dentro de la vista del usuario.
func (uc *DashboardUseCase) Suggestions(ctx context.Context, user entity.User) []entity.InventoryItem {
	_, items, _ := uc.items(ctx)
	return Suggestions(ViewForUser(items, user))
}

// GetSummary construye el tablero para la ventana y sede pedidas. Staff queda fijo en su sede.
//
// Las partes independientes se calculan en paralelo:
//  1. KPIs y movers (dependen del consumo de la ventana)
//  2. Lotes por vencer
//  3. Rendimiento por sede (solo Admin)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, user entity.User, filter dto.DashboardFilter) (*dto.DashboardSummaryDTO, error) {
	filter.Normalize()
	if !user.IsAdmin() {
		filter.BranchID = user.BranchID
	}

	snap, items, ready := uc.items(ctx)
	if filter.BranchID != AllBranches {
		if _, ok := snap.Branch(filter.BranchID); !ok {
			return nil, fmt.Errorf("dashboard: %w", domain.ErrBranchNotFound)
		}
	}
	asOf := uc.today()
	out := &dto.DashboardSummaryDTO{
		Days:             filter.Days,
		BranchID:         filter.BranchID,
		PredictionsReady: ready,
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		usage := UsageByProduct(snap.Products, filter.Days, filter.BranchID)
		out.KPIs = DashboardKPIs(FilterByBranch(items, filter.BranchID), snap.Products, usage, asOf)
		out.Movers = TopAndSlowMovers(snap.Products, usage, DefaultMoversCount)
		return nil
	})
	g.Go(func() error {
		expiring := inventory.ExpiringWithin(snap.Products, snap.Branches, defaultExpiryHorizon, asOf)
		out.Expiring = make([]entity.ExpiringBatch, 0, len(expiring))
		for _, e := range expiring {
			if filter.BranchID == AllBranches || e.BranchID == filter.BranchID {
				out.Expiring = append(out.Expiring, e)
			}
		}
		return nil
	})
	if user.IsAdmin() {
		g.Go(func() error {
			out.BranchPerformance = BranchPerformance(snap.Branches, items, snap.Products)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	view := ViewForUser(items, user)
	out.Alerts = HighUrgencyAlerts(view, uc.predictions.Acknowledged(user.ID))
	out.Suggestions = Suggestions(view)
	return out, nil
}
