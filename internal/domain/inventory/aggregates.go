package inventory

import (
	"sort"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// TotalStock suma de cantidades de un StockLevel.
func TotalStock(sl entity.StockLevel) int {
	return sl.Total()
}

// ProductTotal stock del producto sumando todas las sedes.
func ProductTotal(p entity.Product) int {
	total := 0
	for _, sl := range p.StockLevels {
		total += sl.Total()
	}
	return total
}

// BranchTotal stock del producto en una sede (0 si no hay StockLevel).
func BranchTotal(p entity.Product, branchID string) int {
	sl, _ := p.StockLevel(branchID)
	return sl.Total()
}

// HasStockAt indica si el producto tiene unidades en la sede.
func HasStockAt(p entity.Product, branchID string) bool {
	return BranchTotal(p, branchID) > 0
}

// ExpiringWithin lista los lotes cuyo vencimiento cae en [asOf, asOf+horizonDays],
// ordenados por días restantes ascendente.
func ExpiringWithin(products []entity.Product, branches []entity.Branch, horizonDays int, asOf entity.Date) []entity.ExpiringBatch {
	names := make(map[string]string, len(branches))
	for _, b := range branches {
		names[b.ID] = b.Name
	}
	limit := asOf.AddDays(horizonDays)

	out := []entity.ExpiringBatch{}
	for _, p := range products {
		for _, sl := range p.StockLevels {
			for _, b := range sl.Batches {
				if b.ExpiryDate == nil || b.Quantity <= 0 {
					continue
				}
				exp := *b.ExpiryDate
				if exp.Before(asOf) || exp.After(limit) {
					continue
				}
				name, ok := names[sl.BranchID]
				if !ok {
					name = sl.BranchID
				}
				out = append(out, entity.ExpiringBatch{
					ProductID:       p.ID,
					ProductName:     p.Name,
					BranchID:        sl.BranchID,
					BranchName:      name,
					BatchID:         b.BatchID,
					Quantity:        b.Quantity,
					ExpiryDate:      exp,
					DaysUntilExpiry: max(0, asOf.DaysUntil(exp)),
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntilExpiry < out[j].DaysUntilExpiry
	})
	return out
}

// HasExpiringStock indica si algún lote vence a más tardar en asOf+days (incluye vencidos).
func HasExpiringStock(p entity.Product, asOf entity.Date, days int) bool {
	limit := asOf.AddDays(days)
	for _, sl := range p.StockLevels {
		for _, b := range sl.Batches {
			if b.ExpiryDate != nil && b.Quantity > 0 && !b.ExpiryDate.After(limit) {
				return true
			}
		}
	}
	return false
}
