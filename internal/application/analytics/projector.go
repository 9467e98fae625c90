package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/inventory"
)

// Proyector de vistas: funciones puras sobre el catálogo y las últimas predicciones.
// Nada de lo que devuelven se persiste.

const (
	DefaultMoversCount = 5
	NearingExpiryDays  = 30
	AllBranches        = "all"
)

// BuildInventoryItems combina cada producto con su predicción (indexada por id) y su stock total.
// Sin predicción los campos quedan vacíos.
func BuildInventoryItems(products []entity.Product, predictions []entity.PredictionResult) []entity.InventoryItem {
	byID := make(map[string]entity.PredictionResult, len(predictions))
	for _, pr := range predictions {
		byID[pr.ProductID] = pr
	}
	items := make([]entity.InventoryItem, 0, len(products))
	for _, p := range products {
		item := entity.InventoryItem{Product: p, TotalStock: inventory.ProductTotal(p)}
		if pr, ok := byID[p.ID]; ok {
			usage := pr.PredictedUsage
			item.PredictedUsage = &usage
			item.RestockSuggestion = pr.RestockSuggestion
			item.Urgency = pr.Urgency
			item.BranchSuggestions = pr.BranchSuggestions
		}
		items = append(items, item)
	}
	return items
}

// ViewForUser Admin ve todo sin cambios. Staff ve cada producto reducido a su sede:
// a lo sumo un StockLevel y TotalStock igual al total de esa sede.
func ViewForUser(items []entity.InventoryItem, user entity.User) []entity.InventoryItem {
	if user.IsAdmin() {
		return items
	}
	out := make([]entity.InventoryItem, len(items))
	for i, item := range items {
		out[i] = reshapeToBranch(item, user.BranchID)
	}
	return out
}

// FilterByBranch filtro de sede del tablero: reduce a la sede y descarta productos sin stock allí.
func FilterByBranch(items []entity.InventoryItem, branchID string) []entity.InventoryItem {
	if branchID == "" || branchID == AllBranches {
		return items
	}
	out := make([]entity.InventoryItem, 0, len(items))
	for _, item := range items {
		reshaped := reshapeToBranch(item, branchID)
		if reshaped.TotalStock > 0 {
			out = append(out, reshaped)
		}
	}
	return out
}

func reshapeToBranch(item entity.InventoryItem, branchID string) entity.InventoryItem {
	sl, ok := item.StockLevel(branchID)
	item.StockLevels = []entity.StockLevel{}
	item.TotalStock = 0
	if ok {
		item.StockLevels = []entity.StockLevel{sl}
		item.TotalStock = sl.Total()
	}
	return item
}

// UsageByProduct consumo por producto en los últimos days días, de todas las sedes o de una.
func UsageByProduct(products []entity.Product, days int, branchID string) map[string]int {
	out := make(map[string]int, len(products))
	for _, p := range products {
		total := 0
		for _, hu := range p.HistoricalUsage {
			if branchID != "" && branchID != AllBranches && hu.BranchID != branchID {
				continue
			}
			series := hu.Usage
			if days > 0 && len(series) > days {
				series = series[len(series)-days:]
			}
			for _, v := range series {
				total += v
			}
		}
		out[p.ID] = total
	}
	return out
}

// DashboardKPIs valor de inventario, valor consumido y rotación (0 si el inventario vale 0).
// NearingExpiryCount cuenta productos con algún lote que vence en los próximos 30 días o ya vencido.
func DashboardKPIs(items []entity.InventoryItem, products []entity.Product, usage map[string]int, asOf entity.Date) entity.DashboardKPIs {
	inventoryValue := decimal.Zero
	for _, item := range items {
		inventoryValue = inventoryValue.Add(decimal.NewFromInt(int64(item.TotalStock)).Mul(item.Price()))
	}

	usageValue := decimal.Zero
	nearing := 0
	for _, p := range products {
		usageValue = usageValue.Add(decimal.NewFromInt(int64(usage[p.ID])).Mul(p.Price()))
		if inventory.HasExpiringStock(p, asOf, NearingExpiryDays) {
			nearing++
		}
	}

	turnover := decimal.Zero
	if inventoryValue.IsPositive() {
		turnover = usageValue.DivRound(inventoryValue, 4)
	}
	return entity.DashboardKPIs{
		TotalInventoryValue: inventoryValue.Round(2),
		TotalUsageValue:     usageValue.Round(2),
		StockTurnover:       turnover,
		NearingExpiryCount:  nearing,
	}
}

// TopAndSlowMovers ordena por consumo descendente; top son los n primeros y slow los n últimos
// invertidos (el de menor consumo primero).
func TopAndSlowMovers(products []entity.Product, usage map[string]int, n int) entity.Movers {
	if n <= 0 {
		n = DefaultMoversCount
	}
	sorted := append([]entity.Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return usage[sorted[i].ID] > usage[sorted[j].ID]
	})

	k := min(n, len(sorted))
	top := append([]entity.Product{}, sorted[:k]...)
	slow := make([]entity.Product, 0, k)
	for i := len(sorted) - 1; i >= len(sorted)-k; i-- {
		slow = append(slow, sorted[i])
	}
	return entity.Movers{Top: top, Slow: slow}
}

// BranchPerformance agregados por sede. Una alerta cuenta si la urgencia es High y hay sugerencia
// para la sede o su stock está por debajo del mínimo del producto (50 si no está definido).
// TopUsedItem solo queda nil si el catálogo está vacío.
func BranchPerformance(branches []entity.Branch, items []entity.InventoryItem, products []entity.Product) []entity.BranchPerformance {
	out := make([]entity.BranchPerformance, 0, len(branches))
	for _, b := range branches {
		perf := entity.BranchPerformance{BranchID: b.ID, BranchName: b.Name}
		for _, item := range items {
			units := inventory.BranchTotal(item.Product, b.ID)
			if units > 0 {
				perf.TotalProducts++
				perf.TotalStockUnits += units
			}
			if item.Urgency == entity.UrgencyHigh && (item.HasSuggestionFor(b.ID) || units < item.MinStock()) {
				perf.HighUrgencyAlerts++
			}
		}

		// el más usado en la sede; con empate gana el primero del catálogo, aunque el uso sea 0
		best := -1
		for _, p := range products {
			used := 0
			for _, v := range p.UsageFor(b.ID) {
				used += v
			}
			if used > best {
				best = used
				top := p
				perf.TopUsedItem = &top
			}
		}
		out = append(out, perf)
	}
	return out
}

// HighUrgencyAlerts productos con urgencia High que el usuario no ha reconocido.
func HighUrgencyAlerts(items []entity.InventoryItem, acknowledged map[string]bool) []entity.InventoryItem {
	out := []entity.InventoryItem{}
	for _, item := range items {
		if item.Urgency == entity.UrgencyHigh && !acknowledged[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// Suggestions productos con urgencia High o Medium que traen sugerencia de reposición.
func Suggestions(items []entity.InventoryItem) []entity.InventoryItem {
	out := []entity.InventoryItem{}
	for _, item := range items {
		if (item.Urgency == entity.UrgencyHigh || item.Urgency == entity.UrgencyMedium) && item.RestockSuggestion != "" {
			out = append(out, item)
		}
	}
	return out
}
