package entity

import "github.com/shopspring/decimal"

// DefaultMinStockLevel umbral usado cuando el producto no define MinStockLevel.
const DefaultMinStockLevel = 50

// HistoricalUsage serie de consumo diario de una sede (el dato más reciente al final).
type HistoricalUsage struct {
	BranchID string `json:"branch_id"`
	Usage    []int  `json:"usage"`
}

// HistoricalPrice precio de compra observado en una fecha.
type HistoricalPrice struct {
	Date  Date            `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// Product insumo del catálogo con su stock por sede (en lotes) y series históricas.
type Product struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	SupplierID       string            `json:"supplier_id"`
	MinStockLevel    *int              `json:"min_stock_level,omitempty"`
	PurchasePrice    *decimal.Decimal  `json:"purchase_price,omitempty"`
	StockLevels      []StockLevel      `json:"stock_levels"`
	HistoricalUsage  []HistoricalUsage `json:"historical_usage"`
	HistoricalPrices []HistoricalPrice `json:"historical_prices"`
}

// EntityID implementa el contrato de documentos con id.
func (p Product) EntityID() string { return p.ID }

// MinStock umbral mínimo efectivo.
func (p Product) MinStock() int {
	if p.MinStockLevel == nil {
		return DefaultMinStockLevel
	}
	return *p.MinStockLevel
}

// Price precio de compra efectivo (cero si no está definido).
func (p Product) Price() decimal.Decimal {
	if p.PurchasePrice == nil {
		return decimal.Zero
	}
	return *p.PurchasePrice
}

// StockLevel devuelve el StockLevel de la sede y si existe.
func (p Product) StockLevel(branchID string) (StockLevel, bool) {
	for _, sl := range p.StockLevels {
		if sl.BranchID == branchID {
			return sl, true
		}
	}
	return StockLevel{BranchID: branchID}, false
}

// UsageFor serie de consumo de una sede (nil si no hay).
func (p Product) UsageFor(branchID string) []int {
	for _, u := range p.HistoricalUsage {
		if u.BranchID == branchID {
			return u.Usage
		}
	}
	return nil
}

// Clone copia profunda: el ledger trabaja sobre valores y nunca muta el original.
func (p Product) Clone() Product {
	out := p
	if p.MinStockLevel != nil {
		v := *p.MinStockLevel
		out.MinStockLevel = &v
	}
	if p.PurchasePrice != nil {
		v := *p.PurchasePrice
		out.PurchasePrice = &v
	}
	out.StockLevels = nil
	if p.StockLevels != nil {
		out.StockLevels = make([]StockLevel, len(p.StockLevels))
		for i, sl := range p.StockLevels {
			out.StockLevels[i] = sl.Clone()
		}
	}
	out.HistoricalUsage = nil
	if p.HistoricalUsage != nil {
		out.HistoricalUsage = make([]HistoricalUsage, len(p.HistoricalUsage))
		for i, u := range p.HistoricalUsage {
			out.HistoricalUsage[i] = HistoricalUsage{BranchID: u.BranchID, Usage: append([]int(nil), u.Usage...)}
		}
	}
	out.HistoricalPrices = append([]HistoricalPrice(nil), p.HistoricalPrices...)
	return out
}
