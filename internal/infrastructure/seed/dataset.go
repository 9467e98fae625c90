package seed

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// DefaultPassword contraseña de los usuarios semilla (solo entornos de desarrollo).
const DefaultPassword = "password123"

const (
	usageDays = 90
	priceDays = 365
)

// PasswordHasher genera el hash de las contraseñas semilla.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type productSpec struct {
	id, name, supplierID string
	minStock             *int
	price                float64
	usageBase            [3]int
	stock                [3]int
	expiryOffset         [3]int // días desde hoy; 0 = sin vencimiento
}

func intPtr(v int) *int { return &v }

var products = []productSpec{
	{"prod-1", "Nitrile Examination Gloves (Box of 100)", "sup-1", intPtr(50), 8.50, [3]int{10, 15, 5}, [3]int{85, 150, 40}, [3]int{420, 420, 390}},
	{"prod-2", "Lidocaine 2% Cartridges (Box of 50)", "sup-2", intPtr(30), 42.00, [3]int{4, 6, 3}, [3]int{45, 60, 20}, [3]int{240, 240, 25}},
	{"prod-3", "Composite Resin A2 Syringe", "sup-1", intPtr(40), 27.00, [3]int{8, 12, 18}, [3]int{30, 50, 75}, [3]int{200, 200, 230}},
	{"prod-4", "Disposable Face Masks (Box of 50)", "sup-3", intPtr(100), 6.00, [3]int{20, 25, 10}, [3]int{120, 200, 90}, [3]int{700, 700, 700}},
	{"prod-5", "Alginate Impression Material 500g", "sup-2", intPtr(20), 14.75, [3]int{3, 5, 2}, [3]int{25, 18, 12}, [3]int{150, 150, 180}},
	{"prod-6", "Sterilization Pouches (Pack of 200)", "sup-3", nil, 11.20, [3]int{6, 7, 4}, [3]int{60, 45, 35}, [3]int{0, 0, 0}},
}

// Branches sedes iniciales.
func Branches() []entity.Branch {
	return []entity.Branch{
		{ID: "branch-1", Name: "Downtown"},
		{ID: "branch-2", Name: "Westside"},
		{ID: "branch-3", Name: "North End"},
	}
}

// Suppliers proveedores iniciales.
func Suppliers() []entity.Supplier {
	return []entity.Supplier{
		{ID: "sup-1", Name: "DentalPro Supply", ContactEmail: "orders@dentalpro.example", QuickReorderEnabled: true},
		{ID: "sup-2", Name: "MediCorp Dental", ContactEmail: "sales@medicorp.example"},
		{ID: "sup-3", Name: "SmileSource Ltd.", ContactEmail: "contact@smilesource.example"},
	}
}

// Dataset construye el catálogo semilla con fechas relativas a today. Es determinista.
func Dataset(today entity.Date, hasher PasswordHasher) (catalog.Snapshot, error) {
	hash, err := hasher.Hash(DefaultPassword)
	if err != nil {
		return catalog.Snapshot{}, fmt.Errorf("seed: %w", err)
	}
	users := []entity.User{
		{ID: "user-1", Name: "Alex Johnson", Username: "admin", PasswordHash: hash, Role: entity.RoleAdmin},
		{ID: "user-2", Name: "Maria Garcia", Username: "maria", PasswordHash: hash, Role: entity.RoleStaff, BranchID: "branch-1"},
		{ID: "user-3", Name: "Sam Chen", Username: "sam", PasswordHash: hash, Role: entity.RoleStaff, BranchID: "branch-2"},
		{ID: "user-4", Name: "Priya Patel", Username: "priya", PasswordHash: hash, Role: entity.RoleStaff, BranchID: "branch-3"},
	}

	branches := Branches()
	out := catalog.Snapshot{
		Branches:  branches,
		Suppliers: Suppliers(),
		Users:     users,
		Products:  make([]entity.Product, 0, len(products)),
	}
	received := today.AddDays(-14)
	for pi, def := range products {
		price := decimal.NewFromFloat(def.price)
		p := entity.Product{
			ID:               def.id,
			Name:             def.name,
			SupplierID:       def.supplierID,
			MinStockLevel:    def.minStock,
			PurchasePrice:    &price,
			HistoricalPrices: priceSeries(price, today, pi),
		}
		for bi, b := range branches {
			batch := entity.Batch{
				BatchID:      fmt.Sprintf("%s-%s-initial", def.id, b.ID),
				Quantity:     def.stock[bi],
				DateReceived: received,
			}
			if def.expiryOffset[bi] > 0 {
				exp := today.AddDays(def.expiryOffset[bi])
				batch.ExpiryDate = &exp
			}
			p.StockLevels = append(p.StockLevels, entity.StockLevel{BranchID: b.ID, Batches: []entity.Batch{batch}})
			p.HistoricalUsage = append(p.HistoricalUsage, entity.HistoricalUsage{
				BranchID: b.ID,
				Usage:    usageSeries(def.usageBase[bi], pi+bi),
			})
		}
		out.Products = append(out.Products, p)
	}
	return out, nil
}

// usageSeries consumo diario determinista alrededor de base (±2), el más reciente al final.
func usageSeries(base, salt int) []int {
	series := make([]int, usageDays)
	for i := range series {
		series[i] = max(0, base+(i*7+salt)%5-2)
	}
	return series
}

// priceSeries un precio por mes durante el último año, con variaciones de hasta ±3%.
func priceSeries(base decimal.Decimal, today entity.Date, salt int) []entity.HistoricalPrice {
	var out []entity.HistoricalPrice
	for d := priceDays; d >= 0; d -= 30 {
		step := int64((d/30+salt)%7) - 3
		factor := decimal.NewFromInt(100 + step).Div(decimal.NewFromInt(100))
		out = append(out, entity.HistoricalPrice{
			Date:  today.AddDays(-d),
			Price: base.Mul(factor).Round(2),
		})
	}
	return out
}
