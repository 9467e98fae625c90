package ai

import (
	"fmt"
	"strings"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

const usageSummaryDays = 7

const restockInstructions = `Eres un analista experto en inventario de una cadena de clínicas dentales con varias sedes.
Predice las necesidades de reposición de los próximos 30 días.

El campo min_stock_level es el stock de seguridad: si una sede está en ese nivel o por debajo, la situación es prioritaria.
Considera las fechas de vencimiento: lo que vence en los próximos 30 a 60 días debe marcarse para traslado o uso prioritario
y no se debe sugerir reponer una sede cuyo stock está por vencer. Usa el consumo de los últimos 7 días para proyectar la demanda.

Devuelve ÚNICAMENTE un arreglo JSON (sin texto adicional) con un objeto por producto:
[
  {
    "product_id": "<id del producto>",
    "predicted_usage": <entero: consumo total estimado en 30 días, todas las sedes>,
    "restock_suggestion": "<acción concisa, p. ej. 'Reponer 150 unidades' o 'Trasladar de Downtown a Westside'>",
    "urgency": "<Low | Medium | High>",
    "branch_suggestions": [{"branch_id": "<id de sede>", "restock_amount": <entero >= 0>}]
  }
]

Reglas de urgencia:
- High: alguna sede está en o bajo su min_stock_level, o se agotará en 30 días, o tiene stock próximo a vencer.
- Medium: el stock total podría quedar bajo hacia el final del período.
- Low: el stock es suficiente.
Incluye en branch_suggestions solo las sedes que requieren acción.`

const priceInstructions = `Eres un analista de cadena de suministro y precios.
Analiza el historial de precios de cada producto del proveedor indicado (tendencia, estacionalidad si se percibe)
y predice la variación para los próximos 3 a 6 meses.

Devuelve ÚNICAMENTE un arreglo JSON (sin texto adicional):
[
  {
    "product_id": "<id del producto>",
    "product_name": "<nombre del producto>",
    "prediction_summary": "<resumen breve de la variación esperada>",
    "predicted_change_percentage": <número: positivo si sube, negativo si baja, 0 si estable>
  }
]`

// restockPrompt describe sedes, proveedores y productos (stock por lote y consumo reciente).
func restockPrompt(products []entity.Product, branches []entity.Branch, suppliers []entity.Supplier, today entity.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fecha de hoy: %s\n\nSedes:\n", today)
	for _, br := range branches {
		fmt.Fprintf(&b, "- {id: %q, name: %q}\n", br.ID, br.Name)
	}
	b.WriteString("\nProveedores:\n")
	for _, s := range suppliers {
		fmt.Fprintf(&b, "- {id: %q, name: %q}\n", s.ID, s.Name)
	}
	b.WriteString("\nProductos:\n")
	for _, p := range products {
		fmt.Fprintf(&b, "- {id: %q, name: %q, supplier_id: %q, min_stock_level: %d, stock: [", p.ID, p.Name, p.SupplierID, p.MinStock())
		first := true
		for _, sl := range p.StockLevels {
			for _, bt := range sl.Batches {
				if !first {
					b.WriteString(", ")
				}
				first = false
				fmt.Fprintf(&b, "{branch_id: %q, quantity: %d", sl.BranchID, bt.Quantity)
				if bt.ExpiryDate != nil {
					fmt.Fprintf(&b, ", expiry_date: %q", bt.ExpiryDate.String())
				}
				b.WriteString("}")
			}
		}
		b.WriteString("], usage_last_7_days: [")
		for i, hu := range p.HistoricalUsage {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "{branch_id: %q, total: %d}", hu.BranchID, lastDaysTotal(hu.Usage, usageSummaryDays))
		}
		b.WriteString("]}\n")
	}
	return b.String()
}

func pricePrompt(supplier entity.Supplier, products []entity.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Proveedor: %q\n\nProductos:\n", supplier.Name)
	for _, p := range products {
		fmt.Fprintf(&b, "- {id: %q, name: %q, historical_prices: [", p.ID, p.Name)
		for i, hp := range p.HistoricalPrices {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "{date: %q, price: %s}", hp.Date.String(), hp.Price.String())
		}
		b.WriteString("]}\n")
	}
	return b.String()
}

func lastDaysTotal(series []int, days int) int {
	if len(series) > days {
		series = series[len(series)-days:]
	}
	total := 0
	for _, v := range series {
		total += v
	}
	return total
}
