package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/inventory"
)

var csvHeader = []string{"id", "name", "supplier_id", "min_stock_level", "purchase_price", "branch_id", "quantity", "expiry_date"}

// ImportProductsCSV lee productos con su stock inicial. Cada fila es un lote; filas con el mismo id
// se agrupan en un producto. Con latin1 el archivo se decodifica desde ISO-8859-1 (exportes de Excel).
func ImportProductsCSV(r io.Reader, latin1 bool, received entity.Date) ([]entity.Product, error) {
	if latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: cabecera: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("csv: se esperaban columnas %s", strings.Join(csvHeader, ","))
	}
	for i, h := range header {
		if strings.TrimSpace(strings.ToLower(h)) != csvHeader[i] {
			return nil, fmt.Errorf("csv: columna %d debe ser %q, llegó %q", i+1, csvHeader[i], h)
		}
	}

	var out []entity.Product
	index := map[string]int{}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: %w", line, err)
		}

		id := strings.TrimSpace(rec[0])
		if id == "" {
			return nil, fmt.Errorf("csv: línea %d: id vacío", line)
		}
		pos, ok := index[id]
		if !ok {
			p, err := productFromRecord(rec)
			if err != nil {
				return nil, fmt.Errorf("csv: línea %d: %w", line, err)
			}
			out = append(out, p)
			pos = len(out) - 1
			index[id] = pos
		}

		if strings.TrimSpace(rec[5]) == "" {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(rec[6]))
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: cantidad inválida: %w", line, err)
		}
		in := inventory.ReceiveInput{BranchID: strings.TrimSpace(rec[5]), Quantity: qty, ReceivedDate: received}
		if s := strings.TrimSpace(rec[7]); s != "" {
			exp, err := entity.ParseDate(s)
			if err != nil {
				return nil, fmt.Errorf("csv: línea %d: %w", line, err)
			}
			in.ExpiryDate = &exp
		}
		updated, err := inventory.Receive(out[pos], in)
		if err != nil {
			return nil, fmt.Errorf("csv: línea %d: %w", line, err)
		}
		out[pos] = updated
	}
	return out, nil
}

func productFromRecord(rec []string) (entity.Product, error) {
	p := entity.Product{
		ID:         strings.TrimSpace(rec[0]),
		Name:       strings.TrimSpace(rec[1]),
		SupplierID: strings.TrimSpace(rec[2]),
	}
	if p.Name == "" || p.SupplierID == "" {
		return p, fmt.Errorf("nombre y proveedor son obligatorios")
	}
	if s := strings.TrimSpace(rec[3]); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return p, fmt.Errorf("min_stock_level inválido %q", s)
		}
		p.MinStockLevel = &n
	}
	if s := strings.TrimSpace(rec[4]); s != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil || price.IsNegative() {
			return p, fmt.Errorf("purchase_price inválido %q", s)
		}
		p.PurchasePrice = &price
	}
	return p, nil
}
