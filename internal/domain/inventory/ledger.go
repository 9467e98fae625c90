package inventory

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// Operaciones puras del ledger de lotes. Reciben un Product por valor y devuelven uno nuevo;
// el original nunca se modifica. Ante error se devuelve el producto de entrada sin cambios.

// newBatchID generador de identidad de lotes (reemplazable en tests).
var newBatchID = uuid.NewString

// ReceiveInput datos de una recepción.
type ReceiveInput struct {
	BranchID     string
	Quantity     int
	ExpiryDate   *entity.Date
	ReceivedDate entity.Date
	// UnitCost opcional: si viene, el precio de compra pasa a ser el promedio ponderado.
	UnitCost *decimal.Decimal
}

// TransferInput datos de un traslado de un lote entre sedes.
type TransferInput struct {
	FromBranchID string
	ToBranchID   string
	BatchID      string
	Amount       int
}

// Receive ingresa cantidad a la sede. Si ya hay un lote con el mismo (vencimiento, fecha de ingreso)
// se suma a ese lote; si no, se crea uno nuevo con identidad propia.
func Receive(p entity.Product, in ReceiveInput) (entity.Product, error) {
	if in.Quantity <= 0 {
		return p, fmt.Errorf("%w: la cantidad a recibir debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if in.BranchID == "" {
		return p, fmt.Errorf("%w: sede requerida", domain.ErrInvalidInput)
	}
	if in.ReceivedDate.IsZero() {
		return p, fmt.Errorf("%w: fecha de ingreso requerida", domain.ErrInvalidInput)
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return p, fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}

	out := p.Clone()
	if in.UnitCost != nil {
		price := CostCalculator(
			decimal.NewFromInt(int64(ProductTotal(p))), p.Price(),
			decimal.NewFromInt(int64(in.Quantity)), *in.UnitCost,
		)
		out.PurchasePrice = &price
	}

	idx := levelIndex(&out, in.BranchID)
	out.StockLevels[idx] = mergeInto(out.StockLevels[idx], entity.Batch{
		Quantity:     in.Quantity,
		ExpiryDate:   in.ExpiryDate,
		DateReceived: in.ReceivedDate,
	})
	return out, nil
}

// Consume descuenta cantidad de la sede recorriendo los lotes en el orden de la política.
// Los lotes que quedan en 0 se eliminan.
func Consume(p entity.Product, branchID string, quantity int, policy Policy) (entity.Product, error) {
	if quantity <= 0 {
		return p, fmt.Errorf("%w: la cantidad a consumir debe ser mayor que 0", domain.ErrInvalidInput)
	}
	available := BranchTotal(p, branchID)
	if quantity > available {
		return p, fmt.Errorf("%w: solicitado %d, disponible %d en sede %s", domain.ErrInsufficientStock, quantity, available, branchID)
	}

	out := p.Clone()
	idx := levelIndex(&out, branchID)
	remaining := quantity
	kept := make([]entity.Batch, 0, len(out.StockLevels[idx].Batches))
	for _, b := range policy.Order(out.StockLevels[idx].Batches) {
		if remaining > 0 {
			take := min(b.Quantity, remaining)
			b.Quantity -= take
			remaining -= take
		}
		if b.Quantity > 0 {
			kept = append(kept, b)
		}
	}
	out.StockLevels[idx].Batches = kept
	return out, nil
}

// Transfer mueve amount unidades de un lote de una sede a otra. En destino se suman al lote con
// el mismo vencimiento, que conserva su fecha de ingreso; si no hay, se crea uno con vencimiento
// y fecha de ingreso del origen.
// El total del producto se conserva.
func Transfer(p entity.Product, in TransferInput) (entity.Product, error) {
	if in.FromBranchID == in.ToBranchID {
		return p, fmt.Errorf("%w: origen y destino son la misma sede", domain.ErrInvalidTransfer)
	}
	if in.ToBranchID == "" {
		return p, fmt.Errorf("%w: sede destino requerida", domain.ErrInvalidTransfer)
	}
	if in.Amount <= 0 {
		return p, fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidTransfer)
	}
	src, ok := p.StockLevel(in.FromBranchID)
	if !ok {
		return p, fmt.Errorf("%w: lote %s no existe en sede %s", domain.ErrInvalidTransfer, in.BatchID, in.FromBranchID)
	}
	pos := -1
	for i, b := range src.Batches {
		if b.BatchID == in.BatchID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return p, fmt.Errorf("%w: lote %s no existe en sede %s", domain.ErrInvalidTransfer, in.BatchID, in.FromBranchID)
	}
	if in.Amount > src.Batches[pos].Quantity {
		return p, fmt.Errorf("%w: el lote %s tiene %d unidades, se pidieron %d",
			domain.ErrInvalidTransfer, in.BatchID, src.Batches[pos].Quantity, in.Amount)
	}

	out := p.Clone()
	from := levelIndex(&out, in.FromBranchID)
	moved := out.StockLevels[from].Batches[pos]
	out.StockLevels[from].Batches[pos].Quantity -= in.Amount
	if out.StockLevels[from].Batches[pos].Quantity == 0 {
		bs := out.StockLevels[from].Batches
		out.StockLevels[from].Batches = append(bs[:pos:pos], bs[pos+1:]...)
	}

	to := levelIndex(&out, in.ToBranchID)
	out.StockLevels[to] = mergeByExpiry(out.StockLevels[to], entity.Batch{
		Quantity:     in.Amount,
		ExpiryDate:   moved.ExpiryDate,
		DateReceived: moved.DateReceived,
	})
	return out, nil
}

// AdjustInput fija el total de una sede a NewTotal (conteo físico).
type AdjustInput struct {
	BranchID     string
	NewTotal     int
	ExpiryDate   *entity.Date // solo aplica si el ajuste es positivo
	ReceivedDate entity.Date
}

// Adjust lleva el stock de la sede a NewTotal: una diferencia positiva se recibe como lote
// y una negativa se consume con la política dada. Devuelve también la diferencia aplicada.
func Adjust(p entity.Product, in AdjustInput, policy Policy) (entity.Product, int, error) {
	if in.NewTotal < 0 {
		return p, 0, fmt.Errorf("%w: el stock no puede ser negativo", domain.ErrInvalidInput)
	}
	delta := in.NewTotal - BranchTotal(p, in.BranchID)
	switch {
	case delta > 0:
		out, err := Receive(p, ReceiveInput{
			BranchID:     in.BranchID,
			Quantity:     delta,
			ExpiryDate:   in.ExpiryDate,
			ReceivedDate: in.ReceivedDate,
		})
		return out, delta, err
	case delta < 0:
		out, err := Consume(p, in.BranchID, -delta, policy)
		return out, delta, err
	}
	return p, 0, nil
}

// levelIndex posición del StockLevel de la sede; lo crea vacío si no existe.
func levelIndex(p *entity.Product, branchID string) int {
	for i, sl := range p.StockLevels {
		if sl.BranchID == branchID {
			return i
		}
	}
	p.StockLevels = append(p.StockLevels, entity.StockLevel{BranchID: branchID, Batches: []entity.Batch{}})
	return len(p.StockLevels) - 1
}

// mergeByExpiry suma al primer lote con igual vencimiento o agrega uno nuevo.
func mergeByExpiry(sl entity.StockLevel, b entity.Batch) entity.StockLevel {
	for i, existing := range sl.Batches {
		if entity.SameDate(existing.ExpiryDate, b.ExpiryDate) {
			sl.Batches[i].Quantity += b.Quantity
			return sl
		}
	}
	return appendBatch(sl, b)
}

// mergeInto suma al lote con igual (vencimiento, fecha de ingreso) o agrega uno nuevo.
func mergeInto(sl entity.StockLevel, b entity.Batch) entity.StockLevel {
	for i, existing := range sl.Batches {
		if entity.SameDate(existing.ExpiryDate, b.ExpiryDate) && existing.DateReceived.Equal(b.DateReceived) {
			sl.Batches[i].Quantity += b.Quantity
			return sl
		}
	}
	return appendBatch(sl, b)
}

// appendBatch agrega b como lote nuevo con identidad propia.
func appendBatch(sl entity.StockLevel, b entity.Batch) entity.StockLevel {
	if b.ExpiryDate != nil {
		exp := *b.ExpiryDate
		b.ExpiryDate = &exp
	}
	b.BatchID = newBatchID()
	sl.Batches = append(sl.Batches, b)
	return sl
}
