package inventory

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

func init() {
	seq := 0
	newBatchID = func() string {
		seq++
		return fmt.Sprintf("batch-%d", seq)
	}
}

func datePtr(s string) *entity.Date {
	d := entity.MustParseDate(s)
	return &d
}

func batch(id string, qty int, exp string, received string) entity.Batch {
	b := entity.Batch{BatchID: id, Quantity: qty, DateReceived: entity.MustParseDate(received)}
	if exp != "" {
		b.ExpiryDate = datePtr(exp)
	}
	return b
}

func productWith(levels ...entity.StockLevel) entity.Product {
	return entity.Product{ID: "P", Name: "Guantes", SupplierID: "sup-1", StockLevels: levels}
}

func TestReceive_CreaStockLevelYLote(t *testing.T) {
	p := productWith()

	out, err := Receive(p, ReceiveInput{BranchID: "A", Quantity: 5, ExpiryDate: datePtr("2025-06-01"), ReceivedDate: entity.MustParseDate("2025-01-01")})
	require.NoError(t, err)

	require.Len(t, out.StockLevels, 1)
	assert.Equal(t, "A", out.StockLevels[0].BranchID)
	require.Len(t, out.StockLevels[0].Batches, 1)
	assert.Equal(t, 5, out.StockLevels[0].Batches[0].Quantity)
	assert.NotEmpty(t, out.StockLevels[0].Batches[0].BatchID)
	assert.Empty(t, p.StockLevels, "el producto original no se modifica")
}

func TestReceive_MismoVencimientoYFechaSeFusiona(t *testing.T) {
	in := ReceiveInput{BranchID: "A", Quantity: 5, ExpiryDate: datePtr("2025-06-01"), ReceivedDate: entity.MustParseDate("2025-01-01")}

	p, err := Receive(productWith(entity.StockLevel{BranchID: "A"}), in)
	require.NoError(t, err)
	p, err = Receive(p, in)
	require.NoError(t, err)

	require.Len(t, p.StockLevels[0].Batches, 1)
	assert.Equal(t, 10, p.StockLevels[0].Batches[0].Quantity)
}

func TestReceive_DistintaFechaCreaOtroLote(t *testing.T) {
	p, err := Receive(productWith(), ReceiveInput{BranchID: "A", Quantity: 5, ReceivedDate: entity.MustParseDate("2025-01-01")})
	require.NoError(t, err)
	p, err = Receive(p, ReceiveInput{BranchID: "A", Quantity: 3, ReceivedDate: entity.MustParseDate("2025-01-02")})
	require.NoError(t, err)
	p, err = Receive(p, ReceiveInput{BranchID: "A", Quantity: 2, ExpiryDate: datePtr("2025-09-01"), ReceivedDate: entity.MustParseDate("2025-01-02")})
	require.NoError(t, err)

	assert.Len(t, p.StockLevels[0].Batches, 3)
	assert.Equal(t, 10, BranchTotal(p, "A"))
}

func TestReceive_CantidadInvalida(t *testing.T) {
	p := productWith()
	out, err := Receive(p, ReceiveInput{BranchID: "A", Quantity: 0, ReceivedDate: entity.MustParseDate("2025-01-01")})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, p, out)
}

func TestReceive_CostoPromedioPonderado(t *testing.T) {
	price := decimal.NewFromInt(10)
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 10, "", "2025-01-01")}})
	p.PurchasePrice = &price
	cost := decimal.NewFromInt(20)

	out, err := Receive(p, ReceiveInput{BranchID: "A", Quantity: 10, ReceivedDate: entity.MustParseDate("2025-01-02"), UnitCost: &cost})
	require.NoError(t, err)

	require.NotNil(t, out.PurchasePrice)
	assert.True(t, decimal.NewFromInt(15).Equal(*out.PurchasePrice))
	assert.True(t, decimal.NewFromInt(10).Equal(*p.PurchasePrice))
}

func TestConsume_FEFO(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{
		batch("sin-venc", 10, "", "2025-01-01"),
		batch("d30", 10, "2025-01-31", "2025-01-01"),
		batch("d5", 10, "2025-01-06", "2025-01-01"),
	}})

	out, err := Consume(p, "A", 15, PolicyFEFO)
	require.NoError(t, err)

	got := out.StockLevels[0].Batches
	require.Len(t, got, 2)
	assert.Equal(t, "d30", got[0].BatchID)
	assert.Equal(t, 5, got[0].Quantity)
	assert.Equal(t, "sin-venc", got[1].BatchID)
	assert.Equal(t, 10, got[1].Quantity)
	assert.Nil(t, got[1].ExpiryDate)
}

func TestConsume_FEFODesempatePorFechaDeIngreso(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{
		batch("nuevo", 4, "", "2025-02-01"),
		batch("viejo", 4, "", "2025-01-01"),
	}})

	out, err := Consume(p, "A", 4, PolicyFEFO)
	require.NoError(t, err)

	require.Len(t, out.StockLevels[0].Batches, 1)
	assert.Equal(t, "nuevo", out.StockLevels[0].Batches[0].BatchID)
}

func TestConsume_FIFOIgnoraVencimiento(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{
		batch("vence-pronto", 5, "2025-01-10", "2025-01-05"),
		batch("antiguo", 5, "2025-12-31", "2025-01-01"),
	}})

	out, err := Consume(p, "A", 5, PolicyFIFO)
	require.NoError(t, err)

	require.Len(t, out.StockLevels[0].Batches, 1)
	assert.Equal(t, "vence-pronto", out.StockLevels[0].Batches[0].BatchID)
}

func TestConsume_StockInsuficienteNoModifica(t *testing.T) {
	p := productWith(
		entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 3, "2025-03-01", "2025-01-01")}},
		entity.StockLevel{BranchID: "B", Batches: []entity.Batch{batch("b2", 50, "", "2025-01-01")}},
	)
	before := p.Clone()

	out, err := Consume(p, "A", 4, PolicyFEFO)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, before, out)
	assert.Equal(t, before, p)
}

func TestConsume_SedeSinStock(t *testing.T) {
	_, err := Consume(productWith(), "Z", 1, PolicyFEFO)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestConsume_NuncaNegativo(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{
		batch("b1", 2, "2025-02-01", "2025-01-01"),
		batch("b2", 7, "2025-03-01", "2025-01-01"),
	}})

	for _, qty := range []int{1, 2, 3, 9} {
		out, err := Consume(p, "A", qty, PolicyFEFO)
		require.NoError(t, err)
		assert.Equal(t, 9-qty, BranchTotal(out, "A"))
		for _, b := range out.StockLevels[0].Batches {
			assert.Positive(t, b.Quantity)
		}
	}
}

func TestTransfer_ConservaTotales(t *testing.T) {
	p := productWith(
		entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 10, "2025-05-01", "2025-01-01")}},
		entity.StockLevel{BranchID: "B", Batches: []entity.Batch{batch("b2", 5, "", "2025-01-01")}},
		entity.StockLevel{BranchID: "C", Batches: []entity.Batch{batch("b3", 8, "", "2025-01-01")}},
	)

	out, err := Transfer(p, TransferInput{FromBranchID: "A", ToBranchID: "B", BatchID: "b1", Amount: 4})
	require.NoError(t, err)

	assert.Equal(t, BranchTotal(p, "A")+BranchTotal(p, "B"), BranchTotal(out, "A")+BranchTotal(out, "B"))
	assert.Equal(t, 6, BranchTotal(out, "A"))
	assert.Equal(t, 9, BranchTotal(out, "B"))
	assert.Equal(t, BranchTotal(p, "C"), BranchTotal(out, "C"))
	assert.Equal(t, ProductTotal(p), ProductTotal(out))

	dest, _ := out.StockLevel("B")
	require.Len(t, dest.Batches, 2)
	require.NotNil(t, dest.Batches[1].ExpiryDate)
	assert.Equal(t, "2025-05-01", dest.Batches[1].ExpiryDate.String())
}

func TestTransfer_LoteCompletoSeEliminaYCreaDestino(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 10, "2025-05-01", "2025-01-01")}})

	out, err := Transfer(p, TransferInput{FromBranchID: "A", ToBranchID: "B", BatchID: "b1", Amount: 10})
	require.NoError(t, err)

	assert.Equal(t, 0, BranchTotal(out, "A"))
	src, _ := out.StockLevel("A")
	assert.Empty(t, src.Batches)
	assert.Equal(t, 10, BranchTotal(out, "B"))
}

func TestTransfer_FusionaEnDestino(t *testing.T) {
	p := productWith(
		entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 10, "2025-05-01", "2025-01-01")}},
		entity.StockLevel{BranchID: "B", Batches: []entity.Batch{batch("b2", 5, "2025-05-01", "2025-01-01")}},
	)

	out, err := Transfer(p, TransferInput{FromBranchID: "A", ToBranchID: "B", BatchID: "b1", Amount: 3})
	require.NoError(t, err)

	dest, _ := out.StockLevel("B")
	require.Len(t, dest.Batches, 1)
	assert.Equal(t, "b2", dest.Batches[0].BatchID)
	assert.Equal(t, 8, dest.Batches[0].Quantity)
}

func TestTransfer_FusionaPorVencimientoConOtraFechaDeIngreso(t *testing.T) {
	p := productWith(
		entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("a1", 10, "2025-06-01", "2025-01-01")}},
		entity.StockLevel{BranchID: "B", Batches: []entity.Batch{
			batch("b0", 2, "", "2025-01-15"),
			batch("b1", 4, "2025-06-01", "2025-02-01"),
		}},
	)

	out, err := Transfer(p, TransferInput{FromBranchID: "A", ToBranchID: "B", BatchID: "a1", Amount: 3})
	require.NoError(t, err)

	dest, _ := out.StockLevel("B")
	require.Len(t, dest.Batches, 2)
	assert.Equal(t, "b1", dest.Batches[1].BatchID)
	assert.Equal(t, 7, dest.Batches[1].Quantity)
	assert.Equal(t, "2025-02-01", dest.Batches[1].DateReceived.String(), "conserva la fecha de ingreso del destino")
	assert.Equal(t, 2, dest.Batches[0].Quantity)
	assert.Equal(t, ProductTotal(p), ProductTotal(out))
}

func TestTransfer_Invalida(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 10, "", "2025-01-01")}})

	cases := map[string]TransferInput{
		"misma sede":       {FromBranchID: "A", ToBranchID: "A", BatchID: "b1", Amount: 1},
		"lote inexistente": {FromBranchID: "A", ToBranchID: "B", BatchID: "nope", Amount: 1},
		"excede el lote":   {FromBranchID: "A", ToBranchID: "B", BatchID: "b1", Amount: 11},
		"cantidad cero":    {FromBranchID: "A", ToBranchID: "B", BatchID: "b1", Amount: 0},
		"sede sin stock":   {FromBranchID: "C", ToBranchID: "B", BatchID: "b1", Amount: 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Transfer(p, in)
			require.ErrorIs(t, err, domain.ErrInvalidTransfer)
			assert.Equal(t, p, out)
		})
	}
}

func TestAdjust(t *testing.T) {
	p := productWith(entity.StockLevel{BranchID: "A", Batches: []entity.Batch{batch("b1", 10, "2025-05-01", "2025-01-01")}})
	today := entity.MustParseDate("2025-02-01")

	up, delta, err := Adjust(p, AdjustInput{BranchID: "A", NewTotal: 15, ReceivedDate: today}, PolicyFEFO)
	require.NoError(t, err)
	assert.Equal(t, 5, delta)
	assert.Equal(t, 15, BranchTotal(up, "A"))

	down, delta, err := Adjust(p, AdjustInput{BranchID: "A", NewTotal: 4, ReceivedDate: today}, PolicyFEFO)
	require.NoError(t, err)
	assert.Equal(t, -6, delta)
	assert.Equal(t, 4, BranchTotal(down, "A"))

	same, delta, err := Adjust(p, AdjustInput{BranchID: "A", NewTotal: 10, ReceivedDate: today}, PolicyFEFO)
	require.NoError(t, err)
	assert.Zero(t, delta)
	assert.Equal(t, p, same)

	_, _, err = Adjust(p, AdjustInput{BranchID: "A", NewTotal: -1, ReceivedDate: today}, PolicyFEFO)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
