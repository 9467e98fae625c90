package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

var (
	today = entity.MustParseDate("2025-01-01")
	admin = entity.User{ID: "user-1", Name: "Admin", Role: entity.RoleAdmin}
	staff = entity.User{ID: "user-2", Name: "Maria", Role: entity.RoleStaff, BranchID: "branch-1"}
)

type env struct {
	cat   *catalog.Catalog
	audit *memory.AuditLogRepo
	stock *StockUseCase
}

func newEnv(t *testing.T) env {
	t.Helper()
	exp := entity.MustParseDate("2025-03-01")
	price := decimal.NewFromInt(10)
	seed := func() (catalog.Snapshot, error) {
		return catalog.Snapshot{
			Branches: []entity.Branch{{ID: "branch-1", Name: "Downtown"}, {ID: "branch-2", Name: "Westside"}},
			Suppliers: []entity.Supplier{
				{ID: "sup-1", Name: "DentalPro", QuickReorderEnabled: true},
				{ID: "sup-2", Name: "MediCorp"},
			},
			Products: []entity.Product{
				{ID: "prod-1", Name: "Guantes", SupplierID: "sup-1", PurchasePrice: &price, StockLevels: []entity.StockLevel{
					{BranchID: "branch-1", Batches: []entity.Batch{{BatchID: "b1", Quantity: 20, ExpiryDate: &exp, DateReceived: today}}},
				}},
				{ID: "prod-2", Name: "Anestesia", SupplierID: "sup-2"},
			},
		}, nil
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	cat := catalog.New(memory.NewDocumentStore(), seed, log)
	require.NoError(t, cat.Load(context.Background(), true))

	repo := memory.NewAuditLogRepository()
	uc := NewStockUseCase(cat, audit.NewRecorder(repo, log))
	uc.today = func() entity.Date { return today }
	return env{cat: cat, audit: repo, stock: uc}
}

func (e env) logs(t *testing.T, action string) []entity.AuditLog {
	t.Helper()
	logs, err := e.audit.Find(context.Background(), repository.AuditFilter{Action: action})
	require.NoError(t, err)
	return logs
}

func TestReceive_AgregaLoteYAudita(t *testing.T) {
	e := newEnv(t)

	res, err := e.stock.Receive(context.Background(), staff, dto.ReceiveStockRequest{
		ProductID: "prod-1", BranchID: "branch-1", Quantity: 5, ExpiryDate: "2025-06-01",
	})
	require.NoError(t, err)

	assert.Equal(t, 25, res.BranchTotal)
	assert.Equal(t, 5, res.Delta)
	p, _ := e.cat.Snapshot().Product("prod-1")
	sl, _ := p.StockLevel("branch-1")
	assert.Len(t, sl.Batches, 2)
	assert.Len(t, e.logs(t, entity.ActionStockReceived), 1)
}

func TestReceive_StaffOtraSedeProhibido(t *testing.T) {
	e := newEnv(t)

	_, err := e.stock.Receive(context.Background(), staff, dto.ReceiveStockRequest{ProductID: "prod-1", BranchID: "branch-2", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReceive_ProductoYSedeInexistentes(t *testing.T) {
	e := newEnv(t)

	_, err := e.stock.Receive(context.Background(), admin, dto.ReceiveStockRequest{ProductID: "nope", BranchID: "branch-1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = e.stock.Receive(context.Background(), admin, dto.ReceiveStockRequest{ProductID: "prod-1", BranchID: "branch-9", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	assert.Empty(t, e.logs(t, entity.ActionStockReceived))
}

func TestConsume_StockInsuficienteNoCambiaCatalogo(t *testing.T) {
	e := newEnv(t)

	_, err := e.stock.Consume(context.Background(), admin, dto.ConsumeStockRequest{ProductID: "prod-1", BranchID: "branch-1", Quantity: 21})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := e.cat.Snapshot().Product("prod-1")
	sl, _ := p.StockLevel("branch-1")
	assert.Equal(t, 20, sl.Total())
	assert.Empty(t, e.logs(t, entity.ActionStockConsumed))
}

func TestConsume_PoliticaDesconocida(t *testing.T) {
	e := newEnv(t)

	_, err := e.stock.Consume(context.Background(), admin, dto.ConsumeStockRequest{ProductID: "prod-1", BranchID: "branch-1", Quantity: 1, Policy: "LIFO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_RegistraDiferencia(t *testing.T) {
	e := newEnv(t)

	res, err := e.stock.Adjust(context.Background(), admin, dto.AdjustStockRequest{ProductID: "prod-1", BranchID: "branch-1", NewTotal: 12, Reason: "conteo"})
	require.NoError(t, err)
	assert.Equal(t, -8, res.Delta)
	assert.Equal(t, 12, res.BranchTotal)

	logs := e.logs(t, entity.ActionStockAdjusted)
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Details, "(-8)")
	assert.Contains(t, logs[0].Details, "Reason: conteo.")

	_, err = e.stock.Adjust(context.Background(), admin, dto.AdjustStockRequest{ProductID: "prod-1", BranchID: "branch-1", NewTotal: 12, Reason: "igual"})
	require.NoError(t, err)
	assert.Len(t, e.logs(t, entity.ActionStockAdjusted), 1)
}

func TestTransfer_ConservaTotalYAudita(t *testing.T) {
	e := newEnv(t)

	res, err := e.stock.Transfer(context.Background(), staff, dto.TransferStockRequest{
		ProductID: "prod-1", FromBranchID: "branch-1", ToBranchID: "branch-2", BatchID: "b1", Amount: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 13, res.BranchTotal)

	p, _ := e.cat.Snapshot().Product("prod-1")
	dest, ok := p.StockLevel("branch-2")
	require.True(t, ok)
	assert.Equal(t, 7, dest.Total())

	logs := e.logs(t, entity.ActionStockTransferred)
	require.Len(t, logs, 1)
	assert.Equal(t, "7 units of Product ID prod-1 from branch-1 to branch-2.", logs[0].Details)
}

func TestTransfer_Invalida(t *testing.T) {
	e := newEnv(t)

	_, err := e.stock.Transfer(context.Background(), admin, dto.TransferStockRequest{
		ProductID: "prod-1", FromBranchID: "branch-1", ToBranchID: "branch-2", BatchID: "b1", Amount: 50,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransfer)

	_, err = e.stock.Transfer(context.Background(), staff, dto.TransferStockRequest{
		ProductID: "prod-1", FromBranchID: "branch-2", ToBranchID: "branch-1", BatchID: "b1", Amount: 1,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type fakePDF struct {
	got ports.PurchaseOrder
	err error
}

func (f *fakePDF) GeneratePurchaseOrderPDF(_ context.Context, order ports.PurchaseOrder) ([]byte, error) {
	f.got = order
	return []byte("%PDF-1.3"), f.err
}

func TestReorder_Prepare(t *testing.T) {
	e := newEnv(t)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	gen := &fakePDF{}
	uc := NewReorderUseCase(e.cat, gen, audit.NewRecorder(e.audit, log))

	doc, err := uc.Prepare(context.Background(), admin, dto.ReorderRequest{ProductID: "prod-1", Quantity: 3, OrderName: "PO-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
	assert.True(t, decimal.NewFromInt(30).Equal(gen.got.Total))
	assert.Equal(t, "DentalPro", gen.got.Supplier.Name)
	assert.Len(t, e.logs(t, entity.ActionReorderPrepared), 1)
}

func TestReorder_Restricciones(t *testing.T) {
	e := newEnv(t)
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	gen := &fakePDF{}
	uc := NewReorderUseCase(e.cat, gen, audit.NewRecorder(e.audit, log))

	_, err := uc.Prepare(context.Background(), staff, dto.ReorderRequest{ProductID: "prod-1", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Prepare(context.Background(), admin, dto.ReorderRequest{ProductID: "prod-2", Quantity: 3})
	assert.ErrorIs(t, err, domain.ErrConflict)

	gen.err = errors.New("sin fuentes")
	_, err = uc.Prepare(context.Background(), admin, dto.ReorderRequest{ProductID: "prod-1", Quantity: 3})
	assert.Error(t, err)
	assert.Empty(t, e.logs(t, entity.ActionReorderPrepared))
}
