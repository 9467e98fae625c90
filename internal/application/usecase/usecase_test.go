package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/auth"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

var (
	today = entity.MustParseDate("2025-01-01")
	admin = entity.User{ID: "user-1", Name: "Admin", Role: entity.RoleAdmin}
	staff = entity.User{ID: "user-2", Name: "Maria", Role: entity.RoleStaff, BranchID: "branch-1"}
)

type fixture struct {
	cat      *catalog.Catalog
	repo     *memory.AuditLogRepo
	recorder *audit.Recorder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.NewDocumentStore())
}

func newFixtureWithStore(t *testing.T, store repository.CollectionStore) fixture {
	t.Helper()
	seed := func() (catalog.Snapshot, error) {
		return catalog.Snapshot{
			Branches:  []entity.Branch{{ID: "branch-1", Name: "Downtown"}, {ID: "branch-2", Name: "Westside"}, {ID: "branch-3", Name: "North End"}},
			Suppliers: []entity.Supplier{{ID: "sup-1", Name: "DentalPro"}, {ID: "sup-2", Name: "MediCorp"}},
			Users: []entity.User{
				{ID: "user-1", Name: "Admin", Username: "admin", Role: entity.RoleAdmin},
				{ID: "user-2", Name: "Maria", Username: "maria", Role: entity.RoleStaff, BranchID: "branch-1"},
			},
			Products: []entity.Product{
				{ID: "prod-1", Name: "Guantes", SupplierID: "sup-1", StockLevels: []entity.StockLevel{
					{BranchID: "branch-2", Batches: []entity.Batch{{BatchID: "b1", Quantity: 4, DateReceived: today}}},
				}},
				{ID: "prod-2", Name: "Anestesia", SupplierID: "sup-1", StockLevels: []entity.StockLevel{{BranchID: "branch-3", Batches: []entity.Batch{}}}},
			},
		}, nil
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	cat := catalog.New(store, seed, log)
	require.NoError(t, cat.Load(context.Background(), true))
	repo := memory.NewAuditLogRepository()
	return fixture{cat: cat, repo: repo, recorder: audit.NewRecorder(repo, log)}
}

func (f fixture) count(t *testing.T, action string) int {
	t.Helper()
	logs, err := f.repo.Find(context.Background(), repository.AuditFilter{Action: action})
	require.NoError(t, err)
	return len(logs)
}

func TestProduct_CreateConStockInicial(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.cat, f.recorder)
	uc.today = func() entity.Date { return today }
	price := decimal.NewFromInt(3)

	p, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{
		Name: "Resina", SupplierID: "sup-2", PurchasePrice: &price,
		InitialStock: []dto.InitialStockRequest{
			{BranchID: "branch-1", Quantity: 10, ExpiryDate: "2025-05-01"},
			{BranchID: "branch-2", Quantity: 5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 15, inventory.ProductTotal(*p))
	assert.Equal(t, 50, p.MinStock())

	got, err := uc.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resina", got.Name)
	assert.Equal(t, 1, f.count(t, entity.ActionProductAdded))
}

func TestProduct_CreateValidaReferencias(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.cat, f.recorder)

	_, err := uc.Create(context.Background(), admin, dto.CreateProductRequest{Name: "X", SupplierID: "sup-9"})
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	_, err = uc.Create(context.Background(), admin, dto.CreateProductRequest{
		Name: "X", SupplierID: "sup-1", InitialStock: []dto.InitialStockRequest{{BranchID: "branch-9", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	_, err = uc.Create(context.Background(), staff, dto.CreateProductRequest{Name: "X", SupplierID: "sup-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	products, total := uc.List(0, 0)
	assert.Equal(t, 2, total)
	assert.Len(t, products, 2)
}

func TestProduct_UpdateNoTocaStock(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.cat, f.recorder)
	name := "Guantes nitrilo"
	minimum := 10

	p, err := uc.Update(context.Background(), admin, "prod-1", dto.UpdateProductRequest{Name: &name, MinStockLevel: &minimum})
	require.NoError(t, err)
	assert.Equal(t, name, p.Name)
	assert.Equal(t, 10, p.MinStock())
	assert.Equal(t, 4, inventory.ProductTotal(*p))

	_, err = uc.Update(context.Background(), admin, "nope", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProduct_DeleteSoloSinStock(t *testing.T) {
	f := newFixture(t)
	uc := NewProductUseCase(f.cat, f.recorder)

	err := uc.Delete(context.Background(), admin, "prod-1")
	assert.ErrorIs(t, err, domain.ErrReferentialConflict)

	require.NoError(t, uc.Delete(context.Background(), admin, "prod-2"))
	_, err = uc.GetByID("prod-2")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, 1, f.count(t, entity.ActionProductDeleted))
}

func TestBranch_DeleteBloqueadaPorStockOUsuarios(t *testing.T) {
	f := newFixture(t)
	uc := NewBranchUseCase(f.cat, f.recorder, logger.Nop())

	assert.ErrorIs(t, uc.Delete(context.Background(), admin, "branch-2"), domain.ErrReferentialConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), admin, "branch-1"), domain.ErrReferentialConflict)
	assert.ErrorIs(t, uc.Delete(context.Background(), admin, "branch-9"), domain.ErrBranchNotFound)

	// branch-3 solo tiene un StockLevel vacío
	require.NoError(t, uc.Delete(context.Background(), admin, "branch-3"))
	assert.Len(t, uc.List(), 2)
	p, _ := f.cat.Snapshot().Product("prod-2")
	assert.Empty(t, p.StockLevels)
	assert.Equal(t, 1, f.count(t, entity.ActionBranchDeleted))
}

// conflictingStore rechaza con conflicto de versión los guardados de una colección.
type conflictingStore struct {
	repository.CollectionStore
	reject string
}

func (s *conflictingStore) ReplaceAll(ctx context.Context, name string, docs []repository.Document, expected int64) (int64, error) {
	if name == s.reject {
		return 0, domain.ErrVersionConflict
	}
	return s.CollectionStore.ReplaceAll(ctx, name, docs, expected)
}

func TestBranch_DeleteFirmeAunqueFalleLimpiezaDeProductos(t *testing.T) {
	store := &conflictingStore{CollectionStore: memory.NewDocumentStore()}
	f := newFixtureWithStore(t, store)
	uc := NewBranchUseCase(f.cat, f.recorder, logger.Nop())
	store.reject = repository.CollectionProducts

	require.NoError(t, uc.Delete(context.Background(), admin, "branch-3"))

	_, ok := f.cat.Snapshot().Branch("branch-3")
	assert.False(t, ok)
	assert.Equal(t, 1, f.count(t, entity.ActionBranchDeleted))

	// la limpieza no se guardó: el StockLevel vacío sigue sin aportar stock
	p, _ := f.cat.Snapshot().Product("prod-2")
	require.Len(t, p.StockLevels, 1)
	assert.Equal(t, 0, inventory.ProductTotal(p))
}

func TestBranch_DeleteRechazadaNoAudita(t *testing.T) {
	store := &conflictingStore{CollectionStore: memory.NewDocumentStore()}
	f := newFixtureWithStore(t, store)
	uc := NewBranchUseCase(f.cat, f.recorder, logger.Nop())
	store.reject = repository.CollectionBranches

	err := uc.Delete(context.Background(), admin, "branch-3")
	require.ErrorIs(t, err, domain.ErrVersionConflict)

	_, ok := f.cat.Snapshot().Branch("branch-3")
	assert.True(t, ok)
	assert.Equal(t, 0, f.count(t, entity.ActionBranchDeleted))
}

func TestBranch_CreateYRename(t *testing.T) {
	f := newFixture(t)
	uc := NewBranchUseCase(f.cat, f.recorder, logger.Nop())

	b, err := uc.Create(context.Background(), admin, dto.BranchRequest{Name: "Eastside"})
	require.NoError(t, err)

	_, err = uc.Create(context.Background(), admin, dto.BranchRequest{Name: "eastside"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	renamed, err := uc.Rename(context.Background(), admin, b.ID, dto.BranchRequest{Name: "East"})
	require.NoError(t, err)
	assert.Equal(t, "East", renamed.Name)

	_, err = uc.Create(context.Background(), staff, dto.BranchRequest{Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSupplier_DeleteBloqueadoPorProductos(t *testing.T) {
	f := newFixture(t)
	uc := NewSupplierUseCase(f.cat, f.recorder)

	assert.ErrorIs(t, uc.Delete(context.Background(), admin, "sup-1"), domain.ErrReferentialConflict)
	require.NoError(t, uc.Delete(context.Background(), admin, "sup-2"))
	assert.Len(t, uc.List(), 1)
}

func TestSupplier_QuickReorderToggle(t *testing.T) {
	f := newFixture(t)
	uc := NewSupplierUseCase(f.cat, f.recorder)

	sp, err := uc.SetQuickReorder(context.Background(), admin, "sup-2", true)
	require.NoError(t, err)
	assert.True(t, sp.QuickReorderEnabled)

	got, err := uc.GetByID("sup-2")
	require.NoError(t, err)
	assert.True(t, got.QuickReorderEnabled)

	_, err = uc.SetQuickReorder(context.Background(), admin, "sup-9", true)
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)
	assert.Equal(t, 1, f.count(t, entity.ActionSupplierEdited))
}

func TestUser_CreateYEliminar(t *testing.T) {
	f := newFixture(t)
	uc := NewUserUseCase(f.cat, auth.NewBcryptAuthenticator(4), f.recorder)

	res, err := uc.Create(context.Background(), admin, dto.CreateUserRequest{
		Name: "Sam", Username: "sam", Password: "password123", Role: entity.RoleStaff, BranchID: "branch-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "branch-2", res.BranchID)

	created, err := uc.GetByID(res.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", created.PasswordHash)

	_, err = uc.Create(context.Background(), admin, dto.CreateUserRequest{
		Name: "Otro", Username: "sam", Password: "password123", Role: entity.RoleAdmin,
	})
	assert.ErrorIs(t, err, domain.ErrUsernameExists)

	_, err = uc.Create(context.Background(), admin, dto.CreateUserRequest{
		Name: "Sin sede", Username: "x", Password: "password123", Role: entity.RoleStaff, BranchID: "branch-9",
	})
	assert.ErrorIs(t, err, domain.ErrBranchNotFound)

	assert.ErrorIs(t, uc.Delete(context.Background(), admin, admin.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(context.Background(), admin, res.ID))

	list, err := uc.List(admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.List(staff)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
