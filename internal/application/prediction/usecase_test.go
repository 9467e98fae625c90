package prediction

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/repository"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/cache"
	"github.com/jhoicas/clinic-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

var admin = entity.User{ID: "user-1", Name: "Admin", Role: entity.RoleAdmin}

type fakeService struct {
	calls   atomic.Int32
	results []entity.PredictionResult
	prices  []entity.PricePrediction
	err     error
	release chan struct{}
}

func (f *fakeService) PredictRestock(ctx context.Context, _ []entity.Product, _ []entity.Branch, _ []entity.Supplier) ([]entity.PredictionResult, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.results, f.err
}

func (f *fakeService) PredictPriceTrend(_ context.Context, _ entity.Supplier, products []entity.Product) ([]entity.PricePrediction, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.prices, nil
}

type fixture struct {
	uc   *UseCase
	svc  *fakeService
	repo *memory.AuditLogRepo
}

func newFixture(t *testing.T, svc *fakeService, pc *cache.PredictionCache) fixture {
	t.Helper()
	seed := func() (catalog.Snapshot, error) {
		return catalog.Snapshot{
			Branches:  []entity.Branch{{ID: "branch-1", Name: "Downtown"}},
			Suppliers: []entity.Supplier{{ID: "sup-1", Name: "DentalPro"}, {ID: "sup-2", Name: "MediCorp"}},
			Products: []entity.Product{
				{ID: "prod-1", Name: "Guantes", SupplierID: "sup-1"},
				{ID: "prod-2", Name: "Anestesia", SupplierID: "sup-2"},
			},
		}, nil
	}
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	cat := catalog.New(memory.NewDocumentStore(), seed, log)
	require.NoError(t, cat.Load(context.Background(), true))
	repo := memory.NewAuditLogRepository()

	var pcache ports.PredictionCache
	if pc != nil {
		pcache = pc
	}
	uc := NewUseCase(cat, svc, pcache, audit.NewRecorder(repo, log), log, time.Second)
	return fixture{uc: uc, svc: svc, repo: repo}
}

func (f fixture) count(t *testing.T, action string) int {
	t.Helper()
	logs, err := f.repo.Find(context.Background(), repository.AuditFilter{Action: action})
	require.NoError(t, err)
	return len(logs)
}

func goodResults() []entity.PredictionResult {
	return []entity.PredictionResult{
		{ProductID: "prod-1", PredictedUsage: 40, RestockSuggestion: "Pedir 40", Urgency: entity.UrgencyHigh,
			BranchSuggestions: []entity.BranchSuggestion{{BranchID: "branch-1", RestockAmount: 40}, {BranchID: "branch-9", RestockAmount: 5}}},
		{ProductID: "prod-x", Urgency: entity.UrgencyLow},
		{ProductID: "prod-2", Urgency: "Critical"},
	}
}

func TestRunRestock_GuardaYDepura(t *testing.T) {
	f := newFixture(t, &fakeService{results: goodResults()}, nil)

	res, err := f.uc.RunRestock(context.Background(), admin)
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	assert.Equal(t, "prod-1", res.Results[0].ProductID)
	assert.Len(t, res.Results[0].BranchSuggestions, 1)

	latest, err := f.uc.Latest(context.Background())
	require.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, 1, f.count(t, entity.ActionPredictionStarted))
	assert.Equal(t, 1, f.count(t, entity.ActionPredictionSuccessful))
}

func TestRunRestock_FalloConservaResultadosPrevios(t *testing.T) {
	svc := &fakeService{results: goodResults()}
	f := newFixture(t, svc, nil)
	_, err := f.uc.RunRestock(context.Background(), admin)
	require.NoError(t, err)

	svc.err = errors.New("503")
	_, err = f.uc.RunRestock(context.Background(), admin)
	assert.ErrorIs(t, err, domain.ErrExternalService)

	latest, err := f.uc.Latest(context.Background())
	require.NoError(t, err)
	assert.Len(t, latest, 1)
	assert.Equal(t, 1, f.count(t, entity.ActionPredictionFailed))
}

func TestRunRestock_CorridasConcurrentesSeAgrupan(t *testing.T) {
	svc := &fakeService{results: goodResults(), release: make(chan struct{})}
	f := newFixture(t, svc, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.uc.RunRestock(context.Background(), admin)
		}()
	}
	require.Eventually(t, func() bool { return svc.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(svc.release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestLatest_RecuperaDeCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	pc := cache.NewPredictionCache(client, time.Hour)

	first := newFixture(t, &fakeService{results: goodResults()}, pc)
	_, err := first.uc.RunRestock(context.Background(), admin)
	require.NoError(t, err)

	// un proceso nuevo arranca sin resultados en memoria
	second := newFixture(t, &fakeService{}, pc)
	latest, err := second.uc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "prod-1", latest[0].ProductID)

	run, err := second.uc.LatestRun(context.Background())
	require.NoError(t, err)
	assert.False(t, run.GeneratedAt.IsZero())
}

func TestAcknowledge(t *testing.T) {
	f := newFixture(t, &fakeService{}, nil)

	require.NoError(t, f.uc.Acknowledge(context.Background(), admin, "prod-1"))
	assert.ErrorIs(t, f.uc.Acknowledge(context.Background(), admin, "nope"), domain.ErrProductNotFound)

	assert.True(t, f.uc.Acknowledged(admin.ID)["prod-1"])
	assert.Empty(t, f.uc.Acknowledged("otro"))
	assert.Equal(t, 1, f.count(t, entity.ActionAlertAcknowledged))
}

func TestPriceTrend(t *testing.T) {
	svc := &fakeService{prices: []entity.PricePrediction{
		{ProductID: "prod-1", ProductName: "Guantes", PredictionSummary: "Sube", PredictedChangePercentage: decimal.RequireFromString("5.5")},
		{ProductID: "prod-2", ProductName: "Anestesia"},
	}}
	f := newFixture(t, svc, nil)

	res, err := f.uc.PriceTrend(context.Background(), admin, "sup-1")
	require.NoError(t, err)
	require.Len(t, res.Predictions, 1)
	assert.Equal(t, "prod-1", res.Predictions[0].ProductID)

	_, err = f.uc.PriceTrend(context.Background(), admin, "sup-9")
	assert.ErrorIs(t, err, domain.ErrSupplierNotFound)

	all, err := f.uc.PriceTrendAll(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, f.count(t, entity.ActionPricePredictionOK))

	svc.err = errors.New("timeout")
	_, err = f.uc.PriceTrend(context.Background(), admin, "sup-1")
	assert.ErrorIs(t, err, domain.ErrExternalService)
	assert.Equal(t, 1, f.count(t, entity.ActionPricePredictionFailed))
}
