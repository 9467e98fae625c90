// Package prediction orquesta las llamadas al servicio externo de predicción y conserva el
// último conjunto de resultados que consume el tablero.
package prediction

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/clinic-inventory-api/internal/application/audit"
	"github.com/jhoicas/clinic-inventory-api/internal/application/catalog"
	"github.com/jhoicas/clinic-inventory-api/internal/application/dto"
	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/internal/domain"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
	"github.com/jhoicas/clinic-inventory-api/pkg/logger"
)

const (
	restockKey            = "restock"
	defaultTimeout        = 60 * time.Second
	priceTrendParallelism = 2
)

// UseCase corridas de predicción de reposición y de precios.
//
// Las corridas concurrentes de reposición se agrupan en una sola llamada al servicio. Una
// falla deja intacto el último conjunto de resultados.
type UseCase struct {
	catalog  *catalog.Catalog
	service  ports.PredictionService
	cache    ports.PredictionCache
	recorder *audit.Recorder
	log      *logger.Logger
	timeout  time.Duration
	now      func() time.Time

	group singleflight.Group

	mu          sync.RWMutex
	latest      []entity.PredictionResult
	generatedAt time.Time
	acks        map[string]map[string]bool
}

// NewUseCase cache puede ser nil (sin persistencia de predicciones). timeout <= 0 usa 60s.
func NewUseCase(
	cat *catalog.Catalog,
	service ports.PredictionService,
	cache ports.PredictionCache,
	recorder *audit.Recorder,
	log *logger.Logger,
	timeout time.Duration,
) *UseCase {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &UseCase{
		catalog:  cat,
		service:  service,
		cache:    cache,
		recorder: recorder,
		log:      log,
		timeout:  timeout,
		now:      time.Now,
		acks:     make(map[string]map[string]bool),
	}
}

// RunRestock ejecuta la predicción de reposición sobre el catálogo actual.
func (uc *UseCase) RunRestock(ctx context.Context, user entity.User) (*dto.PredictionRunResponse, error) {
	ch := uc.group.DoChan(restockKey, func() (interface{}, error) {
		// la corrida compartida no depende de la cancelación de quien la inició
		return uc.runRestock(context.WithoutCancel(ctx), user)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.PredictionRunResponse), nil
	}
}

func (uc *UseCase) runRestock(ctx context.Context, user entity.User) (*dto.PredictionRunResponse, error) {
	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionPredictionStarted,
		Details: "Restock prediction analysis initiated.",
		UserID:  user.ID,
	})

	snap := uc.catalog.Snapshot()
	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	results, err := uc.service.PredictRestock(callCtx, snap.Products, snap.Branches, snap.Suppliers)
	if err != nil {
		uc.log.Warn().Err(err).Msg("predicción: fallo del servicio externo, se conservan los resultados previos")
		uc.recorder.Record(ctx, audit.Entry{
			Action:  entity.ActionPredictionFailed,
			Details: "Failed to get restock predictions from the prediction service.",
			UserID:  user.ID,
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	results = sanitize(results, snap)
	at := uc.now().UTC()

	uc.mu.Lock()
	uc.latest = results
	uc.generatedAt = at
	uc.mu.Unlock()

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, results, at); err != nil {
			uc.log.Warn().Err(err).Msg("predicción: no se pudo guardar en caché")
		}
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionPredictionSuccessful,
		Details: fmt.Sprintf("Generated restock predictions for %d products.", len(results)),
		UserID:  user.ID,
	})
	return &dto.PredictionRunResponse{GeneratedAt: at, Results: cloneResults(results)}, nil
}

// Latest últimas predicciones. En frío intenta recuperarlas de la caché.
func (uc *UseCase) Latest(ctx context.Context) ([]entity.PredictionResult, error) {
	uc.mu.RLock()
	results, at := uc.latest, uc.generatedAt
	uc.mu.RUnlock()
	if !at.IsZero() || uc.cache == nil {
		return cloneResults(results), nil
	}

	cached, cachedAt, found, err := uc.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return []entity.PredictionResult{}, nil
	}

	uc.mu.Lock()
	if uc.generatedAt.IsZero() {
		uc.latest = sanitize(cached, uc.catalog.Snapshot())
		uc.generatedAt = cachedAt
	}
	results = uc.latest
	uc.mu.Unlock()
	return cloneResults(results), nil
}

// LatestRun últimas predicciones con su marca de tiempo.
func (uc *UseCase) LatestRun(ctx context.Context) (*dto.PredictionRunResponse, error) {
	results, err := uc.Latest(ctx)
	if err != nil {
		return nil, err
	}
	uc.mu.RLock()
	at := uc.generatedAt
	uc.mu.RUnlock()
	return &dto.PredictionRunResponse{GeneratedAt: at, Results: results}, nil
}

// Acknowledge marca como vista la alerta de un producto para el usuario.
func (uc *UseCase) Acknowledge(ctx context.Context, user entity.User, productID string) error {
	if _, ok := uc.catalog.Snapshot().Product(productID); !ok {
		return fmt.Errorf("%w: %s", domain.ErrProductNotFound, productID)
	}
	uc.mu.Lock()
	if uc.acks[user.ID] == nil {
		uc.acks[user.ID] = make(map[string]bool)
	}
	uc.acks[user.ID][productID] = true
	uc.mu.Unlock()

	uc.recorder.Record(ctx, audit.Entry{
		Action:    entity.ActionAlertAcknowledged,
		Details:   fmt.Sprintf("Alert for product %s acknowledged.", productID),
		ProductID: productID,
		BranchID:  user.BranchID,
		UserID:    user.ID,
	})
	return nil
}

// Acknowledged copia de las alertas reconocidas por el usuario.
func (uc *UseCase) Acknowledged(userID string) map[string]bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	out := make(map[string]bool, len(uc.acks[userID]))
	for k, v := range uc.acks[userID] {
		out[k] = v
	}
	return out
}

// PriceTrend predicción de precios para los productos de un proveedor.
func (uc *UseCase) PriceTrend(ctx context.Context, user entity.User, supplierID string) (*dto.PriceTrendResponse, error) {
	snap := uc.catalog.Snapshot()
	supplier, ok := snap.Supplier(supplierID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSupplierNotFound, supplierID)
	}
	return uc.priceTrend(ctx, user, supplier, snap.Products)
}

// PriceTrendAll corre la predicción de precios de todos los proveedores en paralelo.
// La primera falla cancela el resto.
func (uc *UseCase) PriceTrendAll(ctx context.Context, user entity.User) ([]dto.PriceTrendResponse, error) {
	snap := uc.catalog.Snapshot()
	out := make([]dto.PriceTrendResponse, len(snap.Suppliers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(priceTrendParallelism)
	for i, sp := range snap.Suppliers {
		g.Go(func() error {
			res, err := uc.priceTrend(gctx, user, sp, snap.Products)
			if err != nil {
				return err
			}
			out[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *UseCase) priceTrend(ctx context.Context, user entity.User, supplier entity.Supplier, all []entity.Product) (*dto.PriceTrendResponse, error) {
	products := make([]entity.Product, 0)
	for _, p := range all {
		if p.SupplierID == supplier.ID {
			products = append(products, p)
		}
	}
	if len(products) == 0 {
		return &dto.PriceTrendResponse{SupplierID: supplier.ID, Predictions: []entity.PricePrediction{}}, nil
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionPricePredictionStarted,
		Details: fmt.Sprintf("Price prediction for supplier %q initiated.", supplier.Name),
		UserID:  user.ID,
	})

	callCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	preds, err := uc.service.PredictPriceTrend(callCtx, supplier, products)
	if err != nil {
		uc.recorder.Record(ctx, audit.Entry{
			Action:  entity.ActionPricePredictionFailed,
			Details: fmt.Sprintf("Failed to get price predictions for supplier %q.", supplier.Name),
			UserID:  user.ID,
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}

	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	kept := make([]entity.PricePrediction, 0, len(preds))
	for _, pp := range preds {
		if known[pp.ProductID] {
			kept = append(kept, pp)
		}
	}

	uc.recorder.Record(ctx, audit.Entry{
		Action:  entity.ActionPricePredictionOK,
		Details: fmt.Sprintf("Generated price predictions for %d products from %q.", len(kept), supplier.Name),
		UserID:  user.ID,
	})
	return &dto.PriceTrendResponse{SupplierID: supplier.ID, Predictions: kept}, nil
}

// sanitize descarta resultados de productos que no existen, sugerencias para sedes desconocidas
// y duplicados (gana el primero).
func sanitize(results []entity.PredictionResult, snap catalog.Snapshot) []entity.PredictionResult {
	out := make([]entity.PredictionResult, 0, len(results))
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		if seen[r.ProductID] || snap.ProductIndex(r.ProductID) < 0 || !r.Urgency.Valid() {
			continue
		}
		seen[r.ProductID] = true
		var suggestions []entity.BranchSuggestion
		for _, bs := range r.BranchSuggestions {
			if _, ok := snap.Branch(bs.BranchID); ok && bs.RestockAmount >= 0 {
				suggestions = append(suggestions, bs)
			}
		}
		r.BranchSuggestions = suggestions
		out = append(out, r)
	}
	return out
}

func cloneResults(in []entity.PredictionResult) []entity.PredictionResult {
	out := make([]entity.PredictionResult, len(in))
	for i, r := range in {
		r.BranchSuggestions = append([]entity.BranchSuggestion(nil), r.BranchSuggestions...)
		out[i] = r
	}
	return out
}
