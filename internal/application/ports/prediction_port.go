package ports

import (
	"context"
	"time"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// PredictionService define el puerto de salida hacia el servicio externo de predicción.
// Cualquier adaptador (Gemini, Anthropic, mock) debe implementar esta interfaz y devolver
// resultados ya validados; el contexto debe llevar un timeout.
type PredictionService interface {
	// PredictRestock estima consumo, urgencia y reposición sugerida por producto y sede.
	PredictRestock(
		ctx context.Context,
		products []entity.Product,
		branches []entity.Branch,
		suppliers []entity.Supplier,
	) ([]entity.PredictionResult, error)

	// PredictPriceTrend estima la variación de precio de los productos de un proveedor.
	PredictPriceTrend(
		ctx context.Context,
		supplier entity.Supplier,
		products []entity.Product,
	) ([]entity.PricePrediction, error)
}

// PredictionCache guarda el último conjunto de predicciones de reposición para sobrevivir
// reinicios. Get devuelve found=false si no hay nada guardado.
type PredictionCache interface {
	Get(ctx context.Context) (results []entity.PredictionResult, generatedAt time.Time, found bool, err error)
	Set(ctx context.Context, results []entity.PredictionResult, generatedAt time.Time) error
}
