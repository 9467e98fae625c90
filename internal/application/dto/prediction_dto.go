package dto

import (
	"time"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

// PredictionRunResponse resultado de una corrida de predicción de reposición.
type PredictionRunResponse struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Results     []entity.PredictionResult `json:"results"`
}

// PriceTrendResponse tendencia de precios de los productos de un proveedor.
type PriceTrendResponse struct {
	SupplierID  string                   `json:"supplier_id"`
	Predictions []entity.PricePrediction `json:"predictions"`
}

// ReorderRequest pedido rápido a un proveedor desde una sugerencia.
type ReorderRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	OrderName string `json:"order_name" validate:"required,min=1,max=200"`
}
