package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/clinic-inventory-api/internal/application/ports"
	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

const predictionsKey = "clinic:predictions:restock"

var _ ports.PredictionCache = (*PredictionCache)(nil)

type cachedPredictions struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Results     []entity.PredictionResult `json:"results"`
}

// PredictionCache guarda la última corrida de predicciones con TTL.
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPredictionCache ttl <= 0 guarda sin expiración.
func NewPredictionCache(client *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl}
}

func (c *PredictionCache) Get(ctx context.Context) ([]entity.PredictionResult, time.Time, bool, error) {
	payload, err := c.client.Get(ctx, predictionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("cache: leer predicciones: %w", err)
	}
	var cached cachedPredictions
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("cache: decodificar predicciones: %w", err)
	}
	return cached.Results, cached.GeneratedAt, true, nil
}

func (c *PredictionCache) Set(ctx context.Context, results []entity.PredictionResult, generatedAt time.Time) error {
	raw, err := json.Marshal(cachedPredictions{GeneratedAt: generatedAt, Results: results})
	if err != nil {
		return fmt.Errorf("cache: codificar predicciones: %w", err)
	}
	if err := c.client.Set(ctx, predictionsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: guardar predicciones: %w", err)
	}
	return nil
}
