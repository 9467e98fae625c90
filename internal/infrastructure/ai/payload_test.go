package ai

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/clinic-inventory-api/internal/domain/entity"
)

func TestDecodeRestock_Valido(t *testing.T) {
	raw := "```json\n" + `[
	  {"product_id": "prod-1", "predicted_usage": 0, "restock_suggestion": " Reponer 40 ", "urgency": "High",
	   "branch_suggestions": [{"branch_id": "branch-1", "restock_amount": 40}]},
	  {"product_id": "prod-2", "predicted_usage": 12, "restock_suggestion": "Sin acción", "urgency": "Low"}
	]` + "\n```"

	got, err := decodeRestock(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entity.UrgencyHigh, got[0].Urgency)
	assert.Equal(t, 0, got[0].PredictedUsage)
	assert.Equal(t, "Reponer 40", got[0].RestockSuggestion)
	assert.Equal(t, []entity.BranchSuggestion{{BranchID: "branch-1", RestockAmount: 40}}, got[0].BranchSuggestions)
	assert.Nil(t, got[1].BranchSuggestions)
}

func TestDecodeRestock_Invalido(t *testing.T) {
	cases := map[string]string{
		"sin arreglo":         `{"product_id": "p"}`,
		"urgencia inválida":   `[{"product_id": "p", "predicted_usage": 1, "restock_suggestion": "x", "urgency": "Critical"}]`,
		"falta consumo":       `[{"product_id": "p", "restock_suggestion": "x", "urgency": "Low"}]`,
		"consumo negativo":    `[{"product_id": "p", "predicted_usage": -3, "restock_suggestion": "x", "urgency": "Low"}]`,
		"tipo incorrecto":     `[{"product_id": "p", "predicted_usage": "muchos", "restock_suggestion": "x", "urgency": "Low"}]`,
		"sugerencia sin sede": `[{"product_id": "p", "predicted_usage": 1, "restock_suggestion": "x", "urgency": "Low", "branch_suggestions": [{"restock_amount": 2}]}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decodeRestock(raw)
			assert.Error(t, err)
		})
	}
}

func TestDecodePriceTrend(t *testing.T) {
	got, err := decodePriceTrend(`Aquí está: [{"product_id": "prod-1", "product_name": "Guantes", "prediction_summary": "Sube", "predicted_change_percentage": 5.5}]`)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, decimal.RequireFromString("5.5").Equal(got[0].PredictedChangePercentage))

	_, err = decodePriceTrend(`[{"product_id": "prod-1", "product_name": "Guantes", "prediction_summary": "Sube"}]`)
	assert.Error(t, err)
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[1,2]`, extractJSONArray("```\n[1,2]\n```"))
	assert.Equal(t, `[{"a":[1]}]`, extractJSONArray(`texto [{"a":[1]}] fin`))
	assert.Empty(t, extractJSONArray("nada"))
}
