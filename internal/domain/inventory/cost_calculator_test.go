package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCostCalculator(t *testing.T) {
	d := decimal.NewFromInt

	assert.True(t, d(15).Equal(CostCalculator(d(10), d(10), d(10), d(20))))
	assert.True(t, d(20).Equal(CostCalculator(d(0), d(0), d(5), d(20))))
	assert.True(t, decimal.Zero.Equal(CostCalculator(d(0), d(10), d(0), d(20))))
}
