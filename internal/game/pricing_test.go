package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCutPerfectCheddarCut(t *testing.T) {
	order := Order{Cheese: CheeseCheddar, Weight: 100, BasePricePer100g: 8}
	result := ResolveCut(order, 1.0, 50, 1)

	require.InDelta(t, 105, result.WeightSold, 1e-9, "accuracy 1.0 over-delivers by 5%%")
	// reputation 50 -> factor 1.0, difficulty 1 -> bonus 1.0: round(1.05 * 8).
	assert.Equal(t, 8, result.FinalPrice)
	assert.InDelta(t, 1.0, result.ReputationChange, 1e-9)
}

func TestResolveCutDegenerateGesture(t *testing.T) {
	order := Order{Cheese: CheeseCheddar, Weight: 100, BasePricePer100g: 8}
	result := ResolveCut(order, 0.1, 50, 1)

	require.InDelta(t, 87, result.WeightSold, 1e-9)
	// round(0.87 * 8 * 0.1) = round(0.696) = 1.
	assert.Equal(t, 1, result.FinalPrice)
	assert.InDelta(t, -2.0, result.ReputationChange, 1e-9)
}

func TestResolveCutWeightFloor(t *testing.T) {
	order := Order{Cheese: CheeseBrie, Weight: 10, BasePricePer100g: 12}
	result := ResolveCut(order, 0.1, 50, 1)
	assert.InDelta(t, MinWeightSold, result.WeightSold, 1e-9, "slivers clamp to the minimum sellable weight")
}

func TestResolveCutReputationIsAPriceMultiplier(t *testing.T) {
	// Accuracy 0.75 sells exactly the ordered weight, so the price ratio is
	// not disturbed by rounding.
	order := Order{Cheese: CheeseCheddar, Weight: 100, BasePricePer100g: 8}

	broke := ResolveCut(order, 0.75, 0, 1)
	trusted := ResolveCut(order, 0.75, 100, 1)

	// Factor runs 0.5 to 1.5, so the same cut pays three times as much at
	// full reputation.
	assert.Equal(t, broke.FinalPrice*3, trusted.FinalPrice)
	assert.InDelta(t, broke.ReputationChange, trusted.ReputationChange, 1e-9,
		"reputation affects price, never the reputation swing")
}

func TestResolveCutDifficultyScalesPremiumAndSwing(t *testing.T) {
	order := Order{Cheese: CheeseGouda, Weight: 100, BasePricePer100g: 10}

	easy := ResolveCut(order, 1.0, 50, 1)
	hard := ResolveCut(order, 1.0, 50, 6)
	assert.Greater(t, hard.FinalPrice, easy.FinalPrice)
	assert.InDelta(t, easy.ReputationChange*6, hard.ReputationChange, 1e-9)

	easyMiss := ResolveCut(order, 0.4, 50, 1)
	hardMiss := ResolveCut(order, 0.4, 50, 6)
	assert.Less(t, hardMiss.ReputationChange, easyMiss.ReputationChange,
		"harder shapes swing reputation further down on a miss")
}

func TestResolveCutBreakEvenAccuracy(t *testing.T) {
	order := Order{Cheese: CheeseCheddar, Weight: 100, BasePricePer100g: 8}
	for difficulty := 1; difficulty <= 6; difficulty++ {
		result := ResolveCut(order, 0.7, 50, difficulty)
		assert.InDelta(t, 0, result.ReputationChange, 1e-9, "0.7 is break-even at difficulty %d", difficulty)
	}
}

func TestResolveCutIsTotal(t *testing.T) {
	order := Order{Cheese: CheeseBrie, Weight: 140, BasePricePer100g: 12}
	for _, accuracy := range []float64{0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		for _, reputation := range []float64{0, 25, 50, 75, 100} {
			result := ResolveCut(order, accuracy, reputation, 3)
			assert.GreaterOrEqual(t, result.WeightSold, MinWeightSold)
			assert.GreaterOrEqual(t, result.FinalPrice, 0)
		}
	}
}
