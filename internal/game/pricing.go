package game

import "math"

// MinWeightSold is the smallest sellable sliver in grams.
const MinWeightSold = 10.0

// CutResult is the outcome of one resolved cut. It carries no identity and is
// consumed exactly once by the session.
type CutResult struct {
	Accuracy         float64 `json:"accuracy"`
	WeightSold       float64 `json:"weightSold"`
	FinalPrice       int     `json:"finalPrice"`
	ReputationChange float64 `json:"reputationChange"`
}

// ResolveCut turns an order, a scored accuracy, the shop's reputation and the
// shape difficulty into the sale terms. The function is total: every numeric
// input produces a result, and the caller decides whether provisions can
// actually cover WeightSold.
//
// Accuracy above 0.75 over-delivers weight, below under-delivers. Reputation
// acts as a price multiplier between 0.5 and 1.5, and harder shapes pay a
// small premium per unit. The 0.7 accuracy threshold is break-even for
// reputation; harder shapes swing it further in both directions.
func ResolveCut(order Order, accuracy, reputation float64, difficulty int) CutResult {
	weightSold := math.Max(MinWeightSold, order.Weight*(1+(accuracy-0.75)*0.2))

	reputationFactor := 0.5 + reputation/100
	difficultyBonus := 1 + float64(difficulty-1)*0.1
	pricePer100g := float64(order.BasePricePer100g) * reputationFactor * accuracy * difficultyBonus
	finalPrice := int(math.Round(weightSold / 100 * pricePer100g))

	reputationChange := (accuracy - 0.7) * 10 * (float64(difficulty) / 3)

	return CutResult{
		Accuracy:         accuracy,
		WeightSold:       weightSold,
		FinalPrice:       finalPrice,
		ReputationChange: reputationChange,
	}
}
