// Package pricing holds the margin model, the business-model selector and
// the marketing copy generator used by the repricing cycle.
package pricing

import (
	"math"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

const (
	// MinimumMultiplier is the markup floor applied after mood adjustment.
	MinimumMultiplier = 1.4

	highPressureThreshold = 0.8

	// Aggressive band: high market pressure forces a thin margin.
	aggressiveMin = 1.6
	aggressiveMax = 2.0
	// Harvest band: low pressure allows a fat margin.
	harvestMin = 3.5
	harvestMax = 4.2
)

// Pressure samples a fresh market-competitiveness signal in [0.6, 0.95).
func Pressure(r randx.Rand) float64 {
	return randx.Uniform(r, 0.6, 0.95)
}

// Margin returns a price multiplier for the given pressure. High pressure
// selects the aggressive band, anything else the harvest band. The output
// is intentionally stochastic for the same input.
func Margin(r randx.Rand, pressure float64) float64 {
	if pressure > highPressureThreshold {
		return randx.Uniform(r, aggressiveMin, aggressiveMax)
	}
	return randx.Uniform(r, harvestMin, harvestMax)
}

// EffectiveMultiplier combines a sampled margin with the mood adjustment
// and enforces the markup floor.
func EffectiveMultiplier(r randx.Rand, pressure float64, mood enums.Mood) float64 {
	return math.Max(MinimumMultiplier, Margin(r, pressure)*mood.PriceAdjustment())
}

// CharmPrice rounds to cents and tacks on the fixed .99 fractional offset.
func CharmPrice(raw float64) float64 {
	return math.Round(raw*100)/100 + 0.99
}
