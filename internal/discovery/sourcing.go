package discovery

import (
	"context"
	"math"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

const (
	// netProfitMultiplier targets the platform's net take on sourced items.
	netProfitMultiplier = 1.35
	// logisticsFee is the flat priority-dispatch surcharge.
	logisticsFee = 15.00

	fallbackBaseMin = 50
	fallbackBaseMax = 450
)

// Estimate is a sourcing quote for an off-catalog product request.
type Estimate struct {
	Name           string     `json:"name"`
	EstimatedPrice float64    `json:"estimated_price"`
	OriginalBase   float64    `json:"original_base"`
	ProfitNet      float64    `json:"profit_net"`
	LocationSignal string     `json:"location_signal"`
	Status         string     `json:"status"`
	Message        string     `json:"message"`
	RealData       *Candidate `json:"real_data,omitempty"`
}

// EstimateCustom quotes an off-catalog request. A live marketplace hit
// anchors the base price; otherwise the quote falls back to a market-band
// guess so the intermediation flow never dead-ends.
func (c *Client) EstimateCustom(ctx context.Context, query string) Estimate {
	var (
		base     float64
		name     string
		location string
		message  string
		real     *Candidate
	)

	candidates, err := c.Search(ctx, query, 1)
	if err == nil && len(candidates) > 0 {
		top := candidates[0]
		base = top.Price
		name = top.Name
		location = top.Location
		message = "📍 Item encontrado em fornecedor parceiro Regional."
		real = &top
	} else {
		base = randx.Uniform(c.rand, fallbackBaseMin, fallbackBaseMax)
		name = "Item Encomenda: " + query
		location = randx.Pick(c.rand, []string{"SP", "SC"})
		message = "⚠️ Estimativa baseada em média de mercado (Sourcing em andamento)."
	}

	final := round2(base*netProfitMultiplier + logisticsFee)
	return Estimate{
		Name:           name,
		EstimatedPrice: final,
		OriginalBase:   round2(base),
		ProfitNet:      round2(final - base - logisticsFee),
		LocationSignal: location,
		Status:         "feasible",
		Message:        message + " Disponível para intermediação imediata.",
		RealData:       real,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
