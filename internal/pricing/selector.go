package pricing

import (
	"strings"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

// Selection is the monetization decision for a single product.
type Selection struct {
	Model    enums.BusinessModel
	Tag      string
	Strategy string
	Risk     string
}

// ProductView is the slice of product state the selector inspects.
type ProductView struct {
	Name      string
	Price     float64
	BasePrice float64
	// Origin is the product's dispatch region, from catalog metadata.
	Origin string
}

const nicheMarker = "Special"

// hubNeighbors maps each dispatch hub to the regions it serves with local
// logistics. Adjacency is directional from the buyer's region.
var hubNeighbors = map[string][]string{
	"SP": {"SP", "RJ", "MG", "PR"},
	"SC": {"SC", "PR", "RS"},
	"PR": {"PR", "SP", "SC"},
	"MG": {"MG", "SP"},
}

// SelectModel walks the ordered decision list and returns the first match.
// The order is a policy contract: later rules are broader catch-alls and
// must not be evaluated early.
func SelectModel(product ProductView, pressure float64, region string) Selection {
	base := product.BasePrice
	if base <= 0 {
		base = product.Price * 0.5
	}
	ratio := 0.0
	if base > 0 {
		ratio = product.Price / base
	}

	if region != "" && regionServedLocally(region, product.Origin) {
		return Selection{
			Model:    enums.BusinessModelLocalHub,
			Tag:      "⚡ HUB REGIONAL",
			Strategy: "Entrega Local Prioritária",
			Risk:     "Baixo",
		}
	}

	if pressure > 0.92 && ratio < 1.4 {
		return Selection{
			Model:    enums.BusinessModelAffiliate,
			Tag:      "🌐 REDE GLOBAL",
			Strategy: "Volume de Comissão",
			Risk:     "Zero",
		}
	}

	if strings.Contains(product.Name, nicheMarker) {
		return Selection{
			Model:    enums.BusinessModelMarketplace,
			Tag:      "🤝 PARCEIRO APEX",
			Strategy: "Comissão de Plataforma",
			Risk:     "Baixo",
		}
	}

	if ratio > 2.5 {
		return Selection{
			Model:    enums.BusinessModelWhiteLabel,
			Tag:      "💎 EXCLUSIVO APEX",
			Strategy: "Fidelização e Branding",
			Risk:     "Médio",
		}
	}

	return Selection{
		Model:    enums.BusinessModelDropshipping,
		Tag:      "📦 DESPACHO DIRETO",
		Strategy: "Giro Rápido",
		Risk:     "Baixo",
	}
}

func regionServedLocally(region, origin string) bool {
	if origin == "" {
		return false
	}
	if region == origin {
		return true
	}
	for _, neighbor := range hubNeighbors[region] {
		if neighbor == origin {
			return true
		}
	}
	return false
}
