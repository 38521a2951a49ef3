package repricer

import (
	"fmt"
	"strings"

	"github.com/suruagyvieira/dropmasters-alpha/internal/pricing"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
)

// seedMarkup is the launch multiplier applied to the winner pool before the
// first cycle reprices it properly.
const seedMarkup = 2.2

type seedEntry struct {
	name        string
	base        float64
	category    string
	location    string
	image       string
	description string
	benefits    []string
}

// winnerPool is the minimum viable catalog planted when the store is empty.
// One product per anchor category, one per regional hub.
var winnerPool = []seedEntry{
	{
		name: "Quantum Ring Pro", base: 85, category: "Wearables", location: "SP",
		image:       "1599643478518-a744c517b203",
		description: "O futuro da saúde no seu dedo. Monitoramento neural e biométrico em tempo real.",
		benefits:    []string{"Bateria de 7 dias", "Prova d'água 50m", "Análise de sono IA"},
	},
	{
		name: "Bio-Light Max", base: 120, category: "Home", location: "SC",
		image:       "1534073828943-f801091bb18c",
		description: "Iluminação inteligente que sincroniza com seu ritmo circadiano para máxima energia.",
		benefits:    []string{"Redução de fadiga", "Sincronia com Apps", "LED de espectro total"},
	},
	{
		name: "Ultra-Pods Elite", base: 55, category: "Audio", location: "PR",
		image:       "1590658268037-6bf12165a8df",
		description: "Áudio espacial imersivo com cancelamento de ruído neural ativo.",
		benefits:    []string{"Som Lossless", "Conexão Multiponto", "40h de autonomia"},
	},
	{
		name: "Neural-Sleep Mask", base: 65, category: "Health", location: "MG",
		image:       "1512314889339-df833219552d",
		description: "Bloqueio total de luz com neuro-estimulação para sono profundo instantâneo.",
		benefits:    []string{"Tecido respirável", "Fones integrados", "App de meditação"},
	},
}

// anchorCategories are the categories discovery keeps populated.
var anchorCategories = []string{"Wearables", "Home", "Audio", "Health"}

func seedID(name string) string {
	return "seed_" + strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func seedImageURL(photo string) string {
	return fmt.Sprintf("https://images.unsplash.com/photo-%s?q=80&w=600", photo)
}

// seedProducts materializes the winner pool as storable rows.
func seedProducts() []models.Product {
	out := make([]models.Product, 0, len(winnerPool))
	for _, entry := range winnerPool {
		out = append(out, models.Product{
			ID:          seedID(entry.name),
			Name:        entry.name,
			Description: entry.description,
			Category:    entry.category,
			ImageURL:    seedImageURL(entry.image),
			BasePrice:   entry.base,
			Price:       pricing.CharmPrice(entry.base * seedMarkup),
			Stock:       15,
			IsActive:    true,
			Metadata: models.ProductMeta{
				Location: entry.location,
				Source:   "winner_pool",
				Benefits: entry.benefits,
			},
		})
	}
	return out
}
