package catalog

import (
	"context"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
)

// StorefrontProduct is the processed view served to storefront reads.
type StorefrontProduct struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Price         float64            `json:"price"`
	Description   string             `json:"description"`
	ImageURL      string             `json:"image_url"`
	Stock         int                `json:"stock"`
	OriginalPrice float64            `json:"original_price"`
	BasePrice     float64            `json:"base_price"`
	Location      string             `json:"location"`
	Metadata      models.ProductMeta `json:"metadata"`
	Mood          string             `json:"ai_mood"`
}

const (
	// originalPriceFactor fabricates the display-only "was" price.
	originalPriceFactor = 2.1
	// baseFallbackFactor estimates a supplier cost when none is stored.
	baseFallbackFactor = 0.65

	defaultStock    = 10
	defaultLocation = "Global"
)

type activeReader interface {
	SelectActiveOrdered(ctx context.Context) ([]models.Product, error)
}

type moodReader interface {
	Mood() enums.Mood
}

// Service serves the cached storefront catalog.
type Service struct {
	repo  activeReader
	cache *Cache
	mood  moodReader
	logg  *logger.Logger
}

// NewService builds the storefront read service.
func NewService(repo activeReader, cache *Cache, mood moodReader, logg *logger.Logger) *Service {
	return &Service{repo: repo, cache: cache, mood: mood, logg: logg}
}

// List returns the storefront catalog, served from cache when fresh. A
// store failure degrades to an empty list so the storefront keeps
// rendering; the failure is still logged for operators.
func (s *Service) List(ctx context.Context) []StorefrontProduct {
	if snapshot, ok := s.cache.Get(); ok {
		return snapshot
	}

	products, err := s.repo.SelectActiveOrdered(ctx)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "storefront read degraded to empty catalog", err)
		}
		return []StorefrontProduct{}
	}

	snapshot := make([]StorefrontProduct, 0, len(products))
	mood := enums.MoodOptimal
	if s.mood != nil {
		mood = s.mood.Mood()
	}
	for _, p := range products {
		snapshot = append(snapshot, s.processed(p, mood))
	}
	s.cache.Set(snapshot)
	return snapshot
}

func (s *Service) processed(p models.Product, mood enums.Mood) StorefrontProduct {
	base := p.BasePrice
	if base <= 0 {
		base = p.Price * baseFallbackFactor
	}
	stock := p.Stock
	if stock <= 0 {
		stock = defaultStock
	}
	location := p.Metadata.Location
	if location == "" {
		location = defaultLocation
	}
	return StorefrontProduct{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		Stock:         stock,
		OriginalPrice: p.Price * originalPriceFactor,
		BasePrice:     base,
		Location:      location,
		Metadata:      p.Metadata,
		Mood:          mood.String(),
	}
}
