package repricer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/suruagyvieira/dropmasters-alpha/internal/discovery"
	"github.com/suruagyvieira/dropmasters-alpha/internal/pricing"
	"github.com/suruagyvieira/dropmasters-alpha/internal/supplier"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/metrics"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

const (
	// discoveryMinCatalog triggers discovery whenever the active catalog is
	// smaller than this.
	discoveryMinCatalog = 40
	// discoveryChance is the exploration probability when nothing else
	// triggers discovery.
	discoveryChance = 0.35
	discoveryLimit  = 6
	// qualityFloor drops discovered candidates scoring below it.
	qualityFloor = 75

	retirementThreshold = 60
	retirementBatch     = 10

	// storefrontRegion anchors the business-model selection during a cycle.
	storefrontRegion = "SP"

	localDiscount = 0.95

	highDemandMin, highDemandMax = 85, 99
	lowDemandMin, lowDemandMax   = 40, 80
	viralThreshold               = 90
	viralStockMin, viralStockMax = 2, 5
	stockMin, stockMax           = 10, 20
)

type catalogStore interface {
	SelectActive(ctx context.Context) ([]models.Product, error)
	Insert(ctx context.Context, products []models.Product) error
	Upsert(ctx context.Context, products []models.Product) error
	UpdateByID(ctx context.Context, id string, fields map[string]any) error
}

type signalSource interface {
	GetSignals() supplier.Signals
}

type discoverySource interface {
	Search(ctx context.Context, keyword string, limit int) ([]discovery.Candidate, error)
	TrendingKeywords() []string
}

type cacheInvalidator interface {
	Invalidate()
}

type eventSink interface {
	Record(eventType, message string) bool
}

type pressureReleaser interface {
	ReleasePressure()
}

// Job executes one full catalog cycle: mood, repricing, discovery,
// retirement, cache flush.
type Job struct {
	store    catalogStore
	signals  signalSource
	source   discoverySource
	cache    cacheInvalidator
	state    *State
	rng      randx.Rand
	logg     *logger.Logger
	metrics  *metrics.RepricerMetrics
	events   eventSink
	releaser pressureReleaser

	cooldown             time.Duration
	dissatisfactionDecay float64
	clock                func() time.Time
}

// JobDeps wires the cycle's collaborators.
type JobDeps struct {
	Store    catalogStore
	Signals  signalSource
	Source   discoverySource
	Cache    cacheInvalidator
	State    *State
	Rand     randx.Rand
	Logger   *logger.Logger
	Metrics  *metrics.RepricerMetrics
	Events   eventSink
	Releaser pressureReleaser

	Cooldown             time.Duration
	DissatisfactionDecay float64
}

// NewJob builds a cycle job.
func NewJob(deps JobDeps) *Job {
	rng := deps.Rand
	if rng == nil {
		rng = randx.New()
	}
	cooldown := deps.Cooldown
	if cooldown <= 0 {
		cooldown = 5 * time.Minute
	}
	return &Job{
		store:                deps.Store,
		signals:              deps.Signals,
		source:               deps.Source,
		cache:                deps.Cache,
		state:                deps.State,
		rng:                  rng,
		logg:                 deps.Logger,
		metrics:              deps.Metrics,
		events:               deps.Events,
		releaser:             deps.Releaser,
		cooldown:             cooldown,
		dissatisfactionDecay: deps.DissatisfactionDecay,
		clock:                time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (j *Job) SetClock(clock func() time.Time) {
	if clock != nil {
		j.clock = clock
	}
}

// Run executes one cycle. Re-entry while a cycle is in flight is a no-op,
// as is an unforced run inside the cooldown window with no fresh
// conversions. Step failures are isolated: the cycle finishes what it can
// and returns the combined error.
func (j *Job) Run(ctx context.Context, force bool) error {
	if !j.state.BeginSync() {
		if j.logg != nil {
			j.logg.Warn(ctx, "cycle already in flight, skipping")
		}
		return nil
	}
	defer j.state.EndSync()
	defer j.cache.Invalidate()

	now := j.clock()
	if !force && j.state.ShouldSkip(now, j.cooldown) {
		return nil
	}

	signals := j.signals.GetSignals()
	marketPressure := pricing.Pressure(j.rng)
	mood := deriveMood(signals, j.state.Dissatisfaction())
	multiplier := pricing.EffectiveMultiplier(j.rng, marketPressure, mood)

	var errs error
	var repriced, discovered, retired int

	catalog, err := j.loadOrSeed(ctx)
	if err != nil {
		errs = multierr.Append(errs, err)
	} else {
		repriced, err = j.reprice(ctx, catalog, signals, marketPressure, multiplier)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		j.metrics.SetRepriced(repriced)

		discovered, err = j.discover(ctx, catalog, signals, marketPressure, multiplier)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		j.metrics.AddDiscovered(discovered)

		retired, err = j.retire(ctx, catalog)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		j.metrics.AddRetired(retired)
	}

	j.state.DecayDissatisfaction(j.dissatisfactionDecay)
	if j.releaser != nil {
		j.releaser.ReleasePressure()
	}
	j.state.MarkSynced(now, mood, multiplier)

	if j.events != nil {
		j.events.Record("system", fmt.Sprintf(
			"🧠 APEX CYCLE: Mood %s | Supply %d%% | Pressure %d%%",
			mood, int(signals.ReliabilityScore*100), int(signals.SupplyChainPressure*100)))
	}
	if j.logg != nil {
		ctx = j.logg.WithFields(ctx, map[string]any{
			"mood":       mood.String(),
			"multiplier": multiplier,
			"repriced":   repriced,
			"discovered": discovered,
			"retired":    retired,
		})
		j.logg.Info(ctx, "catalog cycle complete")
	}
	return errs
}

// deriveMood ranks the platform posture: supplier reliability first, then
// supply pressure, then customer sentiment.
func deriveMood(signals supplier.Signals, dissatisfaction float64) enums.Mood {
	switch {
	case signals.ReliabilityScore < 0.85:
		return enums.MoodSafety
	case signals.SupplyChainPressure > 0.8:
		return enums.MoodThrottled
	case dissatisfaction > 3:
		return enums.MoodEmpathy
	default:
		return enums.MoodApex
	}
}

// loadOrSeed reads the active catalog, planting the winner pool first when
// the store is empty.
func (j *Job) loadOrSeed(ctx context.Context) ([]models.Product, error) {
	catalog, err := j.store.SelectActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if len(catalog) > 0 {
		return catalog, nil
	}
	if err := j.store.Upsert(ctx, seedProducts()); err != nil {
		return nil, fmt.Errorf("seeding winner pool: %w", err)
	}
	if j.logg != nil {
		j.logg.Info(ctx, "empty catalog seeded from winner pool")
	}
	catalog, err = j.store.SelectActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reloading seeded catalog: %w", err)
	}
	return catalog, nil
}

func (j *Job) reprice(ctx context.Context, catalog []models.Product, signals supplier.Signals, marketPressure, multiplier float64) (int, error) {
	batch := make([]models.Product, 0, len(catalog))
	for i := range catalog {
		p := catalog[i]
		if !p.Repriceable() {
			continue
		}

		locAdj := 1.0
		if supplier.IsLocalHub(p.Metadata.Location) {
			locAdj = localDiscount
		}
		p.Price = pricing.CharmPrice(p.BasePrice * multiplier * locAdj)

		demand := j.demandScore(signals)
		viral := demand > viralThreshold
		p.Metadata.DemandScore = demand
		p.Metadata.IsViral = viral
		p.IsFeatured = viral
		if viral {
			p.Stock = randx.Between(j.rng, viralStockMin, viralStockMax)
		} else {
			p.Stock = randx.Between(j.rng, stockMin, stockMax)
		}

		selection := pricing.SelectModel(pricing.ProductView{
			Name:      p.Name,
			Price:     p.Price,
			BasePrice: p.BasePrice,
			Origin:    p.Metadata.Location,
		}, marketPressure, storefrontRegion)
		p.Metadata.BusinessModel = selection.Model
		p.Metadata.ModelTag = selection.Tag
		p.Metadata.Strategy = selection.Strategy
		p.Description = pricing.GenerateCopy(j.rng, p.Name, selection)

		batch = append(batch, p)
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := j.store.Upsert(ctx, batch); err != nil {
		return 0, fmt.Errorf("repricing batch: %w", err)
	}
	return len(batch), nil
}

func (j *Job) demandScore(signals supplier.Signals) int {
	if signals.SupplyChainPressure > 0.7 {
		return randx.Between(j.rng, highDemandMin, highDemandMax)
	}
	return randx.Between(j.rng, lowDemandMin, lowDemandMax)
}

// discover expands the catalog from the marketplace when it is thin, an
// anchor category is missing, or the exploration dice say so.
func (j *Job) discover(ctx context.Context, catalog []models.Product, signals supplier.Signals, marketPressure, multiplier float64) (int, error) {
	if j.source == nil {
		return 0, nil
	}

	missing := missingCategory(catalog)
	keyword, category := "", ""
	switch {
	case missing != "":
		keyword, category = missing, missing
	case len(catalog) < discoveryMinCatalog || j.rng.Float64() < discoveryChance:
		trending := j.source.TrendingKeywords()
		if len(trending) == 0 {
			return 0, nil
		}
		keyword, category = trending[0], "Trending"
	default:
		return 0, nil
	}

	candidates, err := j.source.Search(ctx, keyword, discoveryLimit)
	if err != nil {
		return 0, fmt.Errorf("discovery search %q: %w", keyword, err)
	}

	known := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		known[p.Name] = true
	}

	batch := make([]models.Product, 0, len(candidates))
	for _, cand := range candidates {
		if known[cand.Name] || cand.VibeScore < qualityFloor {
			continue
		}
		known[cand.Name] = true

		locAdj := 1.0
		if supplier.IsLocalHub(cand.Location) {
			locAdj = localDiscount
		}
		price := pricing.CharmPrice(cand.Price * multiplier * locAdj)
		selection := pricing.SelectModel(pricing.ProductView{
			Name:      cand.Name,
			Price:     price,
			BasePrice: cand.Price,
			Origin:    cand.Location,
		}, marketPressure, storefrontRegion)

		demand := j.demandScore(signals)
		batch = append(batch, models.Product{
			ID:          "disc_" + uuid.NewString(),
			Name:        cand.Name,
			Category:    category,
			ImageURL:    cand.Image,
			BasePrice:   cand.Price,
			Price:       price,
			Stock:       randx.Between(j.rng, stockMin, stockMax),
			IsActive:    true,
			IsFeatured:  demand > viralThreshold,
			Description: pricing.GenerateCopy(j.rng, cand.Name, selection) + " " + pricing.ComparativeHook(j.rng, cand.Name),
			Metadata: models.ProductMeta{
				Location:      cand.Location,
				BusinessModel: selection.Model,
				ModelTag:      selection.Tag,
				Strategy:      selection.Strategy,
				DemandScore:   demand,
				IsViral:       demand > viralThreshold,
				Source:        cand.Source,
			},
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := j.store.Insert(ctx, batch); err != nil {
		return 0, fmt.Errorf("inserting discoveries: %w", err)
	}
	return len(batch), nil
}

func missingCategory(catalog []models.Product) string {
	present := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		present[p.Category] = true
	}
	for _, category := range anchorCategories {
		if !present[category] {
			return category
		}
	}
	return ""
}

// retire soft-deactivates the lowest-demand tail once the catalog
// outgrows the retirement threshold.
func (j *Job) retire(ctx context.Context, catalog []models.Product) (int, error) {
	if len(catalog) <= retirementThreshold {
		return 0, nil
	}

	ranked := make([]models.Product, len(catalog))
	copy(ranked, catalog)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Metadata.DemandScore < ranked[b].Metadata.DemandScore
	})

	var errs error
	retired := 0
	for _, p := range ranked[:retirementBatch] {
		if err := j.store.UpdateByID(ctx, p.ID, map[string]any{"is_active": false}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("retiring %s: %w", p.ID, err))
			continue
		}
		retired++
	}
	return retired, errs
}
