package repricer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/internal/discovery"
	"github.com/suruagyvieira/dropmasters-alpha/internal/supplier"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

// scriptRand replays fixed values so pricing outcomes are exact.
type scriptRand struct {
	floats []float64
	ints   []int
	f, i   int
}

func (s *scriptRand) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[s.f%len(s.floats)]
	s.f++
	return v
}

func (s *scriptRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.i%len(s.ints)] % n
	s.i++
	return v
}

type fakeCatalog struct {
	mu      sync.Mutex
	byName  map[string]models.Product
	selects int
	upserts int
	inserts int
}

func newFakeCatalog(products ...models.Product) *fakeCatalog {
	f := &fakeCatalog{byName: make(map[string]models.Product)}
	for _, p := range products {
		f.byName[p.Name] = p
	}
	return f
}

func (f *fakeCatalog) SelectActive(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects++
	var out []models.Product
	for _, p := range f.byName {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}

func (f *fakeCatalog) Insert(ctx context.Context, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	for _, p := range products {
		if _, exists := f.byName[p.Name]; exists {
			return fmt.Errorf("duplicate name %q", p.Name)
		}
		f.byName[p.Name] = p
	}
	return nil
}

func (f *fakeCatalog) Upsert(ctx context.Context, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	for _, p := range products {
		if existing, ok := f.byName[p.Name]; ok {
			p.ID = existing.ID
		}
		f.byName[p.Name] = p
	}
	return nil
}

func (f *fakeCatalog) UpdateByID(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, p := range f.byName {
		if p.ID != id {
			continue
		}
		if active, ok := fields["is_active"].(bool); ok {
			p.IsActive = active
		}
		f.byName[name] = p
		return nil
	}
	return fmt.Errorf("unknown id %q", id)
}

func (f *fakeCatalog) get(name string) (models.Product, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byName[name]
	return p, ok
}

func (f *fakeCatalog) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.byName {
		if p.IsActive {
			n++
		}
	}
	return n
}

type fakeSignals struct{ signals supplier.Signals }

func (f fakeSignals) GetSignals() supplier.Signals { return f.signals }

func healthySignals() supplier.Signals {
	return supplier.Signals{AvgDispatchTime: 12.5, ReliabilityScore: 0.98, SupplyChainPressure: 0.2}
}

type fakeDiscovery struct {
	mu         sync.Mutex
	candidates []discovery.Candidate
	keywords   []string
}

func (f *fakeDiscovery) Search(ctx context.Context, keyword string, limit int) ([]discovery.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywords = append(f.keywords, keyword)
	if limit < len(f.candidates) {
		return f.candidates[:limit], nil
	}
	return f.candidates, nil
}

func (f *fakeDiscovery) TrendingKeywords() []string { return []string{"smartwatch ultra"} }

func (f *fakeDiscovery) searched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keywords...)
}

type fakeCache struct {
	mu          sync.Mutex
	invalidated int
}

func (f *fakeCache) Invalidate() {
	f.mu.Lock()
	f.invalidated++
	f.mu.Unlock()
}

func (f *fakeCache) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invalidated
}

func newJob(store *fakeCatalog, signals supplier.Signals, source *fakeDiscovery, rng *scriptRand) (*Job, *State, *fakeCache) {
	state := NewState()
	cache := &fakeCache{}
	job := NewJob(JobDeps{
		Store:   store,
		Signals: fakeSignals{signals},
		Source:  source,
		Cache:   cache,
		State:   state,
		Rand:    rng,
	})
	return job, state, cache
}

func fullCatalog() []models.Product {
	// One product per anchor category so discovery stays quiet unless the
	// dice trigger it.
	out := make([]models.Product, 0, len(anchorCategories))
	for i, category := range anchorCategories {
		out = append(out, models.Product{
			ID:        fmt.Sprintf("p%d", i),
			Name:      category + " Anchor",
			Category:  category,
			BasePrice: 100,
			Price:     249.99,
			IsActive:  true,
			Metadata:  models.ProductMeta{Location: "RJ", DemandScore: 50},
		})
	}
	return out
}

func TestRun_seedsEmptyCatalog(t *testing.T) {
	store := newFakeCatalog()
	job, _, _ := newJob(store, healthySignals(), &fakeDiscovery{}, &scriptRand{floats: []float64{0.3, 0.5}})

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := store.activeCount(); got != 4 {
		t.Fatalf("seeded catalog size %d, want 4", got)
	}
	for _, name := range []string{"Quantum Ring Pro", "Bio-Light Max", "Ultra-Pods Elite", "Neural-Sleep Mask"} {
		p, ok := store.get(name)
		if !ok {
			t.Fatalf("missing winner pool entry %q", name)
		}
		if !strings.HasPrefix(p.ID, "seed_") {
			t.Fatalf("seed id %q", p.ID)
		}
		if p.Description == "" {
			t.Fatalf("seed %q was not repriced with copy", name)
		}
		if p.ImageURL == "" || len(p.Metadata.Benefits) == 0 {
			t.Fatalf("reprice dropped launch image or benefits for %q: %+v", name, p)
		}
	}
}

func TestSeedProducts_launchPricing(t *testing.T) {
	for _, p := range seedProducts() {
		want := math.Round(p.BasePrice*2.2*100)/100 + 0.99
		if p.Price != want {
			t.Fatalf("%s seed price %v, want %v", p.Name, p.Price, want)
		}
		if p.ID != "seed_"+strings.ReplaceAll(strings.ToLower(p.Name), " ", "_") {
			t.Fatalf("seed id %q", p.ID)
		}
		if !p.IsActive || p.Category == "" || p.Metadata.Location == "" {
			t.Fatalf("seed row incomplete: %+v", p)
		}
		if !strings.HasPrefix(p.ImageURL, "https://images.unsplash.com/photo-") {
			t.Fatalf("%s seed image %q", p.Name, p.ImageURL)
		}
		if p.Description == "" || len(p.Metadata.Benefits) != 3 {
			t.Fatalf("%s seed missing launch copy or benefits: %+v", p.Name, p)
		}
	}
}

func TestRun_harvestBandPricing(t *testing.T) {
	// Pressure sample 0.6+0.3*0.35 = 0.705 selects the harvest band;
	// margin 3.5+0.5*0.7 = 3.85; Apex mood leaves it unadjusted.
	store := newFakeCatalog(fullCatalog()...)
	rng := &scriptRand{floats: []float64{0.3, 0.5, 0.9}}
	job, state, _ := newJob(store, healthySignals(), &fakeDiscovery{}, rng)

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}

	p, _ := store.get("Wearables Anchor")
	if math.Abs(p.Price-385.99) > 1e-9 {
		t.Fatalf("price %v, want 385.99 (100 * 3.85 charm-priced)", p.Price)
	}
	snap := state.Snapshot()
	if snap.Mood != "Apex" || math.Abs(snap.LastMultiplier-3.85) > 1e-9 {
		t.Fatalf("state after cycle: %+v", snap)
	}
}

func TestRun_localHubDiscount(t *testing.T) {
	store := newFakeCatalog(models.Product{
		ID: "sp1", Name: "Hub Item", Category: "Wearables", BasePrice: 100,
		Price: 199.99, IsActive: true, Metadata: models.ProductMeta{Location: "SP"},
	})
	rng := &scriptRand{floats: []float64{0.3, 0.5, 0.9}}
	job, _, _ := newJob(store, healthySignals(), &fakeDiscovery{}, rng)

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}

	p, _ := store.get("Hub Item")
	want := math.Round(100*3.85*0.95*100)/100 + 0.99
	if p.Price != want {
		t.Fatalf("local hub price %v, want %v", p.Price, want)
	}
	if p.Metadata.BusinessModel != enums.BusinessModelLocalHub {
		t.Fatalf("model %q, want LOCAL_HUB for an SP origin", p.Metadata.BusinessModel)
	}
	if p.Metadata.ModelTag == "" || p.Metadata.Strategy == "" {
		t.Fatalf("selection metadata not stamped: %+v", p.Metadata)
	}
}

func TestRun_moodAdjustsMultiplier(t *testing.T) {
	// Reliability below 0.85 forces Safety, which raises the multiplier by
	// 1.2 before the floor check.
	signals := healthySignals()
	signals.ReliabilityScore = 0.8

	store := newFakeCatalog(fullCatalog()...)
	rng := &scriptRand{floats: []float64{0.3, 0.5, 0.9}}
	job, state, _ := newJob(store, signals, &fakeDiscovery{}, rng)

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	snap := state.Snapshot()
	if snap.Mood != "Safety" {
		t.Fatalf("mood %q, want Safety", snap.Mood)
	}
	if want := 3.85 * 1.2; math.Abs(snap.LastMultiplier-want) > 1e-9 {
		t.Fatalf("multiplier %v, want %v", snap.LastMultiplier, want)
	}
}

func TestRun_highPressureDemand(t *testing.T) {
	signals := healthySignals()
	signals.SupplyChainPressure = 0.75

	store := newFakeCatalog(fullCatalog()[:1]...)
	// Demand draw 10%15+85 = 95 marks the product viral.
	rng := &scriptRand{floats: []float64{0.3, 0.5, 0.9}, ints: []int{10}}
	job, _, _ := newJob(store, signals, &fakeDiscovery{}, rng)

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}

	p, _ := store.get("Wearables Anchor")
	if p.Metadata.DemandScore < 85 || p.Metadata.DemandScore > 99 {
		t.Fatalf("demand %d outside scarcity band", p.Metadata.DemandScore)
	}
	if !p.Metadata.IsViral || !p.IsFeatured {
		t.Fatalf("demand %d should mark the product viral: %+v", p.Metadata.DemandScore, p)
	}
	if p.Stock < 2 || p.Stock > 5 {
		t.Fatalf("viral stock %d outside [2,5]", p.Stock)
	}
}

func TestRun_singleFlight(t *testing.T) {
	store := newFakeCatalog(fullCatalog()...)
	job, state, _ := newJob(store, healthySignals(), &fakeDiscovery{}, &scriptRand{})

	if !state.BeginSync() {
		t.Fatal("setup BeginSync")
	}
	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("overlapping run must yield silently: %v", err)
	}
	if store.selects != 0 {
		t.Fatal("overlapping run must not touch the store")
	}
	state.EndSync()
}

func TestRun_cooldownAndConversions(t *testing.T) {
	store := newFakeCatalog(fullCatalog()...)
	job, state, _ := newJob(store, healthySignals(), &fakeDiscovery{}, &scriptRand{floats: []float64{0.3, 0.5, 0.9}})

	now := time.Unix(10000, 0)
	job.SetClock(func() time.Time { return now })
	ctx := context.Background()

	if err := job.Run(ctx, false); err != nil {
		t.Fatalf("first run: %v", err)
	}
	selectsAfterFirst := store.selects

	now = now.Add(time.Minute)
	if err := job.Run(ctx, false); err != nil {
		t.Fatalf("cooldown run: %v", err)
	}
	if store.selects != selectsAfterFirst {
		t.Fatal("run inside cooldown must be skipped")
	}

	state.RecordConversion()
	if err := job.Run(ctx, false); err != nil {
		t.Fatalf("post-conversion run: %v", err)
	}
	if store.selects == selectsAfterFirst {
		t.Fatal("a conversion must bypass the cooldown")
	}

	selectsBeforeForce := store.selects
	if err := job.Run(ctx, true); err != nil {
		t.Fatalf("forced run: %v", err)
	}
	if store.selects == selectsBeforeForce {
		t.Fatal("a forced run must bypass the cooldown")
	}
}

func TestRun_discoveryFillsMissingCategory(t *testing.T) {
	catalog := fullCatalog()[:3] // Health missing
	store := newFakeCatalog(catalog...)
	source := &fakeDiscovery{candidates: []discovery.Candidate{
		{Name: "Massageador Neural Premium", Price: 120, Location: "SC", VibeScore: 95, Source: "mercadolivre"},
		{Name: "Health Low End", Price: 30, Location: "SP", VibeScore: 60, Source: "mercadolivre"},
		{Name: "Audio Anchor", Price: 80, Location: "SP", VibeScore: 90, Source: "mercadolivre"},
	}}
	rng := &scriptRand{floats: []float64{0.3, 0.5, 0.9}}
	job, _, _ := newJob(store, healthySignals(), source, rng)

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := source.searched(); len(got) != 1 || got[0] != "Health" {
		t.Fatalf("discovery keywords %v, want [Health]", got)
	}
	added, ok := store.get("Massageador Neural Premium")
	if !ok {
		t.Fatal("quality candidate not inserted")
	}
	if added.Category != "Health" || !strings.HasPrefix(added.ID, "disc_") {
		t.Fatalf("discovered row: %+v", added)
	}
	if want := math.Round(120*3.85*0.95*100)/100 + 0.99; added.Price != want {
		t.Fatalf("discovered price %v, want %v", added.Price, want)
	}
	if _, ok := store.get("Health Low End"); ok {
		t.Fatal("candidate below the quality floor must be dropped")
	}
	// "Audio Anchor" already exists in the catalog; the dup must be dropped,
	// keeping the original row.
	if existing, _ := store.get("Audio Anchor"); strings.HasPrefix(existing.ID, "disc_") {
		t.Fatal("duplicate name replaced an existing product")
	}
}

func TestRun_retirement(t *testing.T) {
	var catalog []models.Product
	for i := 0; i < retirementThreshold+1; i++ {
		catalog = append(catalog, models.Product{
			ID:        fmt.Sprintf("p%03d", i),
			Name:      fmt.Sprintf("Product %03d", i),
			Category:  anchorCategories[i%len(anchorCategories)],
			BasePrice: 50,
			Price:     99.99,
			IsActive:  true,
			Metadata:  models.ProductMeta{DemandScore: i},
		})
	}
	store := newFakeCatalog(catalog...)
	job, _, _ := newJob(store, healthySignals(), &fakeDiscovery{}, &scriptRand{floats: []float64{0.3, 0.5, 0.9}})

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := store.activeCount(); got != retirementThreshold+1-retirementBatch {
		t.Fatalf("active after retirement %d, want %d", got, retirementThreshold+1-retirementBatch)
	}
	for i := 0; i < retirementBatch; i++ {
		p, _ := store.get(fmt.Sprintf("Product %03d", i))
		if p.IsActive {
			t.Fatalf("lowest-demand product %03d should be retired", i)
		}
	}
}

func TestRun_noRetirementAtThreshold(t *testing.T) {
	var catalog []models.Product
	for i := 0; i < retirementThreshold; i++ {
		catalog = append(catalog, models.Product{
			ID:        fmt.Sprintf("p%03d", i),
			Name:      fmt.Sprintf("Product %03d", i),
			Category:  anchorCategories[i%len(anchorCategories)],
			BasePrice: 50,
			Price:     99.99,
			IsActive:  true,
			Metadata:  models.ProductMeta{DemandScore: i},
		})
	}
	store := newFakeCatalog(catalog...)
	job, _, _ := newJob(store, healthySignals(), &fakeDiscovery{}, &scriptRand{floats: []float64{0.3, 0.5, 0.9}})

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := store.activeCount(); got != retirementThreshold {
		t.Fatalf("catalog at the threshold must not retire anything, got %d", got)
	}
}

func TestRun_invalidatesCache(t *testing.T) {
	store := newFakeCatalog(fullCatalog()...)
	job, _, cache := newJob(store, healthySignals(), &fakeDiscovery{}, &scriptRand{floats: []float64{0.3, 0.5, 0.9}})

	if err := job.Run(context.Background(), true); err != nil {
		t.Fatalf("run: %v", err)
	}
	if cache.count() == 0 {
		t.Fatal("cycle must invalidate the read cache")
	}
}

func TestDeriveMood(t *testing.T) {
	cases := []struct {
		name            string
		reliability     float64
		pressure        float64
		dissatisfaction float64
		want            enums.Mood
	}{
		{"low reliability wins", 0.80, 0.9, 10, enums.MoodSafety},
		{"high pressure second", 0.95, 0.85, 10, enums.MoodThrottled},
		{"dissatisfaction third", 0.95, 0.5, 3.5, enums.MoodEmpathy},
		{"dissatisfaction at threshold stays apex", 0.95, 0.5, 3.0, enums.MoodApex},
		{"default apex", 0.98, 0.2, 0, enums.MoodApex},
	}
	for _, tc := range cases {
		got := deriveMood(supplier.Signals{
			ReliabilityScore:    tc.reliability,
			SupplyChainPressure: tc.pressure,
		}, tc.dissatisfaction)
		if got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
