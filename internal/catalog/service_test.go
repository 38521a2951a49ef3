package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

type fakeReader struct {
	rows  []models.Product
	err   error
	calls int
}

func (f *fakeReader) SelectActiveOrdered(ctx context.Context) ([]models.Product, error) {
	f.calls++
	return f.rows, f.err
}

type fixedMood struct{ mood enums.Mood }

func (f fixedMood) Mood() enums.Mood { return f.mood }

func TestList_processedView(t *testing.T) {
	reader := &fakeReader{rows: []models.Product{
		{
			ID:        "p1",
			Name:      "Quantum Ring Pro",
			BasePrice: 85,
			Price:     187.99,
			Stock:     14,
			Metadata:  models.ProductMeta{Location: "SP"},
		},
		{
			ID:    "p2",
			Name:  "Mystery Import",
			Price: 100,
		},
	}}
	svc := NewService(reader, NewCache(time.Minute), fixedMood{enums.MoodSafety}, nil)

	out := svc.List(context.Background())
	if len(out) != 2 {
		t.Fatalf("got %d products, want 2", len(out))
	}

	first := out[0]
	if first.OriginalPrice != 187.99*2.1 {
		t.Fatalf("original price %v, want price*2.1", first.OriginalPrice)
	}
	if first.BasePrice != 85 || first.Stock != 14 || first.Location != "SP" {
		t.Fatalf("stored fields should pass through: %+v", first)
	}
	if first.Mood != "Safety" {
		t.Fatalf("mood %q, want Safety", first.Mood)
	}

	second := out[1]
	if second.BasePrice != 100*0.65 {
		t.Fatalf("missing base price should fall back to price*0.65, got %v", second.BasePrice)
	}
	if second.Stock != 10 || second.Location != "Global" {
		t.Fatalf("defaults not applied: %+v", second)
	}
}

func TestList_cacheHitSkipsStore(t *testing.T) {
	reader := &fakeReader{rows: []models.Product{{ID: "p1", Name: "X", Price: 10}}}
	svc := NewService(reader, NewCache(time.Minute), fixedMood{enums.MoodApex}, nil)

	svc.List(context.Background())
	svc.List(context.Background())
	if reader.calls != 1 {
		t.Fatalf("store hit %d times, want 1", reader.calls)
	}
}

func TestList_storeErrorDegradesEmpty(t *testing.T) {
	reader := &fakeReader{err: errors.New("connection refused")}
	svc := NewService(reader, NewCache(time.Minute), fixedMood{enums.MoodApex}, nil)

	out := svc.List(context.Background())
	if out == nil || len(out) != 0 {
		t.Fatalf("store failure should return an empty list, got %v", out)
	}
}

func TestCache_expiryAndInvalidate(t *testing.T) {
	now := time.Unix(1000, 0)
	cache := NewCache(900 * time.Second)
	cache.SetClock(func() time.Time { return now })

	cache.Set([]StorefrontProduct{{ID: "p1"}})
	if _, ok := cache.Get(); !ok {
		t.Fatal("fresh snapshot should hit")
	}

	now = now.Add(899 * time.Second)
	if _, ok := cache.Get(); !ok {
		t.Fatal("snapshot inside TTL should hit")
	}

	now = now.Add(time.Second)
	if _, ok := cache.Get(); ok {
		t.Fatal("snapshot at TTL boundary should miss")
	}

	cache.Set([]StorefrontProduct{{ID: "p1"}})
	cache.Invalidate()
	if _, ok := cache.Get(); ok {
		t.Fatal("invalidated snapshot should miss")
	}
}
