package catalog

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM products")
	})
	return db
}

func TestUpsert_dedupByName(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	first := models.Product{
		ID:        "seed_quantum_ring_pro",
		Name:      "Quantum Ring Pro",
		BasePrice: 85,
		Price:     187.99,
		IsActive:  true,
		Metadata:  models.ProductMeta{Location: "SP"},
	}
	if err := repo.Upsert(ctx, []models.Product{first}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	update := first
	update.ID = "some_other_id"
	update.Price = 299.99
	update.Stock = 12
	if err := repo.Upsert(ctx, []models.Product{update}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	active, err := repo.SelectActive(ctx)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("name conflict produced %d rows, want 1", len(active))
	}
	got := active[0]
	if got.ID != "seed_quantum_ring_pro" {
		t.Fatalf("upsert rewrote the id: %q", got.ID)
	}
	if got.Price != 299.99 || got.Stock != 12 {
		t.Fatalf("upsert did not refresh fields: %+v", got)
	}
}

func TestSelectActive_excludesRetired(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	rows := []models.Product{
		{ID: "a", Name: "Alive", BasePrice: 10, Price: 24.99, IsActive: true},
		{ID: "b", Name: "Retired", BasePrice: 10, Price: 24.99, IsActive: false},
	}
	if err := repo.Insert(ctx, rows); err != nil {
		t.Fatalf("insert: %v", err)
	}

	active, err := repo.SelectActive(ctx)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(active) != 1 || active[0].ID != "a" {
		t.Fatalf("unexpected active set: %+v", active)
	}
}

func TestUpdateByID_softRetire(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Insert(ctx, []models.Product{
		{ID: "a", Name: "Victim", BasePrice: 10, Price: 24.99, IsActive: true},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.UpdateByID(ctx, "a", map[string]any{"is_active": false}); err != nil {
		t.Fatalf("update: %v", err)
	}

	row, err := repo.FindByID(ctx, "a")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if row.IsActive {
		t.Fatal("row should be retired, not deleted")
	}
}

func TestSelectActiveOrdered_featuredFirst(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	if err := repo.Insert(ctx, []models.Product{
		{ID: "plain", Name: "Plain", BasePrice: 10, Price: 24.99, IsActive: true},
		{ID: "star", Name: "Star", BasePrice: 10, Price: 24.99, IsActive: true, IsFeatured: true},
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	ordered, err := repo.SelectActiveOrdered(ctx)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(ordered) != 2 || ordered[0].ID != "star" {
		t.Fatalf("featured row should lead: %+v", ordered)
	}
}
