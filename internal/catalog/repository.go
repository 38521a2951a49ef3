// Package catalog owns product persistence, the storefront read cache and
// the processed storefront view.
package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
)

// Repository wires product persistence to the shared GORM connection.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// upsertColumns are the fields a conflicting upsert refreshes. The id is
// never rewritten for an existing name.
var upsertColumns = []string{
	"description", "category", "image_url", "base_price", "price",
	"stock", "is_active", "is_featured", "metadata", "updated_at",
}

// SelectActive loads every active product.
func (r *Repository) SelectActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SelectActiveOrdered loads active products with featured rows first, the
// order the storefront renders.
func (r *Repository) SelectActiveOrdered(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("is_featured DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads one product row.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Insert creates the provided rows in one statement.
func (r *Repository) Insert(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

// Upsert writes the batch, refreshing existing rows on name conflict.
func (r *Repository) Upsert(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(&products).Error
}

// UpdateByID patches the given fields on one row.
func (r *Repository) UpdateByID(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}
