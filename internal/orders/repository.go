// Package orders owns the order store and the payment callback flow.
package orders

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/db/models"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
	apperrors "github.com/suruagyvieira/dropmasters-alpha/pkg/errors"
)

// Repository persists orders through gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds the order repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new order.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByTransaction loads the order owning a payment transaction.
func (r *Repository) FindByTransaction(ctx context.Context, txnID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("transaction_id = ?", txnID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found for transaction")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips a pending order to paid. The WHERE clause on the current
// status makes the transition atomic: it reports false when another caller
// already won the race for this transaction.
func (r *Repository) MarkPaid(ctx context.Context, txnID string, paidAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("transaction_id = ? AND status = ?", txnID, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":  enums.OrderStatusPaid,
			"paid_at": paidAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkShipped stamps the tracking code and moves the order to shipped.
func (r *Repository) MarkShipped(ctx context.Context, orderID, trackingCode string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, enums.OrderStatusPaid).
		Updates(map[string]any{
			"status":        enums.OrderStatusShipped,
			"tracking_code": trackingCode,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeStateConflict, "order is not in a shippable state")
	}
	return nil
}
