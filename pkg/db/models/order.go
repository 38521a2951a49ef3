package models

import (
	"database/sql/driver"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

// OrderItem is a single purchased line inside an order.
type OrderItem struct {
	Name     string  `json:"name"`
	Qty      int     `json:"qty"`
	Price    float64 `json:"price"`
	Location string  `json:"location,omitempty"`
}

// OrderItems stores the line items as a json column.
type OrderItems []OrderItem

// Value implements driver.Valuer.
func (i OrderItems) Value() (driver.Value, error) {
	return jsonValue(i)
}

// Scan implements sql.Scanner.
func (i *OrderItems) Scan(src any) error {
	return jsonScan(src, i)
}

// OrderMeta carries the payout split and fulfillment provenance.
type OrderMeta struct {
	VendorPayout float64 `json:"vendor_payout,omitempty"`
	PlatformNet  float64 `json:"platform_net,omitempty"`
	PayoutStatus string  `json:"payout_status,omitempty"`
	DispatchedAt string  `json:"dispatched_at,omitempty"`
}

// Value implements driver.Valuer.
func (m OrderMeta) Value() (driver.Value, error) {
	return jsonValue(m)
}

// Scan implements sql.Scanner.
func (m *OrderMeta) Scan(src any) error {
	return jsonScan(src, m)
}

// Order is a customer purchase. TransactionID is the idempotency key for
// the payment callback: a transition to paid happens at most once per
// transaction.
type Order struct {
	ID            string            `gorm:"column:id;primaryKey"`
	TransactionID string            `gorm:"column:transaction_id;uniqueIndex;not null"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	Total         float64           `gorm:"column:total"`
	Phone         string            `gorm:"column:phone"`
	TrackingCode  *string           `gorm:"column:tracking_code"`
	Items         OrderItems        `gorm:"column:items;type:jsonb"`
	Metadata      OrderMeta         `gorm:"column:metadata;type:jsonb"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	PaidAt        *time.Time        `gorm:"column:paid_at"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
