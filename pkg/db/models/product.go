package models

import (
	"database/sql/driver"
	"time"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/enums"
)

// ProductMeta is the open metadata bag attached to every catalog row.
type ProductMeta struct {
	Location      string              `json:"location,omitempty"`
	BusinessModel enums.BusinessModel `json:"business_model,omitempty"`
	ModelTag      string              `json:"model_tag,omitempty"`
	Strategy      string              `json:"strategy,omitempty"`
	DemandScore   int                 `json:"demand_score,omitempty"`
	IsViral       bool                `json:"is_viral,omitempty"`
	Source        string              `json:"source,omitempty"`
	Benefits      []string            `json:"benefits,omitempty"`
}

// Value implements driver.Valuer.
func (m ProductMeta) Value() (driver.Value, error) {
	return jsonValue(m)
}

// Scan implements sql.Scanner.
func (m *ProductMeta) Scan(src any) error {
	return jsonScan(src, m)
}

// Product represents a storefront catalog listing. The name is the natural
// upsert key: no two active products share a name.
type Product struct {
	ID          string      `gorm:"column:id;primaryKey"`
	Name        string      `gorm:"column:name;uniqueIndex;not null"`
	Description string      `gorm:"column:description"`
	Category    string      `gorm:"column:category"`
	ImageURL    string      `gorm:"column:image_url"`
	BasePrice   float64     `gorm:"column:base_price"`
	Price       float64     `gorm:"column:price"`
	Stock       int         `gorm:"column:stock"`
	IsActive    bool        `gorm:"column:is_active;not null;default:true"`
	IsFeatured  bool        `gorm:"column:is_featured;not null;default:false"`
	Metadata    ProductMeta `gorm:"column:metadata;type:jsonb"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// Repriceable reports whether the repricing cycle may touch this row.
// Rows without a positive supplier cost are skipped, never zeroed.
func (p Product) Repriceable() bool {
	return p.BasePrice > 0
}
