package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one vintage garment listing. SKU is the storefront-facing
// identifier; lookups normalize it to trimmed lowercase before comparing.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU         string          `gorm:"column:sku;uniqueIndex;not null"`
	Name        string          `gorm:"column:name;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Brand       *string         `gorm:"column:brand"`
	Category    *string         `gorm:"column:category"`
	Description *string         `gorm:"column:description"`

	Images []ProductImage `gorm:"foreignKey:ProductID;references:ID"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (Product) TableName() string { return "products" }
