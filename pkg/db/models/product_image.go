package models

import (
	"time"

	"github.com/google/uuid"
)

// Image kinds carried per product. Color images are the primary gallery;
// mono images are the black-and-white alternates, capped at two per product.
const (
	ImageKindColor = "color"
	ImageKindMono  = "mono"
)

// ProductImage is a single gallery entry, ordered by Position within its kind.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Kind      string    `gorm:"column:kind;not null;default:color"`
	Position  int       `gorm:"column:position;not null;default:0"`
	URL       string    `gorm:"column:url;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName pins the table name used by migrations.
func (ProductImage) TableName() string { return "product_images" }
