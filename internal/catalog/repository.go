package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/vintagegrove/backend/pkg/db/models"
)

// Repository is the gorm-backed read/write surface for catalog products.
type Repository struct {
	db *gorm.DB
}

// NewRepository wraps the shared gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindBySKU loads one product with its ordered images. The lookup is
// case-insensitive and whitespace-trimmed to match cart key semantics.
func (r *Repository) FindBySKU(ctx context.Context, normalizedSKU string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("lower(trim(sku)) = ?", normalizedSKU).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a product with its images.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}
