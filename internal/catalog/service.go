package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vintagegrove/backend/internal/cart"
	"github.com/vintagegrove/backend/pkg/cache"
	"github.com/vintagegrove/backend/pkg/config"
	"github.com/vintagegrove/backend/pkg/db"
	"github.com/vintagegrove/backend/pkg/db/models"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
)

// Service resolves products by SKU with a read-through TTL cache in
// front of the repository, and handles admin-side catalog writes.
type Service interface {
	GetBySKU(ctx context.Context, sku string) (*cart.Item, error)
	Create(ctx context.Context, input ProductInput) (*cart.Item, error)
}

type productFinder interface {
	FindBySKU(ctx context.Context, normalizedSKU string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
}

// ProductInput is the admin-facing create payload.
type ProductInput struct {
	SKU         string
	Name        string
	Price       decimal.Decimal
	Brand       string
	Category    string
	Description string
	ColorImages []string
	MonoImages  []string
}

type service struct {
	repo  productFinder
	cache *cache.TTLCache
	ttl   time.Duration
}

// NewService builds the catalog service. The cache may be nil, in which
// case every lookup hits the repository.
func NewService(repo productFinder, c *cache.TTLCache, cfg config.CacheConfig) Service {
	return &service{repo: repo, cache: c, ttl: cfg.ProductTTL}
}

func (s *service) GetBySKU(ctx context.Context, sku string) (*cart.Item, error) {
	normalized := cart.NormalizeSKU(sku)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(cacheKey(normalized)); err == nil {
			item := cached.(cart.Item)
			return &item, nil
		}
	}

	product, err := s.repo.FindBySKU(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	item := toItem(product)
	if s.cache != nil {
		s.cache.Set(cacheKey(normalized), item, s.ttl)
	}
	return &item, nil
}

// Create inserts a product and primes the cache with its snapshot. A SKU
// collision maps to a conflict instead of leaking the driver error.
func (s *service) Create(ctx context.Context, input ProductInput) (*cart.Item, error) {
	normalized := cart.NormalizeSKU(input.SKU)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		ID:          uuid.New(),
		SKU:         strings.TrimSpace(input.SKU),
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Brand:       optional(input.Brand),
		Category:    optional(input.Category),
		Description: optional(input.Description),
	}
	for i, url := range input.ColorImages {
		product.Images = append(product.Images, models.ProductImage{
			ID: uuid.New(), Kind: models.ImageKindColor, Position: i, URL: url,
		})
	}
	for i, url := range input.MonoImages {
		if i >= cart.MaxMonoImages {
			break
		}
		product.Images = append(product.Images, models.ProductImage{
			ID: uuid.New(), Kind: models.ImageKindMono, Position: i, URL: url,
		})
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	item := toItem(product)
	if s.cache != nil {
		s.cache.Set(cacheKey(normalized), item, s.ttl)
	}
	return &item, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cacheKey(normalizedSKU string) string {
	return "product:" + normalizedSKU
}

// toItem maps a catalog row to the cart snapshot shape, splitting the
// image set into color and monochrome groups.
func toItem(p *models.Product) cart.Item {
	var color, mono []cart.Image
	for _, img := range p.Images {
		ci := cart.Image{ID: img.ID.String(), URL: img.URL}
		switch strings.ToLower(img.Kind) {
		case models.ImageKindMono:
			mono = append(mono, ci)
		default:
			color = append(color, ci)
		}
	}

	return cart.NewItem(cart.Item{
		SKU:         p.SKU,
		ID:          p.ID.String(),
		Name:        p.Name,
		Price:       p.Price,
		Brand:       deref(p.Brand),
		Category:    deref(p.Category),
		Description: deref(p.Description),
		ColorImages: color,
		MonoImages:  mono,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
