package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vintagegrove/backend/pkg/cache"
	"github.com/vintagegrove/backend/pkg/config"
	"github.com/vintagegrove/backend/pkg/db/models"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
)

type stubFinder struct {
	product   *models.Product
	err       error
	createErr error
	created   *models.Product
	calls     int
}

func (s *stubFinder) FindBySKU(ctx context.Context, normalizedSKU string) (*models.Product, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

func (s *stubFinder) Create(ctx context.Context, product *models.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = product
	return nil
}

func fixtureProduct() *models.Product {
	brand := "Levi's"
	return &models.Product{
		ID:    uuid.New(),
		SKU:   "JKT-001",
		Name:  "1970s Denim Jacket",
		Price: decimal.RequireFromString("120.00"),
		Brand: &brand,
		Images: []models.ProductImage{
			{ID: uuid.New(), Kind: models.ImageKindColor, Position: 0, URL: "color-a"},
			{ID: uuid.New(), Kind: models.ImageKindColor, Position: 1, URL: "color-b"},
			{ID: uuid.New(), Kind: models.ImageKindMono, Position: 0, URL: "mono-a"},
		},
	}
}

func TestGetBySKUMapsImages(t *testing.T) {
	finder := &stubFinder{product: fixtureProduct()}
	svc := NewService(finder, nil, config.CacheConfig{ProductTTL: time.Minute})

	item, err := svc.GetBySKU(context.Background(), " JKT-001 ")
	if err != nil {
		t.Fatalf("get by sku: %v", err)
	}
	if item.SKU != "JKT-001" || item.Brand != "Levi's" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if len(item.ColorImages) != 2 || len(item.MonoImages) != 1 {
		t.Fatalf("image split mismatch: color=%d mono=%d", len(item.ColorImages), len(item.MonoImages))
	}
	if !item.Price.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("price mismatch: %s", item.Price)
	}
}

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func TestGetBySKUCachesLookups(t *testing.T) {
	finder := &stubFinder{product: fixtureProduct()}
	clock := &manualClock{now: time.Now()}
	svc := NewService(finder, cache.New(clock), config.CacheConfig{ProductTTL: time.Minute})

	for range 3 {
		if _, err := svc.GetBySKU(context.Background(), "jkt-001"); err != nil {
			t.Fatalf("get by sku: %v", err)
		}
	}
	if finder.calls != 1 {
		t.Fatalf("expected a single repository hit, got %d", finder.calls)
	}

	clock.now = clock.now.Add(2 * time.Minute)
	if _, err := svc.GetBySKU(context.Background(), "jkt-001"); err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if finder.calls != 2 {
		t.Fatalf("expired entry must refetch, got %d calls", finder.calls)
	}
}

func TestGetBySKUValidation(t *testing.T) {
	svc := NewService(&stubFinder{}, nil, config.CacheConfig{})

	_, err := svc.GetBySKU(context.Background(), "   ")
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetBySKUNotFound(t *testing.T) {
	svc := NewService(&stubFinder{err: gorm.ErrRecordNotFound}, nil, config.CacheConfig{})

	_, err := svc.GetBySKU(context.Background(), "missing")
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCreateMapsInput(t *testing.T) {
	finder := &stubFinder{}
	clock := &manualClock{now: time.Now()}
	svc := NewService(finder, cache.New(clock), config.CacheConfig{ProductTTL: time.Minute})

	item, err := svc.Create(context.Background(), ProductInput{
		SKU:         " JKT-002 ",
		Name:        "  1980s Bomber ",
		Price:       decimal.RequireFromString("95.00"),
		Brand:       "Alpha",
		ColorImages: []string{"color-a", "color-b"},
		MonoImages:  []string{"mono-a", "mono-b", "mono-c"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if finder.created == nil {
		t.Fatal("expected repository create call")
	}
	if finder.created.SKU != "JKT-002" || finder.created.Name != "1980s Bomber" {
		t.Fatalf("unexpected persisted product: %+v", finder.created)
	}
	if got := len(finder.created.Images); got != 4 {
		t.Fatalf("expected mono images capped at two, got %d images total", got)
	}
	if item.SKU != "JKT-002" || len(item.MonoImages) != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}

	// The write primes the cache, so the next lookup skips the repository.
	if _, err := svc.GetBySKU(context.Background(), "jkt-002"); err != nil {
		t.Fatalf("get after create: %v", err)
	}
	if finder.calls != 0 {
		t.Fatalf("expected cached lookup, repository hit %d times", finder.calls)
	}
}

func TestCreateDuplicateSKU(t *testing.T) {
	svc := NewService(&stubFinder{createErr: gorm.ErrDuplicatedKey}, nil, config.CacheConfig{})

	_, err := svc.Create(context.Background(), ProductInput{
		SKU:   "jkt-001",
		Name:  "1970s Denim Jacket",
		Price: decimal.RequireFromString("120.00"),
	})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(&stubFinder{}, nil, config.CacheConfig{})

	cases := []ProductInput{
		{Name: "No SKU", Price: decimal.RequireFromString("10")},
		{SKU: "jkt-003", Price: decimal.RequireFromString("10")},
		{SKU: "jkt-003", Name: "Negative", Price: decimal.RequireFromString("-1")},
	}
	for _, input := range cases {
		_, err := svc.Create(context.Background(), input)
		if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}
