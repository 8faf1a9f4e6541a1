package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

type stubLoader struct {
	items map[string]Item
}

func (s *stubLoader) GetBySKU(ctx context.Context, sku string) (*Item, error) {
	item, ok := s.items[NormalizeSKU(sku)]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &item, nil
}

type failingStorage struct {
	inner   Storage
	saveErr error
}

func (f *failingStorage) Load(ctx context.Context, cartID string) (*Cart, error) {
	return f.inner.Load(ctx, cartID)
}

func (f *failingStorage) Save(ctx context.Context, cartID string, c *Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.inner.Save(ctx, cartID, c)
}

func (f *failingStorage) Delete(ctx context.Context, cartID string) error {
	return f.inner.Delete(ctx, cartID)
}

func testService(storage Storage, items map[string]Item) Service {
	return NewService(storage, &stubLoader{items: items}, logger.New(logger.Options{
		ServiceName: "test",
		Output:      io.Discard,
	}))
}

func catalogFixture() map[string]Item {
	return map[string]Item{
		"jkt-001": testItem("jkt-001", "120.00"),
		"jkt-002": testItem("jkt-002", "45.50"),
	}
}

func TestServiceAddFetchCycle(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	svc := testService(storage, catalogFixture())

	c, outcome, err := svc.AddItem(ctx, "sess-1", "JKT-001")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if outcome != OutcomeAdded {
		t.Fatalf("expected added, got %s", outcome)
	}
	if !c.IsOpen() {
		t.Fatal("a successful add should open the cart")
	}

	// The snapshot survives into a fresh fetch.
	fetched, err := svc.Fetch(ctx, "sess-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if fetched.TotalItems() != 1 || !fetched.Contains("jkt-001") {
		t.Fatalf("persisted cart mismatch: %+v", fetched.Items())
	}
}

func TestServiceAddDuplicateDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	svc := testService(storage, catalogFixture())

	if _, _, err := svc.AddItem(ctx, "sess-1", "jkt-001"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	c, outcome, err := svc.AddItem(ctx, "sess-1", " JKT-001 ")
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if outcome != OutcomeDuplicate {
		t.Fatalf("expected duplicate, got %s", outcome)
	}
	if c.TotalItems() != 1 {
		t.Fatalf("duplicate add changed the cart: %d items", c.TotalItems())
	}
}

func TestServiceAddUnknownSKU(t *testing.T) {
	svc := testService(NewMemoryStorage(), catalogFixture())

	_, _, err := svc.AddItem(context.Background(), "sess-1", "nope")
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestServiceSaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{
		inner:   NewMemoryStorage(),
		saveErr: errors.New("redis down"),
	}
	svc := testService(storage, catalogFixture())

	c, outcome, err := svc.AddItem(ctx, "sess-1", "jkt-001")
	if err != nil {
		t.Fatalf("add must not surface persistence errors: %v", err)
	}
	if outcome != OutcomeAdded {
		t.Fatalf("expected added, got %s", outcome)
	}
	if !c.TotalPrice().Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("in-memory cart must stay correct, got total %s", c.TotalPrice())
	}
}

func TestServiceCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	svc := testService(storage, catalogFixture())

	if _, _, err := svc.AddItem(ctx, "sess-1", "jkt-001"); err != nil {
		t.Fatalf("seed add: %v", err)
	}
	storage.Corrupt("sess-1")

	c, err := svc.Fetch(ctx, "sess-1")
	if err != nil {
		t.Fatalf("fetch after corruption: %v", err)
	}
	if c.TotalItems() != 0 {
		t.Fatalf("corrupt snapshot must yield an empty cart, got %d items", c.TotalItems())
	}
}

func TestServiceRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	svc := testService(storage, catalogFixture())

	if _, _, err := svc.AddItem(ctx, "sess-1", "jkt-001"); err != nil {
		t.Fatalf("add jkt-001: %v", err)
	}
	if _, _, err := svc.AddItem(ctx, "sess-1", "jkt-002"); err != nil {
		t.Fatalf("add jkt-002: %v", err)
	}

	c, removed, err := svc.RemoveItem(ctx, "sess-1", "JKT-001")
	if err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	if c.TotalItems() != 1 {
		t.Fatalf("expected 1 item after remove, got %d", c.TotalItems())
	}

	if _, removed, _ := svc.RemoveItem(ctx, "sess-1", "absent"); removed {
		t.Fatal("removing an absent sku must be a no-op")
	}

	cleared, err := svc.Clear(ctx, "sess-1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if cleared.TotalItems() != 0 {
		t.Fatalf("expected empty cart after clear, got %d", cleared.TotalItems())
	}

	fetched, _ := svc.Fetch(ctx, "sess-1")
	if fetched.TotalItems() != 0 {
		t.Fatal("clear must drop the persisted snapshot")
	}
}
