package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testItem(sku string, price string) Item {
	return NewItem(Item{
		SKU:   sku,
		ID:    "prod-" + sku,
		Name:  "Vintage " + sku,
		Price: decimal.RequireFromString(price),
	})
}

func TestAddDistinctSKUs(t *testing.T) {
	c := New()

	if got := c.Add(testItem("jkt-001", "120.00")); got != OutcomeAdded {
		t.Fatalf("expected added, got %s", got)
	}
	if got := c.Add(testItem("jkt-002", "45.50")); got != OutcomeAdded {
		t.Fatalf("expected added, got %s", got)
	}

	if c.TotalItems() != 2 {
		t.Fatalf("expected 2 items, got %d", c.TotalItems())
	}
	want := decimal.RequireFromString("165.50")
	if !c.TotalPrice().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, c.TotalPrice())
	}
}

func TestAddDuplicateNormalizedSKU(t *testing.T) {
	c := New()
	c.Add(testItem(" ABC-1 ", "80.00"))

	if got := c.Add(testItem("abc-1", "80.00")); got != OutcomeDuplicate {
		t.Fatalf("expected duplicate, got %s", got)
	}
	if c.TotalItems() != 1 {
		t.Fatalf("expected 1 item after duplicate add, got %d", c.TotalItems())
	}
}

func TestAddEmptySKUIsDuplicate(t *testing.T) {
	c := New()
	if got := c.Add(testItem("   ", "10.00")); got != OutcomeDuplicate {
		t.Fatalf("expected duplicate for blank sku, got %s", got)
	}
	if c.TotalItems() != 0 {
		t.Fatalf("blank sku must not enter the cart")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	c := New()
	c.Add(testItem("jkt-001", "120.00"))

	if c.Remove("missing") {
		t.Fatal("removing an absent sku must report false")
	}
	if c.TotalItems() != 1 {
		t.Fatalf("cart changed on absent remove: %d items", c.TotalItems())
	}
}

func TestRemoveReindexes(t *testing.T) {
	c := New()
	c.Add(testItem("a-1", "10.00"))
	c.Add(testItem("b-2", "20.00"))
	c.Add(testItem("c-3", "30.00"))

	if !c.Remove("B-2") {
		t.Fatal("expected case-insensitive remove to succeed")
	}

	items := c.Items()
	if len(items) != 2 || items[0].SKU != "a-1" || items[1].SKU != "c-3" {
		t.Fatalf("unexpected items after remove: %+v", items)
	}
	if !c.Contains("c-3") {
		t.Fatal("index lost track of c-3 after reindex")
	}
}

func TestClearResetsTotals(t *testing.T) {
	c := New()
	c.Add(testItem("jkt-001", "120.00"))
	c.Add(testItem("jkt-002", "45.50"))

	c.Clear()

	if c.TotalItems() != 0 {
		t.Fatalf("expected empty cart, got %d items", c.TotalItems())
	}
	if !c.TotalPrice().IsZero() {
		t.Fatalf("expected zero total, got %s", c.TotalPrice())
	}
	if got := c.Add(testItem("jkt-001", "120.00")); got != OutcomeAdded {
		t.Fatalf("cleared sku must be addable again, got %s", got)
	}
}

func TestNewItemDefaults(t *testing.T) {
	item := NewItem(Item{
		SKU:   "x-1",
		Price: decimal.RequireFromString("-5.00"),
		MonoImages: []Image{
			{ID: "1", URL: "a"},
			{ID: "2", URL: "b"},
			{ID: "3", URL: "c"},
		},
	})

	if !item.Price.IsZero() {
		t.Fatalf("negative price must clamp to zero, got %s", item.Price)
	}
	if item.ColorImages == nil {
		t.Fatal("color images must default to an empty slice")
	}
	if len(item.MonoImages) != MaxMonoImages {
		t.Fatalf("mono images must cap at %d, got %d", MaxMonoImages, len(item.MonoImages))
	}
}

func TestOpenState(t *testing.T) {
	c := New()
	if c.IsOpen() {
		t.Fatal("new carts start closed")
	}
	c.Toggle()
	if !c.IsOpen() {
		t.Fatal("toggle should open a closed cart")
	}
	c.Close()
	if c.IsOpen() {
		t.Fatal("close should win over toggle state")
	}
}
