package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxMonoImages caps the monochrome gallery carried per item.
const MaxMonoImages = 2

// Outcome reports how the cart handled a mutation.
type Outcome string

const (
	OutcomeAdded     Outcome = "added"
	OutcomeDuplicate Outcome = "duplicate"
)

// Image is one gallery entry frozen into the cart snapshot.
type Image struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Item is a product snapshot frozen at add-time. SKU uniqueness within a cart
// is decided on the normalized form (trimmed, lowercased).
type Item struct {
	SKU         string          `json:"sku"`
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Brand       string          `json:"brand,omitempty"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	ColorImages []Image         `json:"colorImages"`
	MonoImages  []Image         `json:"monoImages"`
}

// NormalizeSKU returns the canonical form used for uniqueness checks.
func NormalizeSKU(sku string) string {
	return strings.ToLower(strings.TrimSpace(sku))
}

// NewItem fills every optional field of a snapshot with an explicit default so
// nothing downstream has to guess which fields are load-bearing.
func NewItem(item Item) Item {
	item.SKU = strings.TrimSpace(item.SKU)
	if item.Price.IsNegative() {
		item.Price = decimal.Zero
	}
	if item.ColorImages == nil {
		item.ColorImages = []Image{}
	}
	if item.MonoImages == nil {
		item.MonoImages = []Image{}
	}
	if len(item.MonoImages) > MaxMonoImages {
		item.MonoImages = item.MonoImages[:MaxMonoImages]
	}
	return item
}

// Cart holds the selected items in insertion order plus the UI visibility
// flag. All mutations are synchronous; the caller owns any persistence.
type Cart struct {
	items  []Item
	index  map[string]int
	isOpen bool
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add inserts the snapshot unless an entry with the same normalized SKU is
// already present; duplicates leave the cart untouched and are reported as an
// outcome, not an error.
func (c *Cart) Add(item Item) Outcome {
	key := NormalizeSKU(item.SKU)
	if key == "" {
		return OutcomeDuplicate
	}
	if _, exists := c.index[key]; exists {
		return OutcomeDuplicate
	}
	c.items = append(c.items, NewItem(item))
	c.index[key] = len(c.items) - 1
	return OutcomeAdded
}

// Remove drops the entry matching the normalized SKU. Removing an absent SKU
// is a no-op, not an error.
func (c *Cart) Remove(sku string) bool {
	key := NormalizeSKU(sku)
	pos, exists := c.index[key]
	if !exists {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, key)
	for i := pos; i < len(c.items); i++ {
		c.index[NormalizeSKU(c.items[i].SKU)] = i
	}
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

// Items returns the entries in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Contains reports whether the normalized SKU is in the cart.
func (c *Cart) Contains(sku string) bool {
	_, exists := c.index[NormalizeSKU(sku)]
	return exists
}

// TotalItems counts the distinct entries.
func (c *Cart) TotalItems() int {
	return len(c.items)
}

// TotalPrice sums the snapshot prices.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price)
	}
	return total
}

// IsOpen reports the UI visibility flag. The flag never persists.
func (c *Cart) IsOpen() bool { return c.isOpen }

// Toggle flips the visibility flag.
func (c *Cart) Toggle() { c.isOpen = !c.isOpen }

// Open shows the cart UI.
func (c *Cart) Open() { c.isOpen = true }

// Close hides the cart UI.
func (c *Cart) Close() { c.isOpen = false }
