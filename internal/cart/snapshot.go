package cart

import "encoding/json"

// snapshot is the wire form written to the persistence slot. Only items are
// durable; visibility state always resets between loads.
type snapshot struct {
	Items []Item `json:"items"`
}

// MarshalSnapshot serializes the cart's items for persistence.
func (c *Cart) MarshalSnapshot() ([]byte, error) {
	items := c.items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(snapshot{Items: items})
}

// FromSnapshot rebuilds a cart from persisted bytes. Malformed or empty data
// yields an empty cart rather than an error; persistence is best-effort
// durability, never the source of truth for correctness.
func FromSnapshot(data []byte) *Cart {
	c := New()
	if len(data) == 0 {
		return c
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return New()
	}
	for _, item := range snap.Items {
		c.Add(item)
	}
	return c
}
