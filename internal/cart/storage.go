package cart

import (
	"context"
	"sync"
)

// Storage persists cart snapshots keyed by cart ID. Load always returns a
// usable cart: missing or corrupt snapshots come back empty.
type Storage interface {
	Load(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cartID string, c *Cart) error
	Delete(ctx context.Context, cartID string) error
}

// MemoryStorage keeps snapshots in process memory. Used by tests and as a
// fallback when no Redis is wired.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(ctx context.Context, cartID string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return FromSnapshot(m.data[cartID]), nil
}

func (m *MemoryStorage) Save(ctx context.Context, cartID string, c *Cart) error {
	data, err := c.MarshalSnapshot()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[cartID] = data
	return nil
}

func (m *MemoryStorage) Delete(ctx context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, cartID)
	return nil
}

// Corrupt overwrites a stored snapshot with unparseable bytes. Test helper.
func (m *MemoryStorage) Corrupt(cartID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[cartID] = []byte("{not-json")
}
