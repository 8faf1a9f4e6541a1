package cart

import (
	"context"

	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

// productLoader resolves a SKU into an add-ready snapshot. Satisfied by the
// catalog service.
type productLoader interface {
	GetBySKU(ctx context.Context, sku string) (*Item, error)
}

// Service manages per-session carts: load state, apply a mutation, persist
// best-effort. The in-memory result of a mutation stays authoritative even
// when persistence fails.
type Service interface {
	Fetch(ctx context.Context, cartID string) (*Cart, error)
	AddItem(ctx context.Context, cartID, sku string) (*Cart, Outcome, error)
	RemoveItem(ctx context.Context, cartID, sku string) (*Cart, bool, error)
	Clear(ctx context.Context, cartID string) (*Cart, error)
}

type service struct {
	storage  Storage
	products productLoader
	log      *logger.Logger
}

// NewService wires cart storage against the catalog.
func NewService(storage Storage, products productLoader, log *logger.Logger) Service {
	return &service{storage: storage, products: products, log: log}
}

func (s *service) Fetch(ctx context.Context, cartID string) (*Cart, error) {
	if cartID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	c, err := s.storage.Load(ctx, cartID)
	if err != nil {
		// Load already degraded to an empty cart; note it and keep serving.
		s.log.Warn(s.log.WithCartID(ctx, cartID), "cart load failed, starting empty")
	}
	return c, nil
}

func (s *service) AddItem(ctx context.Context, cartID, sku string) (*Cart, Outcome, error) {
	c, err := s.Fetch(ctx, cartID)
	if err != nil {
		return nil, "", err
	}
	item, err := s.products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, "", err
	}
	outcome := c.Add(*item)
	if outcome == OutcomeAdded {
		c.Open()
		s.persist(ctx, cartID, c)
	}
	return c, outcome, nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, sku string) (*Cart, bool, error) {
	c, err := s.Fetch(ctx, cartID)
	if err != nil {
		return nil, false, err
	}
	removed := c.Remove(sku)
	if removed {
		s.persist(ctx, cartID, c)
	}
	return c, removed, nil
}

func (s *service) Clear(ctx context.Context, cartID string) (*Cart, error) {
	c, err := s.Fetch(ctx, cartID)
	if err != nil {
		return nil, err
	}
	c.Clear()
	if err := s.storage.Delete(ctx, cartID); err != nil {
		s.log.Warn(s.log.WithCartID(ctx, cartID), "cart delete failed")
	}
	return c, nil
}

// persist writes the snapshot best-effort. Failures are logged and swallowed.
func (s *service) persist(ctx context.Context, cartID string, c *Cart) {
	if err := s.storage.Save(ctx, cartID, c); err != nil {
		s.log.Error(s.log.WithCartID(ctx, cartID), "cart save failed", err)
	}
}
