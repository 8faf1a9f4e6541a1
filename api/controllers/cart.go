package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/api/validators"
	"github.com/vintagegrove/backend/internal/cart"
	"github.com/vintagegrove/backend/internal/tracking"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

type cartResponse struct {
	Items      []cart.Item     `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	IsOpen     bool            `json:"isOpen"`
}

type cartMutationResponse struct {
	cartResponse
	Outcome cart.Outcome `json:"outcome,omitempty"`
	Removed *bool        `json:"removed,omitempty"`
}

type addCartItemRequest struct {
	SKU string `json:"sku" validate:"required"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	return cartResponse{
		Items:      c.Items(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
		IsOpen:     c.IsOpen(),
	}
}

// cartID resolves the per-session cart key. The attribution middleware mints
// the session cookie before any cart handler runs.
func cartID(r *http.Request) (string, error) {
	c, err := r.Cookie(tracking.CookieSession)
	if err != nil || c.Value == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "session cookie missing")
	}
	return c.Value, nil
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.Fetch(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartResponse(c))
	}
}

// AddCartItem adds the requested SKU. A duplicate is not a failure: the cart
// comes back unchanged with the outcome marked so the storefront can tell the
// user the item is already there.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, outcome, err := svc.AddItem(r.Context(), id, payload.SKU)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutationResponse{
			cartResponse: toCartResponse(c),
			Outcome:      outcome,
		})
	}
}

func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sku := validators.SanitizeString(chi.URLParam(r, "sku"), 64)
		c, removed, err := svc.RemoveItem(r.Context(), id, sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartMutationResponse{
			cartResponse: toCartResponse(c),
			Removed:      &removed,
		})
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.Clear(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toCartResponse(c))
	}
}
