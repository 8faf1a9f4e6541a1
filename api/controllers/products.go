package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/api/validators"
	"github.com/vintagegrove/backend/internal/catalog"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

// GetProduct serves one product by SKU, in the same snapshot shape the cart
// stores.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		sku := validators.SanitizeString(chi.URLParam(r, "sku"), 64)
		item, err := svc.GetBySKU(r.Context(), sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}
