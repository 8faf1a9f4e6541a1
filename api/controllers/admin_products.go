package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/api/validators"
	"github.com/vintagegrove/backend/internal/catalog"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

type createProductRequest struct {
	SKU         string          `json:"sku" validate:"required,max=64"`
	Name        string          `json:"name" validate:"required,max=200"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Brand       string          `json:"brand" validate:"max=100"`
	Category    string          `json:"category" validate:"max=100"`
	Description string          `json:"description" validate:"max=2000"`
	ColorImages []string        `json:"colorImages" validate:"max=12,dive,url"`
	MonoImages  []string        `json:"monoImages" validate:"max=2,dive,url"`
}

// CreateProduct inserts a listing from the admin console.
func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var req createProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Create(r.Context(), catalog.ProductInput{
			SKU:         req.SKU,
			Name:        req.Name,
			Price:       req.Price,
			Brand:       req.Brand,
			Category:    req.Category,
			Description: req.Description,
			ColorImages: req.ColorImages,
			MonoImages:  req.MonoImages,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		logg.Info(logg.WithSKU(r.Context(), item.SKU), "product created")
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}
