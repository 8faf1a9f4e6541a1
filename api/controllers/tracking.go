package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vintagegrove/backend/api/responses"
	"github.com/vintagegrove/backend/api/validators"
	"github.com/vintagegrove/backend/internal/tracking"
	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
)

// trackEventRequest is the shared body for all three funnel endpoints. The
// browser may pass its own eventId so both channels carry one dedup key; when
// absent the endpoint derives it per event contract.
type trackEventRequest struct {
	EventID         string          `json:"eventId,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	ProductID       string          `json:"productId,omitempty"`
	ProductName     string          `json:"productName,omitempty"`
	ProductCategory string          `json:"productCategory,omitempty"`
	OrderID         string          `json:"orderId,omitempty"`
	Value           decimal.Decimal `json:"value,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	SourceURL       string          `json:"sourceUrl,omitempty"`
}

func (p trackEventRequest) toEvent(name string) tracking.Event {
	return tracking.Event{
		Name:            name,
		ID:              p.EventID,
		SourceURL:       p.SourceURL,
		ProductID:       p.ProductID,
		ProductName:     p.ProductName,
		ProductCategory: p.ProductCategory,
		OrderID:         p.OrderID,
		Value:           p.Value,
		Currency:        p.Currency,
	}
}

// dedupSKU picks the value the ViewContent id derives from: the explicit SKU
// when the storefront sends one, the product id otherwise.
func (p trackEventRequest) dedupSKU() string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.ProductID
}

func TrackViewContent(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return trackHandler(svc, logg, tracking.EventViewContent, func(p trackEventRequest) string {
		return tracking.ViewContentEventID(p.dedupSKU())
	})
}

func TrackInitiateCheckout(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return trackHandler(svc, logg, tracking.EventInitiateCheckout, func(p trackEventRequest) string {
		return tracking.CheckoutEventID()
	})
}

func TrackPurchase(svc tracking.Service, logg *logger.Logger) http.HandlerFunc {
	return trackHandler(svc, logg, tracking.EventPurchase, func(p trackEventRequest) string {
		return tracking.PurchaseEventID(p.OrderID)
	})
}

func trackHandler(svc tracking.Service, logg *logger.Logger, name string, defaultID func(trackEventRequest) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeTrackingError(w, http.StatusInternalServerError, "tracking service unavailable")
			return
		}

		var payload trackEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			writeTrackingFailure(r, logg, w, err)
			return
		}

		event := payload.toEvent(name)
		if event.ID == "" {
			event.ID = defaultID(payload)
		}

		identity := tracking.IdentityFromRequest(r)
		if err := svc.Dispatch(r.Context(), event, identity); err != nil {
			writeTrackingFailure(r, logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// writeTrackingFailure maps pipeline errors onto the pinned tracking wire
// shape: validation problems are the caller's fault (400, no outbound call
// was made), anything else is a downstream or internal failure (500).
func writeTrackingFailure(r *http.Request, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed != nil && typed.Code() == pkgerrors.CodeValidation {
		msg := typed.Message()
		if msg == "" {
			msg = "invalid request"
		}
		writeTrackingError(w, http.StatusBadRequest, msg)
		return
	}

	if logg != nil {
		logg.Error(r.Context(), "tracking.dispatch_failed", err)
	}
	writeTrackingError(w, http.StatusInternalServerError, "tracking dispatch failed")
}

func writeTrackingError(w http.ResponseWriter, status int, msg string) {
	responses.WriteJSON(w, status, map[string]string{"error": msg})
}
