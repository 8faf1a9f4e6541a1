package tracking

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
)

// Funnel event names, matching what the downstream analytics platform expects.
const (
	EventViewContent      = "ViewContent"
	EventInitiateCheckout = "InitiateCheckout"
	EventPurchase         = "Purchase"
)

// Event is one funnel event to deliver through both channels. The ID is the
// dedup key shared across channels; the platform collapses same-ID events
// into one.
type Event struct {
	Name            string
	ID              string
	Time            time.Time
	SourceURL       string
	ProductID       string
	ProductName     string
	ProductCategory string
	OrderID         string
	Value           decimal.Decimal
	Currency        string
}

// Identity is the visitor signal set available at dispatch time. Every field
// is optional; the pipeline degrades to whatever subset it has.
type Identity struct {
	Fbp        string
	Fbc        string
	Email      string
	Phone      string
	FirstName  string
	ExternalID string
	SessionID  string
	ClientIP   string
	UserAgent  string
}

// Validate enforces the per-event required fields. Purchase needs the order
// reference and monetary fields; the funnel events need the product identity.
func (e Event) Validate() error {
	switch e.Name {
	case EventPurchase:
		if strings.TrimSpace(e.OrderID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
		}
		if !e.Value.IsPositive() {
			return pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
		}
		if strings.TrimSpace(e.Currency) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "currency is required")
		}
	case EventViewContent, EventInitiateCheckout:
		if strings.TrimSpace(e.ProductID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
		}
		if strings.TrimSpace(e.ProductName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "productName is required")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown event name")
	}
	return nil
}
