package tracking

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"

	"github.com/vintagegrove/backend/internal/cart"
)

// ViewContentEventID derives the dedup key for a product view from the event
// name and the normalized SKU. Rapid re-views of the same product carry the
// same ID so the platform keeps only one.
func ViewContentEventID(sku string) string {
	sum := sha256.Sum256([]byte(EventViewContent + ":" + cart.NormalizeSKU(sku)))
	return hex.EncodeToString(sum[:16])
}

// PurchaseEventID ties the dedup key to the caller's order reference so both
// delivery channels report the same ID. A fresh UUID covers callers without
// an order ID yet.
func PurchaseEventID(orderID string) string {
	if trimmed := strings.TrimSpace(orderID); trimmed != "" {
		return trimmed
	}
	return uuid.NewString()
}

// CheckoutEventID mints a fresh ID; each checkout attempt is its own event.
func CheckoutEventID() string {
	return uuid.NewString()
}
