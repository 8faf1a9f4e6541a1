package tracking

import "testing"

func TestViewContentEventIDDeterministic(t *testing.T) {
	base := ViewContentEventID("VTG-042")

	if ViewContentEventID(" vtg-042 ") != base {
		t.Fatal("normalized sku variants must share one event id")
	}
	if ViewContentEventID("VTG-043") == base {
		t.Fatal("distinct skus must produce distinct event ids")
	}
}

func TestPurchaseEventIDUsesOrderID(t *testing.T) {
	if got := PurchaseEventID("ORD-100"); got != "ORD-100" {
		t.Fatalf("order id must pass through verbatim, got %q", got)
	}
	if got := PurchaseEventID("  ORD-100  "); got != "ORD-100" {
		t.Fatalf("order id must be trimmed, got %q", got)
	}

	first := PurchaseEventID("")
	second := PurchaseEventID("")
	if first == "" || first == second {
		t.Fatal("missing order id must fall back to fresh random ids")
	}
}

func TestCheckoutEventIDIsFresh(t *testing.T) {
	if CheckoutEventID() == CheckoutEventID() {
		t.Fatal("each checkout attempt gets its own event id")
	}
}
