package tracking

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
	"github.com/vintagegrove/backend/pkg/logger"
	"github.com/vintagegrove/backend/pkg/meta"
)

type stubSender struct {
	err  error
	sent []meta.Event
}

func (s *stubSender) SendEvent(ctx context.Context, event meta.Event) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, event)
	return nil
}

type stubPixel struct {
	err  error
	sent []Event
}

func (s *stubPixel) Send(ctx context.Context, event Event, identity Identity) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, event)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func viewEvent() Event {
	return Event{
		Name:        EventViewContent,
		ID:          ViewContentEventID("VTG-042"),
		ProductID:   "prod-1",
		ProductName: "1970s Denim Jacket",
		Value:       decimal.RequireFromString("120.00"),
		Currency:    "EUR",
	}
}

func TestDispatchBothChannelsShareEventID(t *testing.T) {
	sender := &stubSender{}
	pixel := &stubPixel{}
	svc := NewService(sender, pixel, nil, testLogger())

	event := viewEvent()
	if err := svc.Dispatch(context.Background(), event, Identity{Fbp: "fb.1.1.100", SessionID: "sess-1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if len(pixel.sent) != 1 || len(sender.sent) != 1 {
		t.Fatalf("expected one send per channel, got pixel=%d server=%d", len(pixel.sent), len(sender.sent))
	}
	if pixel.sent[0].ID != sender.sent[0].ID {
		t.Fatalf("channels diverged on event id: %q vs %q", pixel.sent[0].ID, sender.sent[0].ID)
	}
	if sender.sent[0].Time.IsZero() {
		t.Fatal("server leg must carry an event time")
	}
	if sender.sent[0].UserData.ExternalID != "sess-1" {
		t.Fatal("session id should back-fill external_id")
	}
}

func TestDispatchPixelFailureIsSwallowed(t *testing.T) {
	sender := &stubSender{}
	pixel := &stubPixel{err: errors.New("beacon down")}
	svc := NewService(sender, pixel, nil, testLogger())

	if err := svc.Dispatch(context.Background(), viewEvent(), Identity{}); err != nil {
		t.Fatalf("pixel failure must not surface: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatal("server leg must still run after a pixel failure")
	}
}

func TestDispatchServerFailureSurfaces(t *testing.T) {
	sender := &stubSender{err: pkgerrors.New(pkgerrors.CodeDependency, "conversions api down")}
	svc := NewService(sender, nil, nil, testLogger())

	err := svc.Dispatch(context.Background(), viewEvent(), Identity{})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected the server leg error, got %v", err)
	}
}

func TestDispatchValidationSkipsOutboundCalls(t *testing.T) {
	sender := &stubSender{}
	pixel := &stubPixel{}
	svc := NewService(sender, pixel, nil, testLogger())

	err := svc.Dispatch(context.Background(), Event{Name: EventPurchase}, Identity{})
	if pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(pixel.sent) != 0 || len(sender.sent) != 0 {
		t.Fatal("invalid events must never go out on either channel")
	}
}

func TestDispatchWithoutConversionsSender(t *testing.T) {
	pixel := &stubPixel{}
	svc := NewService(nil, pixel, nil, testLogger())

	if err := svc.Dispatch(context.Background(), viewEvent(), Identity{}); err != nil {
		t.Fatalf("unconfigured server leg must degrade, not fail: %v", err)
	}
	if len(pixel.sent) != 1 {
		t.Fatal("pixel leg should still run")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		event Event
		valid bool
	}{
		{"purchase complete", Event{Name: EventPurchase, OrderID: "ORD-100", Value: decimal.RequireFromString("200"), Currency: "EUR"}, true},
		{"purchase missing order", Event{Name: EventPurchase, Value: decimal.RequireFromString("200"), Currency: "EUR"}, false},
		{"purchase missing value", Event{Name: EventPurchase, OrderID: "ORD-100", Currency: "EUR"}, false},
		{"purchase missing currency", Event{Name: EventPurchase, OrderID: "ORD-100", Value: decimal.RequireFromString("200")}, false},
		{"view complete", Event{Name: EventViewContent, ProductID: "p1", ProductName: "n"}, true},
		{"view missing product id", Event{Name: EventViewContent, ProductName: "n"}, false},
		{"checkout missing product name", Event{Name: EventInitiateCheckout, ProductID: "p1"}, false},
		{"unknown event", Event{Name: "AddToWishlist"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.event.Validate()
			if tc.valid && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
