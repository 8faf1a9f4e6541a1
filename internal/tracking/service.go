package tracking

import (
	"context"
	"time"

	"github.com/vintagegrove/backend/pkg/logger"
	"github.com/vintagegrove/backend/pkg/meta"
	"github.com/vintagegrove/backend/pkg/metrics"
)

// conversionsSender is the server-side leg. Satisfied by the Meta client.
type conversionsSender interface {
	SendEvent(ctx context.Context, event meta.Event) error
}

// Service delivers one funnel event through both channels with a shared dedup
// key. Stateless between invocations: one attempt per leg, no retries, no
// queue.
type Service interface {
	Dispatch(ctx context.Context, event Event, identity Identity) error
}

type service struct {
	conversions conversionsSender
	pixel       PixelDispatcher
	metrics     *metrics.TrackingMetrics
	log         *logger.Logger
	now         func() time.Time
}

// NewService wires the dispatch pipeline. A nil pixel falls back to the
// no-op dispatcher; a nil conversions sender turns the server leg into a
// recorded skip, which keeps unconfigured environments serving.
func NewService(conversions conversionsSender, pixel PixelDispatcher, m *metrics.TrackingMetrics, log *logger.Logger) Service {
	if pixel == nil {
		pixel = NoopPixel{}
	}
	return &service{
		conversions: conversions,
		pixel:       pixel,
		metrics:     m,
		log:         log,
		now:         time.Now,
	}
}

// Dispatch runs the per-event state machine: validate, pixel leg (failure
// tolerated), then the authoritative server leg. Only the server leg's error
// reaches the caller, and nothing here ever rolls back cart state.
func (s *service) Dispatch(ctx context.Context, event Event, identity Identity) error {
	ctx = s.log.WithEventID(ctx, event.ID)

	if err := event.Validate(); err != nil {
		s.metrics.IncDispatch(event.Name, metrics.ChannelServer, metrics.OutcomeRejected)
		return err
	}
	if event.Time.IsZero() {
		event.Time = s.now()
	}

	if err := s.pixel.Send(ctx, event, identity); err != nil {
		s.metrics.IncDispatch(event.Name, metrics.ChannelPixel, metrics.OutcomeRejected)
		s.log.Warn(ctx, "pixel leg failed")
	} else {
		s.metrics.IncDispatch(event.Name, metrics.ChannelPixel, metrics.OutcomeDelivered)
	}

	if s.conversions == nil {
		s.metrics.IncDispatch(event.Name, metrics.ChannelServer, metrics.OutcomeSkipped)
		s.log.Warn(ctx, "conversions api not configured, server leg skipped")
		return nil
	}

	if err := s.conversions.SendEvent(ctx, toMetaEvent(event, identity)); err != nil {
		s.metrics.IncDispatch(event.Name, metrics.ChannelServer, metrics.OutcomeRejected)
		return err
	}
	s.metrics.IncDispatch(event.Name, metrics.ChannelServer, metrics.OutcomeDelivered)
	return nil
}

// toMetaEvent maps the internal event plus identity onto the conversions API
// payload. The session ID doubles as external_id when no stronger identifier
// exists.
func toMetaEvent(event Event, identity Identity) meta.Event {
	externalID := identity.ExternalID
	if externalID == "" {
		externalID = identity.SessionID
	}

	custom := meta.CustomData{
		Currency:        event.Currency,
		ContentName:     event.ProductName,
		ContentCategory: event.ProductCategory,
		OrderID:         event.OrderID,
	}
	if event.ProductID != "" {
		custom.ContentIDs = []string{event.ProductID}
		custom.ContentType = "product"
	}
	if !event.Value.IsZero() {
		custom.Value = event.Value.String()
	}

	return meta.Event{
		Name:      event.Name,
		Time:      event.Time,
		ID:        event.ID,
		SourceURL: event.SourceURL,
		UserData: meta.UserData{
			Email:      identity.Email,
			Phone:      identity.Phone,
			FirstName:  identity.FirstName,
			ExternalID: externalID,
			Fbp:        identity.Fbp,
			Fbc:        identity.Fbc,
			ClientIP:   identity.ClientIP,
			UserAgent:  identity.UserAgent,
		},
		CustomData: custom,
	}
}
