package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Dispatch channels reported per tracking event.
const (
	ChannelPixel  = "pixel"
	ChannelServer = "server"
)

// Dispatch outcomes reported per channel attempt.
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeSkipped   = "skipped"
)

// TrackingMetrics records delivery attempts per funnel event and channel.
type TrackingMetrics struct {
	dispatches *prometheus.CounterVec
}

// NewTrackingMetrics registers tracking counters on the provided registerer.
func NewTrackingMetrics(reg prometheus.Registerer) *TrackingMetrics {
	if reg == nil {
		return &TrackingMetrics{}
	}
	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_dispatches_total",
		Help: "Tracking event delivery attempts by event, channel and outcome.",
	}, []string{"event", "channel", "outcome"})
	reg.MustRegister(dispatches)
	return &TrackingMetrics{
		dispatches: dispatches,
	}
}

// IncDispatch bumps the counter for one channel attempt.
func (m *TrackingMetrics) IncDispatch(event, channel, outcome string) {
	if m == nil || m.dispatches == nil {
		return
	}
	m.dispatches.WithLabelValues(normalizeLabel(event), normalizeLabel(channel), normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
