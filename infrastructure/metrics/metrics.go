package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message outcomes.
const (
	OutcomePersisted = "persisted"
	OutcomeDegraded  = "degraded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

var (
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "realtime_active_connections",
		Help: "Number of currently open websocket connections.",
	})

	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "realtime_messages_total",
		Help: "Chat messages handled, by outcome.",
	}, []string{"outcome"})

	TypingEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_typing_events_total",
		Help: "Typing indicator events broadcast.",
	})

	HandshakesRefusedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "realtime_handshakes_refused_total",
		Help: "Websocket handshakes refused at authentication.",
	})

	goroutines = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_go_routines",
		Help: "Number of goroutines.",
	})

	sysMemoryAlloc = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "app_sys_memory_alloc",
		Help: "Bytes of allocated heap objects.",
	})
)
