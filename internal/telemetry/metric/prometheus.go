// Package metric provides Prometheus metrics for ScreenMesh.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "screenmesh"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	// Hub metrics
	ConnectionState prometheus.Gauge
	Screens         prometheus.Gauge
	FocusHandoffs   prometheus.Counter
	EventsInjected  prometheus.Counter
	HostDropped     prometheus.Counter

	// Message metrics
	MessagesReceived   *prometheus.CounterVec
	MessagesSent       *prometheus.CounterVec
	SendFailures       *prometheus.CounterVec
	ProtocolViolations *prometheus.CounterVec

	// Admin metrics
	AdminClients prometheus.Gauge
}

// NewRegistry creates a registry with every ScreenMesh metric plus the
// Go runtime and process collectors registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,

		ConnectionState: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "connection_state",
			Help:      "Hub connection state (0=connecting, 1=waiting, 2=connected)",
		}),
		Screens: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cluster",
			Name:      "screens",
			Help:      "Number of screens in the cluster",
		}),
		FocusHandoffs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "focus_handoffs_total",
			Help:      "Total number of focus changes applied",
		}),
		EventsInjected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "events_injected_total",
			Help:      "Total number of input events injected into the local host",
		}),
		HostDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "events_dropped_total",
			Help:      "Total number of captured events discarded while not connected",
		}),

		MessagesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "received_total",
			Help:      "Total number of messages received",
		}, []string{"source", "kind"}), // source: net, admin
		MessagesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "sent_total",
			Help:      "Total number of messages sent to peers",
		}, []string{"path", "kind"}), // path: unicast, broadcast
		SendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "send_failures_total",
			Help:      "Total number of failed sends",
		}, []string{"path"}),
		ProtocolViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "protocol_violations_total",
			Help:      "Total number of malformed or unexpected messages discarded",
		}, []string{"source"}),

		AdminClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "clients",
			Help:      "Number of connected admin clients",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ConnectionState,
		r.Screens,
		r.FocusHandoffs,
		r.EventsInjected,
		r.HostDropped,
		r.MessagesReceived,
		r.MessagesSent,
		r.SendFailures,
		r.ProtocolViolations,
		r.AdminClients,
	)

	return r
}

// Handler returns an HTTP handler exposing this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// MustRegister registers additional collectors, such as a Collector.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	r.registry.MustRegister(cs...)
}

// RecordReceived counts a received message.
func (r *Registry) RecordReceived(source, kind string) {
	r.MessagesReceived.WithLabelValues(source, kind).Inc()
}

// RecordSent counts a successfully sent message.
func (r *Registry) RecordSent(path, kind string) {
	r.MessagesSent.WithLabelValues(path, kind).Inc()
}

// RecordSendFailure counts a failed send on the given path.
func (r *Registry) RecordSendFailure(path string) {
	r.SendFailures.WithLabelValues(path).Inc()
}

// RecordViolation counts a discarded message.
func (r *Registry) RecordViolation(source string) {
	r.ProtocolViolations.WithLabelValues(source).Inc()
}
