package metric

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ClusterStats is a point-in-time view of the hub's topology.
type ClusterStats struct {
	Local       string
	Focused     string
	State       string
	Fingerprint uint64
}

// StatsSource publishes ClusterStats. Implementations must be safe to
// call from the scrape goroutine.
type StatsSource interface {
	Stats() ClusterStats
}

// Collector exports topology identity as an info metric.
type Collector struct {
	source StatsSource
	info   *prometheus.Desc
}

// NewCollector creates a collector reading from source.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cluster", "info"),
			"Current topology of this node; the value is always 1",
			[]string{"local", "focused", "state", "fingerprint"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.info
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1,
		s.Local, s.Focused, s.State, strconv.FormatUint(s.Fingerprint, 16))
}
