package metrics

import (
	"github.com/adammck/maint/pkg/api"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "maint"

// Metrics are the tracker's prometheus collectors. A nil *Metrics is valid,
// and records nothing.
type Metrics struct {
	active  *prometheus.GaugeVec
	added   *prometheus.CounterVec
	removed *prometheus.CounterVec
	denied  prometheus.Counter
	skipped prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_active",
			Help:      "Maintenance requests currently present, by kind.",
		}, []string{"kind"}),
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_added_total",
			Help:      "Maintenance requests created, by kind.",
		}, []string{"kind"}),
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_removed_total",
			Help:      "Maintenance requests deleted, by kind.",
		}, []string{"kind"}),
		denied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Mutations refused by the ACL (per node) or for lack of superuser.",
		}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fanout_skipped_total",
			Help:      "Nodes skipped during a host-wide operation.",
		}),
	}

	for _, c := range []prometheus.Collector{m.active, m.added, m.removed, m.denied, m.skipped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	// Export every kind, even before the first request of it.
	for _, k := range api.Kinds {
		m.active.WithLabelValues(k.String())
		m.added.WithLabelValues(k.String())
		m.removed.WithLabelValues(k.String())
	}

	return m, nil
}

// ObserveRestore records requests which were loaded from storage.
func (m *Metrics) ObserveRestore(c api.Counts) {
	if m == nil {
		return
	}
	for k, n := range c {
		m.active.WithLabelValues(k.String()).Add(float64(n))
	}
}

func (m *Metrics) ObserveAdd(k api.Kind) {
	if m == nil {
		return
	}
	m.added.WithLabelValues(k.String()).Inc()
	m.active.WithLabelValues(k.String()).Inc()
}

func (m *Metrics) ObserveRemove(c api.Counts) {
	if m == nil {
		return
	}
	for k, n := range c {
		m.removed.WithLabelValues(k.String()).Add(float64(n))
		m.active.WithLabelValues(k.String()).Sub(float64(n))
	}
}

func (m *Metrics) ObserveDenied() {
	if m == nil {
		return
	}
	m.denied.Inc()
}

func (m *Metrics) ObserveSkipped() {
	if m == nil {
		return
	}
	m.skipped.Inc()
}
