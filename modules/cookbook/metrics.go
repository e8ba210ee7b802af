package cookbook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts commands and version conflicts. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	commands  *prometheus.CounterVec
	conflicts *prometheus.CounterVec
}

// NewMetrics creates the cookbook counters and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cookbook",
			Name:      "commands_total",
			Help:      "Commands handled, by collection, action and outcome reason.",
		}, []string{"collection", "action", "reason"}),
		conflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cookbook",
			Name:      "update_conflicts_total",
			Help:      "Conditioned writes rejected because the version tag was stale.",
		}, []string{"collection"}),
	}
}

func (m *Metrics) observeCommand(collection, action string, reason Reason) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(collection, action, reason.metricLabel()).Inc()
}

func (m *Metrics) observeConflict(collection string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(collection).Inc()
}
