package console

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rpupo63/blog-admin-console/errs"
)

// Metrics counts console operations by outcome. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "blog_console",
			Name:      "operations_total",
			Help:      "Console operations by name and outcome.",
		}, []string{"operation", "outcome"}),
	}
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = errs.KindOf(err).String()
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}
