package nfallback

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeRecovered = "recovered"
	outcomeEscalated = "escalated"
)

// Metrics counts what happened to failures, by point (stage, head,
// body), outcome (recovered, escalated), and status code.
type Metrics struct {
	outcomes *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg.  reg
// may be nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nfallback",
			Name:      "outcomes_total",
			Help:      "Failures handed to the fallback resolver, by point, outcome, and status code.",
		}, []string{"point", "outcome", "code"}),
	}
	if reg != nil {
		if err := reg.Register(m.outcomes); err != nil {
			return nil, errors.Wrap(err, "register fallback metrics")
		}
	}
	return m, nil
}

func (m *Metrics) observe(point Point, outcome string, code int) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(point.String(), outcome, strconv.Itoa(code)).Inc()
}
