package service

import (
	"familytree/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks population and inference activity
type Metrics struct {
	records    *prometheus.CounterVec
	inferred   prometheus.Counter
	conflicts  prometheus.Counter
	population prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg when non-nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "familytree",
			Name:      "records_total",
			Help:      "Records submitted to the graph, by outcome.",
		}, []string{"status"}),
		inferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "familytree",
			Name:      "relationships_inferred_total",
			Help:      "Relationship insertions and partner assignments made by inference.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "familytree",
			Name:      "partner_conflicts_total",
			Help:      "Partner claims declined because the target already had a partner.",
		}),
		population: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "familytree",
			Name:      "population",
			Help:      "Records currently in the graph.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.records, m.inferred, m.conflicts, m.population)
	}
	return m
}

func (m *Metrics) observeAdd(result domain.AddResult, population int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(string(result.Status)).Inc()
	m.inferred.Add(float64(result.Changes))
	m.conflicts.Add(float64(len(result.Conflicts)))
	m.population.Set(float64(population))
}

func (m *Metrics) observeRederive(changes int, population int) {
	if m == nil {
		return
	}
	m.inferred.Add(float64(changes))
	m.population.Set(float64(population))
}
