package observer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsObserver exposes Prometheus gauges tracking queue health, standing
// in for the stats the system this core was distilled from collected via a
// recorder module's get_stats() call.
type MetricsObserver struct {
	poolSize     prometheus.Gauge
	heapSize     prometheus.Gauge
	maxWaitTime  prometheus.Gauge
	minQuality   prometheus.Gauge
}

// NewMetricsObserver registers its gauges against reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewMetricsObserver(reg prometheus.Registerer, namespace string) *MetricsObserver {
	factory := promauto.With(reg)
	return &MetricsObserver{
		poolSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_size",
			Help:      "Number of players currently waiting in the pool.",
		}),
		heapSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_heap_size",
			Help:      "Number of candidate games currently held in the heap.",
		}),
		maxWaitTime: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_wait_time_seconds",
			Help:      "Longest wait time among players currently in the pool.",
		}),
		minQuality: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "min_candidate_quality",
			Help:      "Best (lowest) imbalance or priority value currently in the heap.",
		}),
	}
}

// RecordEvent implements observer.Observer, updating gauges from whatever
// snapshot fields the event carries.
func (m *MetricsObserver) RecordEvent(e Event) {
	m.poolSize.Set(float64(len(e.Pool)))
	m.heapSize.Set(float64(len(e.Heap)))

	maxWait := 0.0
	for _, p := range e.Pool {
		if p.WaitTime > maxWait {
			maxWait = p.WaitTime
		}
	}
	m.maxWaitTime.Set(maxWait)

	if len(e.Heap) == 0 {
		m.minQuality.Set(0)
		return
	}
	min := e.Heap[0].Imbalance
	if e.Heap[0].Priority != nil {
		min = *e.Heap[0].Priority
	}
	for _, g := range e.Heap[1:] {
		v := g.Imbalance
		if g.Priority != nil {
			v = *g.Priority
		}
		if v < min {
			min = v
		}
	}
	m.minQuality.Set(min)
}
