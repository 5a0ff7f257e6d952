package experiment

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

/*
Metrics holds the Prometheus metrics of an experiment on its own registry,
so they can be written to a file for the node exporter textfile collector.
*/
type Metrics struct {
	registry *prometheus.Registry

	TreesGrown  prometheus.Counter
	NodesPruned prometheus.Counter
	FinalError  *prometheus.GaugeVec
	Duration    prometheus.Gauge
}

// NewMetrics returns Metrics registered on a new registry
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.TreesGrown = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sapling_experiment_trees_grown_total",
		Help: "Total number of trees grown by the experiment",
	})
	m.NodesPruned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sapling_experiment_nodes_pruned_total",
		Help: "Total number of nodes pruned on the trees grown by the experiment",
	})
	m.FinalError = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sapling_experiment_final_error_ratio",
		Help: "Error rate of the tree grown on the largest training set",
	}, []string{"dataset"})
	m.Duration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sapling_experiment_duration_seconds",
		Help: "Duration of the experiment in seconds",
	})
	m.registry.MustRegister(m.TreesGrown, m.NodesPruned, m.FinalError, m.Duration)
	return m
}

// Observe records the tree grown for a point
func (m *Metrics) Observe(p Point) {
	m.TreesGrown.Inc()
	m.NodesPruned.Add(float64(p.Pruned))
}

// Finish records the errors of the last point and the experiment duration
func (m *Metrics) Finish(last Point, d time.Duration) {
	m.FinalError.WithLabelValues("training").Set(last.TrainingError)
	m.FinalError.WithLabelValues("test").Set(last.TestError)
	if last.Validated {
		m.FinalError.WithLabelValues("validation").Set(last.ValidationError)
	}
	m.Duration.Set(d.Seconds())
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

/*
WriteTextfile writes the metrics to the file at the given path in the
Prometheus text format.
*/
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
