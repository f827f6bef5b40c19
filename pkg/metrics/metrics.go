// Package metrics holds the Prometheus collectors of a load run.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "legfed_loader"

type Metrics struct {
	reg *prometheus.Registry

	families   *prometheus.CounterVec
	genes      *prometheus.CounterVec
	violations *prometheus.CounterVec
	homologues *prometheus.CounterVec
	flushed    *prometheus.GaugeVec
	duration   prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		families: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gene_families_total",
			Help:      "Gene families extracted, by variant.",
		}, []string{"variant"}),
		genes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "genes_total",
			Help:      "Distinct genes created, by variant.",
		}, []string{"variant"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_assumption_violations_total",
			Help:      "Rows absorbed with a fallback, by variant.",
		}, []string{"variant"}),
		homologues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "homologues_total",
			Help:      "Homologue records stored, by variant and type.",
		}, []string{"variant", "type"}),
		flushed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flushed_items",
			Help:      "Items written by the end-of-run flush, by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
	m.reg.MustRegister(m.families, m.genes, m.violations, m.homologues, m.flushed, m.duration)
	return m
}

func (m *Metrics) Family(variant string) { m.families.WithLabelValues(variant).Inc() }

func (m *Metrics) Gene(variant string) { m.genes.WithLabelValues(variant).Inc() }

func (m *Metrics) Violation(variant string) { m.violations.WithLabelValues(variant).Inc() }

func (m *Metrics) Homologues(variant, kind string, n int) {
	m.homologues.WithLabelValues(variant, kind).Add(float64(n))
}

func (m *Metrics) Flushed(kind string, n int) {
	m.flushed.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) Duration(d time.Duration) { m.duration.Set(d.Seconds()) }

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// WriteTextfile writes the registry for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
