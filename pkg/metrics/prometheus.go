package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the Prometheus gauges updated from each recorded
// generation, an ambient observability concern carried regardless of
// feature scope.
type Registry struct {
	GenerationCurrent prometheus.Gauge

	AttackerEffectivenessMean prometheus.Gauge
	AttackerEffectivenessMax  prometheus.Gauge
	AttackerStealthMean       prometheus.Gauge
	DefenderCoverageMean      prometheus.Gauge
	DefenderCoverageMax       prometheus.Gauge
	DefenderEfficiencyMean    prometheus.Gauge

	DetectionCoverageRatio prometheus.Gauge
	UniqueKillChainsTotal  prometheus.Gauge
	AttackerDiversity      prometheus.Gauge
	DefenderDiversity      prometheus.Gauge

	DataSourceCoverage *prometheus.GaugeVec

	StagnationEventsTotal  prometheus.Counter
	ImmigrantsInjectedTotal *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

// NewRegistry creates a fresh Prometheus registry with every ACES gauge and
// counter initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}

	r.GenerationCurrent = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_generation_current",
		Help: "The most recently completed generation number",
	})
	r.AttackerEffectivenessMean = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_attacker_effectiveness_mean",
		Help: "Mean attacker effectiveness fitness across the population",
	})
	r.AttackerEffectivenessMax = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_attacker_effectiveness_max",
		Help: "Max attacker effectiveness fitness across the population",
	})
	r.AttackerStealthMean = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_attacker_stealth_mean",
		Help: "Mean attacker stealth fitness across the population",
	})
	r.DefenderCoverageMean = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_defender_coverage_mean",
		Help: "Mean defender coverage fitness across the population",
	})
	r.DefenderCoverageMax = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_defender_coverage_max",
		Help: "Max defender coverage fitness across the population",
	})
	r.DefenderEfficiencyMean = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_defender_efficiency_mean",
		Help: "Mean defender efficiency fitness across the population",
	})
	r.DetectionCoverageRatio = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_detection_coverage_ratio",
		Help: "Fraction of attacker-population techniques covered by at least one defender rule",
	})
	r.UniqueKillChainsTotal = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_unique_kill_chains",
		Help: "Count of distinct ordered technique-id chains in the attacker population",
	})
	r.AttackerDiversity = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_attacker_diversity",
		Help: "Mean pairwise Hamming distance between attacker technique-presence vectors, divided by vector length",
	})
	r.DefenderDiversity = promauto.With(reg).NewGauge(prometheus.GaugeOpts{
		Name: "aces_defender_diversity",
		Help: "Fraction of the defender population with a distinct covered-technique set",
	})
	r.DataSourceCoverage = promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
		Name: "aces_defender_data_source_coverage",
		Help: "Number of deployed detection rules per data source",
	}, []string{"data_source"})
	r.StagnationEventsTotal = promauto.With(reg).NewCounter(prometheus.CounterOpts{
		Name: "aces_stagnation_events_total",
		Help: "Total number of stagnation windows detected",
	})
	r.ImmigrantsInjectedTotal = promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "aces_immigrants_injected_total",
		Help: "Total number of random immigrants injected, by population",
	}, []string{"population"})

	return r
}

// Observe updates every gauge from one generation's metrics.
func (r *Registry) Observe(m GenerationMetrics) {
	r.GenerationCurrent.Set(float64(m.Generation))
	r.AttackerEffectivenessMean.Set(m.AttackerEffectiveness.Mean)
	r.AttackerEffectivenessMax.Set(m.AttackerEffectiveness.Max)
	r.AttackerStealthMean.Set(m.AttackerStealth.Mean)
	r.DefenderCoverageMean.Set(m.DefenderCoverage.Mean)
	r.DefenderCoverageMax.Set(m.DefenderCoverage.Max)
	r.DefenderEfficiencyMean.Set(m.DefenderEfficiency.Mean)
	r.DetectionCoverageRatio.Set(m.DetectionCoverageRatio)
	r.UniqueKillChainsTotal.Set(float64(m.UniqueKillChains))
	r.AttackerDiversity.Set(m.AttackerDiversity)
	r.DefenderDiversity.Set(m.DefenderDiversity)

	r.mu.Lock()
	defer r.mu.Unlock()
	for source, count := range m.DefenderDataSourceCoverage {
		r.DataSourceCoverage.WithLabelValues(source).Set(float64(count))
	}
}

// RecordStagnation increments the stagnation counter.
func (r *Registry) RecordStagnation() {
	r.StagnationEventsTotal.Inc()
}

// RecordImmigrantInjection increments the immigrant counter for a
// population ("attacker" or "defender") by the number injected.
func (r *Registry) RecordImmigrantInjection(population string, count int) {
	r.ImmigrantsInjectedTotal.WithLabelValues(population).Add(float64(count))
}

// GetPrometheusRegistry returns the underlying Prometheus registry for
// mounting on an HTTP handler.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
