package solverforge

import "github.com/prometheus/client_golang/prometheus"

// PrometheusStatistics wraps a StatisticsCollector as a prometheus.Collector
// so a long-running solve's progress can be scraped the same way any other
// service metric is (spec.md §4.L's statistics component, enriched beyond
// the snapshot struct statistics.rs exposes: the source has no Prometheus
// integration, so this bridge's shape is original, grounded only in the
// counters StatisticsCollector already tracks). It is safe to register
// alongside other collectors; Describe emits the five fixed descriptors,
// and Collect reads each value fresh on every scrape (the counts as
// counters, elapsed time as a gauge).
type PrometheusStatistics struct {
	collector *StatisticsCollector

	movesEvaluated    *prometheus.Desc
	movesAccepted     *prometheus.Desc
	stepCount         *prometheus.Desc
	scoreCalculations *prometheus.Desc
	elapsedSeconds    *prometheus.Desc
}

// NewPrometheusStatistics builds a collector bridge over collector, with
// every metric name prefixed by namespace (e.g. "solverforge").
func NewPrometheusStatistics(namespace string, collector *StatisticsCollector) *PrometheusStatistics {
	return &PrometheusStatistics{
		collector:         collector,
		movesEvaluated:    prometheus.NewDesc(namespace+"_moves_evaluated_total", "Candidate moves evaluated so far.", nil, nil),
		movesAccepted:     prometheus.NewDesc(namespace+"_moves_accepted_total", "Candidate moves accepted so far.", nil, nil),
		stepCount:         prometheus.NewDesc(namespace+"_step_count_total", "Steps completed so far.", nil, nil),
		scoreCalculations: prometheus.NewDesc(namespace+"_score_calculations_total", "Full score recalculations performed so far.", nil, nil),
		elapsedSeconds:    prometheus.NewDesc(namespace+"_elapsed_seconds", "Seconds since solving started.", nil, nil),
	}
}

func (p *PrometheusStatistics) Describe(ch chan<- *prometheus.Desc) {
	ch <- p.movesEvaluated
	ch <- p.movesAccepted
	ch <- p.stepCount
	ch <- p.scoreCalculations
	ch <- p.elapsedSeconds
}

func (p *PrometheusStatistics) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(p.movesEvaluated, prometheus.CounterValue, float64(p.collector.CurrentMovesEvaluated()))
	ch <- prometheus.MustNewConstMetric(p.movesAccepted, prometheus.CounterValue, float64(p.collector.CurrentMovesAccepted()))
	ch <- prometheus.MustNewConstMetric(p.stepCount, prometheus.CounterValue, float64(p.collector.CurrentStepCount()))
	ch <- prometheus.MustNewConstMetric(p.scoreCalculations, prometheus.CounterValue, float64(p.collector.CurrentScoreCalculations()))
	ch <- prometheus.MustNewConstMetric(p.elapsedSeconds, prometheus.GaugeValue, p.collector.Elapsed().Seconds())
}
