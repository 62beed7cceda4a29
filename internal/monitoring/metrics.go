package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters of an ingestion run.
type Metrics struct {
	PagesTotal *prometheus.CounterVec
	PostsTotal *prometheus.CounterVec
	RunsTotal  *prometheus.CounterVec
}

// NewMetrics registers the run counters on reg. Each run gets its own
// registry so repeated runs in one process do not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingestion_pages_total",
			Help: "The total number of input pages seen, by outcome",
		}, []string{"outcome"}), // 'processed', 'skipped'
		PostsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingestion_posts_total",
			Help: "The total number of posts fetched, by source",
		}, []string{"source"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ingestion_runs_total",
			Help: "The total number of pipeline runs, by status",
		}, []string{"status"}),
	}
}

// IncPagesProcessed counts a page whose posts were fetched
func (m *Metrics) IncPagesProcessed() {
	m.PagesTotal.WithLabelValues("processed").Inc()
}

// IncPagesSkipped counts a page skipped for lack of a URL
func (m *Metrics) IncPagesSkipped() {
	m.PagesTotal.WithLabelValues("skipped").Inc()
}

// AddPosts adds n posts fetched from the named source
func (m *Metrics) AddPosts(source string, n int) {
	m.PostsTotal.WithLabelValues(source).Add(float64(n))
}

// IncRuns counts a finished run by its final status
func (m *Metrics) IncRuns(status string) {
	m.RunsTotal.WithLabelValues(status).Inc()
}
