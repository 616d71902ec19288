// Package metrics holds the Prometheus collectors for the application.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SkippedRepositories counts repositories whose commit fetch failed and
	// was skipped. Skipping is deliberate (graceful degradation), but the
	// count must stay observable.
	SkippedRepositories = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_skipped_repositories_total",
		Help: "Repositories skipped during activity aggregation due to fetch failures",
	})
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_github_requests_total",
		Help: "Outbound GitHub API operations by outcome",
	}, []string{"operation", "outcome"})
	CacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_cache_hits_total",
		Help: "Aggregation results served from the TTL cache",
	})
	CacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_cache_misses_total",
		Help: "Aggregation results that required an upstream fetch",
	})
	Visits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_visits_total",
		Help: "Page visits recorded by the visit counter",
	})
)

func init() {
	prometheus.MustRegister(
		SkippedRepositories,
		UpstreamRequests,
		CacheHits,
		CacheMisses,
		Visits,
	)
}

// Handler exposes the default registry for the /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}
