package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters exposed on /metrics.
type Metrics struct {
	FollowRequests   *prometheus.CounterVec
	UnfollowRequests *prometheus.CounterVec
	FeedRequests     *prometheus.CounterVec
	PostsCreated     *prometheus.CounterVec
}

// InitMetrics registers and returns the application counters.
func InitMetrics() *Metrics {
	m := &Metrics{
		FollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_follows",
				Help: "Total number of successful follow requests",
			},
			[]string{"path"},
		),
		UnfollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "successful_unfollows",
				Help: "Total number of successful unfollow requests",
			},
			[]string{"path"},
		),
		FeedRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_requests",
				Help: "Total number of served feed pages",
			},
			[]string{"path"},
		),
		PostsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posts_created",
				Help: "Total number of created posts",
			},
			[]string{"path"},
		),
	}

	prometheus.MustRegister(m.FollowRequests)
	prometheus.MustRegister(m.UnfollowRequests)
	prometheus.MustRegister(m.FeedRequests)
	prometheus.MustRegister(m.PostsCreated)

	return m
}
