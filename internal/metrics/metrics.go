package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "touristhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	storeActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "touristhub",
			Name:      "store_actions_total",
			Help:      "State container actions by type.",
		},
		[]string{"action"},
	)

	gatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "touristhub",
			Name:      "gateway_requests_total",
			Help:      "Remote gateway calls by collection, operation and outcome.",
		},
		[]string{"collection", "operation", "outcome"},
	)

	syncTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "touristhub",
			Name:      "sync_tasks_total",
			Help:      "Report sync worker tasks by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, storeActions, gatewayRequests, syncTasks)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncAction increments the dispatch counter for an action type.
func IncAction(action string) {
	storeActions.WithLabelValues(action).Inc()
}

// IncGateway increments the gateway call counter.
func IncGateway(collection, operation, outcome string) {
	gatewayRequests.WithLabelValues(collection, operation, outcome).Inc()
}

// IncSyncTask increments the worker task counter.
func IncSyncTask(outcome string) {
	syncTasks.WithLabelValues(outcome).Inc()
}
