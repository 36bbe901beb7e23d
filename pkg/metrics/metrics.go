package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ctxgw"

var (
	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Protocol metrics
	rpcRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "JSON-RPC envelopes processed, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	sessionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Sessions created by initialize",
		},
	)

	sessionsTerminatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_terminated_total",
			Help:      "Sessions terminated, by reason",
		},
		[]string{"reason"},
	)

	sseStreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sse_streams_active",
			Help:      "Open event streams",
		},
	)

	// Orchestration metrics
	orchestratorTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orchestrator_turns_total",
			Help:      "Orchestrated turns, by speed mode and branch taken",
		},
		[]string{"mode", "branch"},
	)

	orchestratorTurnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "orchestrator_turn_duration_seconds",
			Help:      "Synchronous turn latency in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 4, 8, 15, 30},
		},
		[]string{"mode"},
	)

	plannerFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "planner_fallbacks_total",
			Help:      "Plans computed by the local heuristic, by reason",
		},
		[]string{"reason"},
	)

	// Background metrics
	backgroundTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_tasks_total",
			Help:      "Background tasks, by kind and status",
		},
		[]string{"kind", "status"},
	)

	backgroundTaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "background_task_duration_seconds",
			Help:      "Background task execution time in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	backgroundQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "background_queue_depth",
			Help:      "Tasks waiting in the background queue",
		},
	)

	initOnce sync.Once
)

// InitMetrics registers all collectors with the default registry.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestsTotal,
			httpRequestDuration,
			rpcRequestsTotal,
			sessionsCreatedTotal,
			sessionsTerminatedTotal,
			sseStreamsActive,
			orchestratorTurnsTotal,
			orchestratorTurnDuration,
			plannerFallbacksTotal,
			backgroundTasksTotal,
			backgroundTaskDuration,
			backgroundQueueDepth,
		)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordRPC(method, outcome string) {
	rpcRequestsTotal.WithLabelValues(method, outcome).Inc()
}

func RecordSessionCreated() {
	sessionsCreatedTotal.Inc()
}

func RecordSessionTerminated(reason string) {
	sessionsTerminatedTotal.WithLabelValues(reason).Inc()
}

func StreamOpened() { sseStreamsActive.Inc() }
func StreamClosed() { sseStreamsActive.Dec() }

func RecordTurn(mode, branch string, duration time.Duration) {
	orchestratorTurnsTotal.WithLabelValues(mode, branch).Inc()
	orchestratorTurnDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func RecordPlannerFallback(reason string) {
	plannerFallbacksTotal.WithLabelValues(reason).Inc()
}

func RecordBackgroundTask(kind, status string, duration time.Duration) {
	backgroundTasksTotal.WithLabelValues(kind, status).Inc()
	if duration > 0 {
		backgroundTaskDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

func SetQueueDepth(n int) {
	backgroundQueueDepth.Set(float64(n))
}
