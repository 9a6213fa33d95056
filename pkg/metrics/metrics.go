package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cluster metrics
	NodesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netpulse_fleet_nodes_total",
			Help: "Total number of worker nodes known to the cluster view, by alive state",
		},
		[]string{"alive"},
	)

	NodeRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "netpulse_fleet_node_remaining",
			Help: "Remaining capacity (capacity - load) per worker node",
		},
		[]string{"node_id"},
	)

	// Scheduler metrics
	SchedulingLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netpulse_scheduling_latency_seconds",
			Help:    "Time taken for one schedule(task) attempt, including bind retries",
			Buckets: prometheus.DefBuckets,
		},
	)

	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_decisions_total",
			Help: "Total scheduling decisions by policy and outcome",
		},
		[]string{"policy", "outcome"},
	)

	BindRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_bind_retries_total",
			Help: "Decision Binder lost bind races (outcome=retry), plus one count per schedule(task) call that was bound after a lost race (outcome=bound) or ran out of bind retries (outcome=exhausted)",
		},
		[]string{"outcome"},
	)

	CapacityErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_capacity_errors_total",
			Help: "Total scheduling attempts that ended in CapacityError or NoEligibleNodeError",
		},
		[]string{"kind"},
	)

	// Raft-backed cluster store metrics
	RaftLeader = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netpulse_clusterstore_is_leader",
			Help: "Whether this clusterstore replica is the Raft leader (1 = leader, 0 = follower)",
		},
	)

	RaftApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netpulse_clusterstore_apply_duration_seconds",
			Help:    "Time taken to apply a Raft log entry in the cluster store",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Queue metrics
	QueuePublishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netpulse_queue_publish_total",
			Help: "Total publish(task_id, node_id) calls, by whether they were a fresh publish or a dedupe hit",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(NodesTotal)
	prometheus.MustRegister(NodeRemaining)
	prometheus.MustRegister(SchedulingLatency)
	prometheus.MustRegister(DecisionsTotal)
	prometheus.MustRegister(BindRetriesTotal)
	prometheus.MustRegister(CapacityErrorsTotal)
	prometheus.MustRegister(RaftLeader)
	prometheus.MustRegister(RaftApplyDuration)
	prometheus.MustRegister(QueuePublishTotal)
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
