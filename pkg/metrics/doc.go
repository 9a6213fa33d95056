/*
Package metrics provides Prometheus metrics collection and exposition for
the NetPulse scheduler.

Metrics are registered at package init and exposed over HTTP for scraping:

	http.Handle("/metrics", metrics.Handler())

# Metrics Catalog

netpulse_fleet_nodes_total{alive}: gauge, worker node count by alive state.

netpulse_fleet_node_remaining{node_id}: gauge, capacity-load per node.

netpulse_scheduling_latency_seconds: histogram, time per schedule(task)
attempt including bind retries.

netpulse_decisions_total{policy,outcome}: counter, decisions per policy.

netpulse_bind_retries_total{outcome}: counter, Decision Binder retries.

netpulse_capacity_errors_total{kind}: counter, CapacityError vs
NoEligibleNodeError occurrences.

netpulse_clusterstore_is_leader: gauge, Raft leadership of this replica.

netpulse_clusterstore_apply_duration_seconds: histogram, Raft apply time.

netpulse_queue_publish_total{result}: counter, fresh publishes vs dedupe
hits in the reference Queue implementation.

# Timer Helper

	timer := metrics.NewTimer()
	// ... do work ...
	timer.ObserveDuration(metrics.SchedulingLatency)
*/
package metrics
