/*
Package taskqueue provides an in-memory reference implementation of
scheduler.Queue: a pub/sub broker that downstream worker runtimes
subscribe to in order to learn which node a task was bound to.

# Architecture

	┌────────────────────── BROKER ─────────────────────────┐
	│                                                         │
	│  Publish(task_id, node_id)                             │
	│       │                                                 │
	│       ▼                                                 │
	│  dedupe ledger (bounded, task_id-keyed)                 │
	│       │  already seen? → return nil, no rebroadcast     │
	│       ▼  first time   → buffer + broadcast              │
	│  event channel (buffered)                               │
	│       │                                                 │
	│       ▼                                                 │
	│  broadcast loop → routed by node_id to that node's      │
	│                   buffered subscriber channel(s)        │
	│                                                         │
	└─────────────────────────────────────────────────────────┘

Publish must be safe to call more than once for the same task: the
Decision Binder may retry a publish after an ambiguous error from a
prior attempt, and a worker runtime must never see the same task bound
twice. The dedupe ledger makes a repeat Publish(task_id, ...) a no-op
once the task_id has been seen, bounded to a fixed capacity so a
long-running broker's memory doesn't grow with total tasks ever
scheduled.

Each subscriber registers under the single worker node ID it speaks
for; a Binding is only ever delivered to subscribers registered under
its NodeID, never broadcast to the whole fleet.

# Usage

	broker := taskqueue.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe("node-7")
	defer broker.Unsubscribe("node-7", sub)

	go func() {
		for binding := range sub {
			// dispatch binding.TaskID; binding.NodeID is always "node-7"
		}
	}()

	_ = broker.Publish(ctx, "task-1", "node-7")
*/
package taskqueue
