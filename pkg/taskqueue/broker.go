package taskqueue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/netpulse-io/netpulse/pkg/metrics"
	"github.com/netpulse-io/netpulse/pkg/scheduler"
)

// Binding is one published (task_id, node_id) pairing, delivered to every
// subscriber registered under NodeID at publish time.
type Binding struct {
	TaskID    string
	NodeID    string
	Timestamp time.Time
}

// Subscriber is a channel that receives bindings for the worker node ID it
// was subscribed under.
type Subscriber chan *Binding

// Broker is an in-memory, non-blocking pub/sub distributor of bindings. It
// implements scheduler.Queue. Each subscriber registers under a single
// worker node ID and only ever receives bindings addressed to that node —
// a worker runtime has no business seeing another node's assignments.
type Broker struct {
	subscribers map[string]map[Subscriber]bool
	mu          sync.RWMutex
	eventCh     chan *Binding
	stopCh      chan struct{}
	dedupe      *dedupeLedger
}

var _ scheduler.Queue = (*Broker)(nil)

// NewBroker creates a broker with the default dedupe ledger capacity.
func NewBroker() *Broker {
	return NewBrokerWithDedupeCapacity(defaultDedupeCapacity)
}

// NewBrokerWithDedupeCapacity creates a broker whose idempotent-publish
// ledger holds at most capacity task IDs at a time.
func NewBrokerWithDedupeCapacity(capacity int) *Broker {
	return &Broker{
		subscribers: make(map[string]map[Subscriber]bool),
		eventCh:     make(chan *Binding, 100),
		stopCh:      make(chan struct{}),
		dedupe:      newDedupeLedger(capacity),
	}
}

// Start begins the broker's distribution loop in a new goroutine.
func (b *Broker) Start() {
	go b.run()
}

// Stop halts distribution. Subsequent Publish calls return an error.
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe registers a new subscriber for the given worker node ID and
// returns its delivery channel. A node may have more than one live
// subscriber, e.g. across a worker runtime restart before the old
// connection is unsubscribed.
func (b *Broker) Subscribe(nodeID string) Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50)
	if b.subscribers[nodeID] == nil {
		b.subscribers[nodeID] = make(map[Subscriber]bool)
	}
	b.subscribers[nodeID][sub] = true
	return sub
}

// Unsubscribe removes and closes a subscriber's channel that was
// registered under nodeID.
func (b *Broker) Unsubscribe(nodeID string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.subscribers[nodeID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(b.subscribers, nodeID)
		}
	}
	close(sub)
}

// SubscriberCount returns the number of currently registered subscribers
// across all worker node IDs.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscribers {
		count += len(subs)
	}
	return count
}

// Publish implements scheduler.Queue. A repeat call for a task_id already
// seen by this broker (within its dedupe ledger's capacity) is a no-op
// that returns nil without rebroadcasting.
func (b *Broker) Publish(ctx context.Context, taskID, nodeID string) error {
	select {
	case <-b.stopCh:
		return errors.New("taskqueue: broker is stopped")
	default:
	}

	if b.dedupe.checkAndMark(taskID) {
		metrics.QueuePublishTotal.WithLabelValues("dedupe").Inc()
		return nil
	}

	binding := &Binding{TaskID: taskID, NodeID: nodeID, Timestamp: time.Now()}

	select {
	case b.eventCh <- binding:
		metrics.QueuePublishTotal.WithLabelValues("published").Inc()
		return nil
	case <-b.stopCh:
		return errors.New("taskqueue: broker is stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Broker) run() {
	for {
		select {
		case binding := <-b.eventCh:
			b.broadcast(binding)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(binding *Binding) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subscribers[binding.NodeID] {
		select {
		case sub <- binding:
		default:
			// Subscriber's buffer is full; drop rather than block the
			// broadcast loop for every other subscriber.
		}
	}
}
