package scheduler

// WorkerNode is a snapshot of one worker in the fleet at the moment the
// ClusterView was taken. Capacity and Load are both non-negative. A Store's
// TryIncrementLoad never raises Load past Capacity, but a record can be
// registered with Load above Capacity; such a node has a negative
// Remaining and is dropped by FilterCapacity.
type WorkerNode struct {
	ID           string
	Hostname     string
	Capacity     int
	Load         int
	Alive        bool
	Capabilities map[string]struct{}
}

// Remaining is the node's spare capacity. It may be negative in a
// momentarily inconsistent snapshot; callers that need a non-negative
// remaining value should filter with FilterCapacity first.
func (n WorkerNode) Remaining() int {
	return n.Capacity - n.Load
}

// HasCapability reports whether the node advertises the given capability
// tag.
func (n WorkerNode) HasCapability(tag string) bool {
	_, ok := n.Capabilities[tag]
	return ok
}

// Task is one unit of work submitted for scheduling onto a single pinned
// worker node.
type Task struct {
	ID           string
	Requirements map[string]struct{}
}

// RequiresCapability reports whether the task declares the given
// capability tag as a requirement.
func (t Task) RequiresCapability(tag string) bool {
	_, ok := t.Requirements[tag]
	return ok
}

// ClusterView is an immutable snapshot of the fleet as observed at one
// instant by one scheduling attempt. Nothing in this package ever mutates
// a ClusterView or the WorkerNode values it holds; every filtering step
// produces a new slice.
type ClusterView struct {
	Nodes []WorkerNode
}

// Decision is the outcome of one successful scheduling attempt: a task
// pinned to a node, by a named policy, along with what that node's
// remaining capacity looked like at observation time.
type Decision struct {
	TaskID             string
	NodeID             string
	PolicyName         string
	ObservedRemaining  int
	BindAttemptsUsed   int
}
