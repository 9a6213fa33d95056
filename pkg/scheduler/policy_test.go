package scheduler

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixedRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestGreedyPolicy_PicksLexicographicallySmallestHostname(t *testing.T) {
	p := &greedyPolicy{}
	nodes := []WorkerNode{
		{ID: "1", Hostname: "router-b", Capacity: 10},
		{ID: "2", Hostname: "router-a", Capacity: 10},
		{ID: "3", Hostname: "router-c", Capacity: 10},
	}
	got, err := p.Choose(nodes, Task{ID: "t1"}, fixedRand())
	assert.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestGreedyPolicy_EmptyEligibleIsCapacityError(t *testing.T) {
	p := &greedyPolicy{}
	_, err := p.Choose(nil, Task{ID: "t1"}, fixedRand())
	var ce *CapacityError
	assert.ErrorAs(t, err, &ce)
}

func TestGreedyPolicy_Deterministic(t *testing.T) {
	p := &greedyPolicy{}
	nodes := []WorkerNode{
		{ID: "1", Hostname: "b", Capacity: 10},
		{ID: "2", Hostname: "a", Capacity: 10},
	}
	first, _ := p.Choose(nodes, Task{ID: "t1"}, fixedRand())
	for i := 0; i < 20; i++ {
		got, _ := p.Choose(nodes, Task{ID: "t1"}, fixedRand())
		assert.Equal(t, first.ID, got.ID)
	}
}

func TestLeastLoadPolicy_PicksLowestLoad(t *testing.T) {
	p := &leastLoadPolicy{}
	nodes := []WorkerNode{
		{ID: "1", Hostname: "a", Capacity: 10, Load: 5},
		{ID: "2", Hostname: "b", Capacity: 10, Load: 1},
		{ID: "3", Hostname: "c", Capacity: 10, Load: 8},
	}
	got, err := p.Choose(nodes, Task{ID: "t1"}, fixedRand())
	assert.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestLeastLoadPolicy_TiesBreakByRemainingThenHostname(t *testing.T) {
	p := &leastLoadPolicy{}
	// 1 and 2 tie on Load=5; 2 has more remaining (20-5=15 vs 10-5=5).
	nodes := []WorkerNode{
		{ID: "1", Hostname: "a", Capacity: 10, Load: 5},
		{ID: "2", Hostname: "b", Capacity: 20, Load: 5},
	}
	got, err := p.Choose(nodes, Task{ID: "t1"}, fixedRand())
	assert.NoError(t, err)
	assert.Equal(t, "2", got.ID)

	// Now tie on both Load and Remaining: hostname breaks the tie.
	nodes = []WorkerNode{
		{ID: "1", Hostname: "z", Capacity: 10, Load: 5},
		{ID: "2", Hostname: "a", Capacity: 10, Load: 5},
	}
	got, err = p.Choose(nodes, Task{ID: "t1"}, fixedRand())
	assert.NoError(t, err)
	assert.Equal(t, "2", got.ID)
}

func TestLeastLoadRandomPolicy_UniformAmongTies(t *testing.T) {
	p := &leastLoadRandomPolicy{}
	nodes := []WorkerNode{
		{ID: "1", Hostname: "a", Capacity: 10, Load: 5},
		{ID: "2", Hostname: "b", Capacity: 10, Load: 5},
		{ID: "3", Hostname: "c", Capacity: 10, Load: 5},
		{ID: "4", Hostname: "d", Capacity: 10, Load: 9}, // not tied, excluded
	}
	counts := map[string]int{}
	rng := rand.New(rand.NewPCG(42, 7))
	const trials = 6000
	for i := 0; i < trials; i++ {
		got, err := p.Choose(nodes, Task{ID: "t1"}, rng)
		assert.NoError(t, err)
		counts[got.ID]++
	}
	assert.Equal(t, 0, counts["4"], "node outside the load tie must never be chosen")

	// Tolerance is a multiple of the binomial standard error for a fair
	// three-way split: SE = sqrt(p(1-p)/trials). 5 SE keeps the false-positive
	// rate on a correctly-uniform policy negligible even across repeated runs.
	const expected = 1.0 / 3.0
	stdErr := math.Sqrt(expected * (1 - expected) / trials)
	delta := 5 * stdErr
	for _, id := range []string{"1", "2", "3"} {
		frac := float64(counts[id]) / trials
		assert.InDelta(t, expected, frac, delta, "node %s selection frequency out of tolerance", id)
	}
}

func TestLeastLoadRandomPolicy_EmptyEligibleIsCapacityError(t *testing.T) {
	p := &leastLoadRandomPolicy{}
	_, err := p.Choose(nil, Task{ID: "t1"}, fixedRand())
	var ce *CapacityError
	assert.ErrorAs(t, err, &ce)
}

func TestLoadWeightedRandomPolicy_BiasesTowardMoreRemainingCapacity(t *testing.T) {
	p := &loadWeightedRandomPolicy{epsilon: 0.1}
	nodes := []WorkerNode{
		{ID: "small", Hostname: "small-host", Capacity: 10, Load: 9},  // remaining 1
		{ID: "big", Hostname: "big-host", Capacity: 100, Load: 10},    // remaining 90
	}
	counts := map[string]int{}
	rng := rand.New(rand.NewPCG(1, 1))
	const trials = 2000
	for i := 0; i < trials; i++ {
		got, err := p.Choose(nodes, Task{ID: "t1"}, rng)
		assert.NoError(t, err)
		counts[got.ID]++
	}
	assert.Greater(t, counts["big"], counts["small"]*50)
}

func TestLoadWeightedRandomPolicy_EmptyEligibleIsCapacityError(t *testing.T) {
	p := &loadWeightedRandomPolicy{epsilon: 0.1}
	_, err := p.Choose(nil, Task{ID: "t1"}, fixedRand())
	var ce *CapacityError
	assert.ErrorAs(t, err, &ce)
}

func TestLoadWeightedRandomPolicy_SingleCandidateAlwaysChosen(t *testing.T) {
	p := &loadWeightedRandomPolicy{epsilon: 0.1}
	nodes := []WorkerNode{{ID: "only", Hostname: "only-host", Capacity: 10, Load: 5}}
	rng := rand.New(rand.NewPCG(5, 9))
	for i := 0; i < 50; i++ {
		got, err := p.Choose(nodes, Task{ID: "t1"}, rng)
		assert.NoError(t, err)
		assert.Equal(t, "only", got.ID)
	}
}

func TestHostnameHash_StableAndInUnitRange(t *testing.T) {
	h1 := hostnameHash("router-a")
	h2 := hostnameHash("router-a")
	assert.Equal(t, h1, h2)
	assert.GreaterOrEqual(t, h1, 0.0)
	assert.Less(t, h1, 1.0)
	assert.NotEqual(t, h1, hostnameHash("router-b"))
}

func TestNewPolicy_UnknownNameIsError(t *testing.T) {
	_, err := NewPolicy("not_a_real_policy", 0.1)
	assert.Error(t, err)
}

func TestNewPolicy_AllRegisteredNamesConstruct(t *testing.T) {
	for _, name := range []string{PolicyGreedy, PolicyLeastLoad, PolicyLeastLoadRandom, PolicyLoadWeightedRandom} {
		p, err := NewPolicy(name, 0.1)
		assert.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
}
