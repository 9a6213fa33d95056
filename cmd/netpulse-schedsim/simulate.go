package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/netpulse-io/netpulse/pkg/clusterstore"
	"github.com/netpulse-io/netpulse/pkg/log"
	"github.com/netpulse-io/netpulse/pkg/metrics"
	"github.com/netpulse-io/netpulse/pkg/scheduler"
	"github.com/netpulse-io/netpulse/pkg/taskqueue"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a batch of tasks through the scheduler against a synthetic fleet",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Int("nodes", 20, "number of synthetic worker nodes")
	simulateCmd.Flags().Int("tasks", 5000, "number of tasks to schedule")
	simulateCmd.Flags().Int("min-capacity", 10, "minimum per-node capacity")
	simulateCmd.Flags().Int("max-capacity", 100, "maximum per-node capacity")
	simulateCmd.Flags().String("policy", scheduler.PolicyLoadWeightedRandom, "scheduling policy: greedy, least_load, least_load_random, load_weighted_random")
	simulateCmd.Flags().Int("bind-retries", 3, "Decision Binder bind retry budget")
	simulateCmd.Flags().Float64("weight-perturbation", 0.1, "epsilon for load_weighted_random's hostname perturbation")
	simulateCmd.Flags().String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) until interrupted")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	nodeCount, _ := cmd.Flags().GetInt("nodes")
	taskCount, _ := cmd.Flags().GetInt("tasks")
	minCapacity, _ := cmd.Flags().GetInt("min-capacity")
	maxCapacity, _ := cmd.Flags().GetInt("max-capacity")
	policyName, _ := cmd.Flags().GetString("policy")
	bindRetries, _ := cmd.Flags().GetInt("bind-retries")
	perturbation, _ := cmd.Flags().GetFloat64("weight-perturbation")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	if nodeCount <= 0 || taskCount <= 0 {
		return errors.New("schedsim: --nodes and --tasks must be positive")
	}
	if minCapacity <= 0 || maxCapacity < minCapacity {
		return errors.New("schedsim: --min-capacity must be positive and --max-capacity must be >= --min-capacity")
	}

	cfg := scheduler.Config{
		Worker: scheduler.WorkerConfig{
			Scheduler:          policyName,
			BindRetries:        bindRetries,
			WeightPerturbation: perturbation,
		},
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("schedsim: %w", err)
	}

	store := clusterstore.NewMemStore()
	for i := 0; i < nodeCount; i++ {
		capacity := minCapacity
		if maxCapacity > minCapacity {
			capacity += rand.IntN(maxCapacity - minCapacity + 1)
		}
		store.UpsertNode(scheduler.WorkerNode{
			ID:       fmt.Sprintf("node-%03d", i),
			Hostname: fmt.Sprintf("router-%03d.netpulse.local", i),
			Capacity: capacity,
			Load:     rand.IntN(capacity),
			Alive:    true,
		})
	}

	queue := taskqueue.NewBroker()
	queue.Start()
	defer queue.Stop()
	metrics.RegisterComponent("clusterstore", true, "")

	sched, err := scheduler.New(store, queue, cfg, log.WithComponent("schedsim"))
	if err != nil {
		metrics.RegisterComponent("scheduler", false, err.Error())
		return fmt.Errorf("schedsim: %w", err)
	}
	metrics.RegisterComponent("scheduler", true, "")

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/health", metrics.HealthHandler())
		mux.Handle("/ready", metrics.ReadyHandler())
		mux.Handle("/live", metrics.LivenessHandler())
		server := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			log.Logger.Info().Str("addr", metricsAddr).Msg("serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	perNode := make(map[string]int, nodeCount)
	var bound, capacityErrors, noEligible, retried int

	for i := 0; i < taskCount; i++ {
		task := scheduler.Task{ID: uuid.NewString()}
		decision, err := sched.Schedule(context.Background(), task)
		switch {
		case err == nil:
			bound++
			perNode[decision.NodeID]++
			if decision.BindAttemptsUsed > 1 {
				retried++
			}
		case errors.As(err, new(*scheduler.CapacityError)):
			capacityErrors++
		case errors.As(err, new(*scheduler.NoEligibleNodeError)):
			noEligible++
		default:
			return fmt.Errorf("schedsim: unexpected scheduling error: %w", err)
		}
	}

	fmt.Printf("policy=%s nodes=%d tasks=%d\n", policyName, nodeCount, taskCount)
	fmt.Printf("bound=%d capacity_errors=%d no_eligible=%d retried_attempts=%d\n",
		bound, capacityErrors, noEligible, retried)
	printDistribution(perNode)

	if metricsAddr != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		<-ctx.Done()
	}
	return nil
}

func printDistribution(perNode map[string]int) {
	ids := make([]string, 0, len(perNode))
	for id := range perNode {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("node distribution:")
	for _, id := range ids {
		fmt.Printf("  %s: %d\n", id, perNode[id])
	}
}
