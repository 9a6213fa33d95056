/*
Package log provides structured logging for the NetPulse scheduler using
zerolog.

# Core Components

Logger: the package-level zerolog.Logger, configured once via Init.

Component loggers: WithComponent, WithNodeID, WithTaskID return a child
logger with the given field pre-populated, so every log line from the
scheduler facade, a policy, or the decision binder is attributable
without repeating Str() calls at every call site.

# Usage

	import "github.com/netpulse-io/netpulse/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
	})

	schedLog := log.WithComponent("scheduler")
	schedLog.Info().
		Str("task_id", "task-1").
		Str("policy", "load_weighted_random").
		Msg("scheduling attempt")

	err := errors.New("connection refused")
	log.Logger.Error().Err(err).Str("component", "clusterstore").Msg("raft apply failed")

# Design Patterns

Package-level global logger, initialized once via Init before any
component logger is derived from it. No per-call allocation beyond the
child-logger construction zerolog already does cheaply via With().
*/
package log
