package scheduler

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkerConfig is the worker.* block of the NetPulse configuration file.
type WorkerConfig struct {
	Scheduler          string  `yaml:"scheduler"`
	BindRetries        int     `yaml:"bind_retries"`
	WeightPerturbation float64 `yaml:"weight_perturbation"`
}

// Config is the top-level configuration document consumed by the
// scheduler. It mirrors the nested-document shape the rest of the
// NetPulse deployment's YAML files use, rather than a flat
// dotted-key map.
type Config struct {
	Worker WorkerConfig `yaml:"worker"`
}

// DefaultConfig returns the configuration the scheduler runs with when
// nothing overrides it: load_weighted_random with three bind retries and
// a 0.1 perturbation epsilon.
func DefaultConfig() Config {
	return Config{
		Worker: WorkerConfig{
			Scheduler:          PolicyLoadWeightedRandom,
			BindRetries:        3,
			WeightPerturbation: 0.1,
		},
	}
}

// LoadConfig reads and parses a YAML configuration document from path,
// filling any unset fields from DefaultConfig, then validates the
// result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scheduler: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scheduler: parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("scheduler: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration names a registered policy and
// carries sane retry/perturbation values. It is meant to be called once
// at startup; a malformed configuration should abort the process rather
// than be worked around at schedule time.
func (c Config) Validate() error {
	switch c.Worker.Scheduler {
	case PolicyGreedy, PolicyLeastLoad, PolicyLeastLoadRandom, PolicyLoadWeightedRandom:
	default:
		return fmt.Errorf("worker.scheduler: unknown policy %q", c.Worker.Scheduler)
	}
	if c.Worker.BindRetries < 0 {
		return fmt.Errorf("worker.bind_retries: must be >= 0, got %d", c.Worker.BindRetries)
	}
	if c.Worker.WeightPerturbation < 0 || c.Worker.WeightPerturbation >= 1 {
		return fmt.Errorf("worker.weight_perturbation: must be in [0, 1), got %f", c.Worker.WeightPerturbation)
	}
	return nil
}
