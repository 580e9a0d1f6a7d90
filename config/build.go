package config

import (
	"sort"

	"github.com/jonwraymond/guardops/chaos"
	"github.com/jonwraymond/guardops/guard"
)

// Set holds the guard stacks built from one manifest, keyed by the
// manifest entry name.
type Set struct {
	executors map[string]*guard.Executor
	stacks    map[string]guard.Guard
	failures  map[string]*chaos.FailureInjector
	latencies map[string]*chaos.LatencyInjector
}

// Build validates the manifest and constructs one executor per entry.
// Each block maps onto the matching guard layer, with the entry name
// carried through as the layer name so metrics and breaker errors
// identify the stack they belong to.
//
// A chaos block with a rate above zero wraps the executor in the
// matching injector. Guard returns the wrapped stack; Executor always
// returns the bare executor.
func Build(m *Manifest) (*Set, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	set := &Set{
		executors: make(map[string]*guard.Executor, len(m.Guards)),
		stacks:    make(map[string]guard.Guard, len(m.Guards)),
		failures:  make(map[string]*chaos.FailureInjector),
		latencies: make(map[string]*chaos.LatencyInjector),
	}

	for name, gc := range m.Guards {
		ex := buildExecutor(name, gc)
		set.executors[name] = ex
		set.stacks[name] = set.wrapChaos(name, gc.Chaos, ex)
	}
	return set, nil
}

func buildExecutor(name string, gc GuardConfig) *guard.Executor {
	var opts []guard.ExecutorOption

	if t := gc.Throttle; t != nil {
		mode, _ := parseMode(t.Mode)
		opts = append(opts, guard.WithThrottle(guard.NewThrottle(guard.ThrottleConfig{
			Name:   name,
			Calls:  t.Calls,
			Period: t.Period,
			Burst:  t.Burst,
			Mode:   mode,
		})))
	}
	if b := gc.Bulkhead; b != nil {
		opts = append(opts, guard.WithBulkhead(guard.NewBulkhead(guard.BulkheadConfig{
			Name:          name,
			MaxConcurrent: b.MaxConcurrent,
			MaxWait:       b.MaxWait,
		})))
	}
	if b := gc.Breaker; b != nil {
		opts = append(opts, guard.WithCircuitBreaker(guard.NewCircuitBreaker(guard.BreakerConfig{
			Name:             name,
			FailureThreshold: b.FailureThreshold,
			RecoveryTimeout:  b.RecoveryTimeout,
		})))
	}
	if r := gc.Retry; r != nil {
		strategy, _ := parseStrategy(r.Strategy)
		opts = append(opts, guard.WithRetry(guard.NewRetrier(guard.RetryConfig{
			Name:       name,
			MaxRetries: r.MaxRetries,
			Backoff: guard.BackoffConfig{
				Strategy:  strategy,
				BaseDelay: r.BaseDelay,
				MaxDelay:  r.MaxDelay,
				Jitter:    r.Jitter,
			},
		})))
	}
	if t := gc.Timeout; t != nil {
		opts = append(opts, guard.WithTimeoutGuard(guard.NewTimeout(guard.TimeoutConfig{
			Name:    name,
			Timeout: t.Duration,
		})))
	}

	return guard.NewExecutor(opts...)
}

// wrapChaos layers the configured injectors around the executor, the
// failure injector outermost so injected failures skip the stack
// entirely and injected latency is felt by the timeout layer.
func (s *Set) wrapChaos(name string, c *ChaosConfig, ex *guard.Executor) guard.Guard {
	if c == nil {
		return ex
	}

	layers := make([]guard.Guard, 0, 3)
	if c.FailureRate > 0 {
		f := chaos.NewFailureInjector(chaos.FailureConfig{
			Name: name,
			Rate: c.FailureRate,
		})
		s.failures[name] = f
		layers = append(layers, f)
	}
	if c.LatencyRate > 0 {
		l := chaos.NewLatencyInjector(chaos.LatencyConfig{
			Name: name,
			Rate: c.LatencyRate,
			Min:  c.MinLatency,
			Max:  c.MaxLatency,
		})
		s.latencies[name] = l
		layers = append(layers, l)
	}
	if len(layers) == 0 {
		return ex
	}

	layers = append(layers, ex)
	return guard.Chain(layers...)
}

// Executor returns the bare executor built for name.
func (s *Set) Executor(name string) (*guard.Executor, bool) {
	ex, ok := s.executors[name]
	return ex, ok
}

// Guard returns the full stack for name, chaos injectors included.
// Without a chaos block this is the same value Executor returns.
func (s *Set) Guard(name string) (guard.Guard, bool) {
	g, ok := s.stacks[name]
	return g, ok
}

// FailureInjector returns the failure injector built for name, or nil.
// The injector stays live inside the stack, so disabling it here takes
// effect on the next call.
func (s *Set) FailureInjector(name string) *chaos.FailureInjector {
	return s.failures[name]
}

// LatencyInjector returns the latency injector built for name, or nil.
func (s *Set) LatencyInjector(name string) *chaos.LatencyInjector {
	return s.latencies[name]
}

// Names returns the configured guard names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.executors))
	for name := range s.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
