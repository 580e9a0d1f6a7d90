package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/jonwraymond/guardops/guard"
)

// Format identifies a manifest encoding.
type Format string

const (
	// FormatYAML parses the manifest as YAML.
	FormatYAML Format = "yaml"
	// FormatJSON parses the manifest as JSON.
	FormatJSON Format = "json"
)

// Manifest is a parsed guard manifest. Each entry under Guards
// configures one named executor stack.
type Manifest struct {
	Guards map[string]GuardConfig `koanf:"guards"`
}

// GuardConfig configures the layers of one guard stack. Nil blocks are
// skipped; at least one block must be set.
type GuardConfig struct {
	Retry    *RetryConfig    `koanf:"retry"`
	Breaker  *BreakerConfig  `koanf:"breaker"`
	Throttle *ThrottleConfig `koanf:"throttle"`
	Bulkhead *BulkheadConfig `koanf:"bulkhead"`
	Timeout  *TimeoutConfig  `koanf:"timeout"`
	Chaos    *ChaosConfig    `koanf:"chaos"`
}

// RetryConfig configures the retry layer. Zero fields take the guard
// package defaults.
type RetryConfig struct {
	MaxRetries int           `koanf:"max_retries"`
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxDelay   time.Duration `koanf:"max_delay"`
	Strategy   string        `koanf:"strategy"` // exponential, linear, or constant
	Jitter     bool          `koanf:"jitter"`
}

// BreakerConfig configures the circuit breaker layer.
type BreakerConfig struct {
	FailureThreshold int           `koanf:"failure_threshold"`
	RecoveryTimeout  time.Duration `koanf:"recovery_timeout"`
}

// ThrottleConfig configures the rate limiting layer.
type ThrottleConfig struct {
	Calls  int           `koanf:"calls"`
	Period time.Duration `koanf:"period"`
	Burst  int           `koanf:"burst"`
	Mode   string        `koanf:"mode"` // sleep or reject
}

// BulkheadConfig configures the concurrency capping layer.
type BulkheadConfig struct {
	MaxConcurrent int           `koanf:"max_concurrent"`
	MaxWait       time.Duration `koanf:"max_wait"`
}

// TimeoutConfig configures the per-attempt time budget.
type TimeoutConfig struct {
	Duration time.Duration `koanf:"duration"`
}

// ChaosConfig configures fault injection for one stack. Zero rates
// build no injectors, so the block is safe to leave in production
// manifests.
type ChaosConfig struct {
	FailureRate float64       `koanf:"failure_rate"`
	LatencyRate float64       `koanf:"latency_rate"`
	MinLatency  time.Duration `koanf:"min_latency"`
	MaxLatency  time.Duration `koanf:"max_latency"`
}

// Load reads and parses the manifest at path, detecting the format
// from the file extension (.yaml, .yml, or .json).
func Load(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalid)
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data, format)
}

// Parse parses a manifest document. Environment references in the raw
// document are expanded before parsing, so values like
// `recovery_timeout: ${BREAKER_COOLDOWN:-30s}` resolve at load time.
func Parse(data []byte, format Format) (*Manifest, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}

	expanded, err := ExpandEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(expanded)), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	var m Manifest
	if err := k.Unmarshal("", &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every guard entry for rejectable values. Zero values
// are legal everywhere; they take the guard package defaults at build
// time.
func (m *Manifest) Validate() error {
	names := make([]string, 0, len(m.Guards))
	for name := range m.Guards {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := m.Guards[name].validate(); err != nil {
			return fmt.Errorf("%w: guard %q: %w", ErrInvalid, name, err)
		}
	}
	return nil
}

func (g GuardConfig) validate() error {
	if g.Retry == nil && g.Breaker == nil && g.Throttle == nil &&
		g.Bulkhead == nil && g.Timeout == nil && g.Chaos == nil {
		return fmt.Errorf("no layers configured")
	}

	if r := g.Retry; r != nil {
		if r.MaxRetries < 0 {
			return fmt.Errorf("retry.max_retries must not be negative")
		}
		if r.BaseDelay < 0 || r.MaxDelay < 0 {
			return fmt.Errorf("retry delays must not be negative")
		}
		if _, err := parseStrategy(r.Strategy); err != nil {
			return err
		}
	}
	if b := g.Breaker; b != nil {
		if b.FailureThreshold < 0 {
			return fmt.Errorf("breaker.failure_threshold must not be negative")
		}
		if b.RecoveryTimeout < 0 {
			return fmt.Errorf("breaker.recovery_timeout must not be negative")
		}
	}
	if t := g.Throttle; t != nil {
		if t.Calls < 0 || t.Burst < 0 {
			return fmt.Errorf("throttle.calls and throttle.burst must not be negative")
		}
		if t.Period < 0 {
			return fmt.Errorf("throttle.period must not be negative")
		}
		if _, err := parseMode(t.Mode); err != nil {
			return err
		}
	}
	if b := g.Bulkhead; b != nil {
		if b.MaxConcurrent < 0 {
			return fmt.Errorf("bulkhead.max_concurrent must not be negative")
		}
		if b.MaxWait < 0 {
			return fmt.Errorf("bulkhead.max_wait must not be negative")
		}
	}
	if t := g.Timeout; t != nil {
		if t.Duration < 0 {
			return fmt.Errorf("timeout.duration must not be negative")
		}
	}
	if c := g.Chaos; c != nil {
		if c.FailureRate < 0 || c.FailureRate > 1 {
			return fmt.Errorf("chaos.failure_rate must be in [0, 1]")
		}
		if c.LatencyRate < 0 || c.LatencyRate > 1 {
			return fmt.Errorf("chaos.latency_rate must be in [0, 1]")
		}
		if c.MinLatency < 0 || c.MaxLatency < 0 {
			return fmt.Errorf("chaos latency bounds must not be negative")
		}
	}
	return nil
}

func parseStrategy(s string) (guard.BackoffStrategy, error) {
	switch strings.ToLower(s) {
	case "", "exponential":
		return guard.BackoffExponential, nil
	case "linear":
		return guard.BackoffLinear, nil
	case "constant":
		return guard.BackoffConstant, nil
	default:
		return 0, fmt.Errorf("unknown retry.strategy %q", s)
	}
}

func parseMode(s string) (guard.ThrottleMode, error) {
	switch strings.ToLower(s) {
	case "", "sleep":
		return guard.ThrottleSleep, nil
	case "reject":
		return guard.ThrottleReject, nil
	default:
		return 0, fmt.Errorf("unknown throttle.mode %q", s)
	}
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
