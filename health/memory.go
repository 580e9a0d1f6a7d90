package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the process memory checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the allocation fraction that reports degraded.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the allocation fraction that reports unhealthy.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// MaxAlloc is the allocation ceiling in bytes the fractions are
	// measured against. Zero falls back to the runtime's Sys figure.
	MaxAlloc uint64
}

// MemoryChecker reports process memory pressure. It exists for
// processes that register guard checkers anyway and want one more
// signal on the same endpoint.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a memory checker with clamped thresholds.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold
	}

	return &MemoryChecker{config: config}
}

// Name returns the name of this checker.
func (m *MemoryChecker) Name() string {
	return "memory"
}

// Check reads the runtime allocation figures.
func (m *MemoryChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}
	if maxAlloc == 0 {
		return nil
	}

	ratio := float64(stats.Alloc) / float64(maxAlloc)
	switch {
	case ratio >= m.config.CriticalThreshold:
		return fmt.Errorf("%w: memory usage critical: %.1f%%", ErrCheckFailed, ratio*100)
	case ratio >= m.config.WarningThreshold:
		return fmt.Errorf("%w: memory usage high: %.1f%%", ErrDegraded, ratio*100)
	}
	return nil
}
