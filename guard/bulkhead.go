package guard

import (
	"context"
	"sync"
	"time"
)

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name labels the bulkhead in errors and metrics.
	// Default: "bulkhead"
	Name string

	// MaxConcurrent caps in-flight executions.
	// Default: 10
	MaxConcurrent int

	// MaxWait is how long a caller may queue for a slot.
	// Default: 0 (reject immediately)
	MaxWait time.Duration

	// Collector receives rejection observations. Optional.
	Collector MetricsCollector
}

// Bulkhead caps concurrent executions with a semaphore so one saturated
// dependency cannot drain every goroutine in the process.
type Bulkhead struct {
	config BulkheadConfig
	sem    chan struct{}

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewBulkhead creates a bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.Name == "" {
		config.Name = "bulkhead"
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}

	return &Bulkhead{
		config: config,
		sem:    make(chan struct{}, config.MaxConcurrent),
	}
}

// Acquire claims a slot, queueing up to MaxWait for one. It returns a
// *BulkheadFullError when no slot frees up in time.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		b.claimed()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		return b.reject()
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		b.claimed()
		return nil
	case <-timer.C:
		return b.reject()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot claimed by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
		// Release without a matching Acquire.
	}
}

// Execute runs the operation inside a slot.
func (b *Bulkhead) Execute(ctx context.Context, op Operation) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

// Active returns the number of in-flight executions.
func (b *Bulkhead) Active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.config.MaxConcurrent - b.active
}

// Snapshot returns a copy of the bulkhead's observable state.
func (b *Bulkhead) Snapshot() BulkheadSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadSnapshot{
		Name:          b.config.Name,
		Active:        b.active,
		MaxActive:     b.maxActive,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

func (b *Bulkhead) claimed() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) reject() error {
	b.mu.Lock()
	b.rejected++
	active := b.active
	b.mu.Unlock()

	if b.config.Collector != nil {
		b.config.Collector.IncrementCounter(metricBulkheadRejected, map[string]string{"name": b.config.Name})
	}
	return &BulkheadFullError{Name: b.config.Name, Active: active}
}

// BulkheadSnapshot is a point-in-time copy of bulkhead state.
type BulkheadSnapshot struct {
	Name          string `json:"name"`
	Active        int    `json:"active"`
	MaxActive     int    `json:"max_active"`
	MaxConcurrent int    `json:"max_concurrent"`
	Rejected      int64  `json:"rejected"`
}
