// Package state persists namespaced key-value documents for guard
// snapshots and other small operational state.
//
// It provides a Store interface with memory, file, and Redis backends,
// plus helpers that save and load breaker and throttle snapshots as
// JSON. Persistence is observational: loaded snapshots inform dashboards
// and diagnostics, they never drive admission decisions.
package state
