// Package observe provides observability for guarded operations.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Consumers wire the Collector into guard configs
// and the Middleware around operations handed to an Executor.
package observe
