// Package config loads guard manifests and builds executor stacks from
// them.
//
// A manifest names guard stacks and configures their layers:
//
//	guards:
//	  payment-api:
//	    retry:    {max_retries: 3, base_delay: 100ms, strategy: exponential, jitter: true}
//	    breaker:  {failure_threshold: 5, recovery_timeout: 30s}
//	    throttle: {calls: 100, period: 1s, burst: 120, mode: sleep}
//	    bulkhead: {max_concurrent: 32, max_wait: 50ms}
//	    timeout:  {duration: 2s}
//	    chaos:    {failure_rate: 0, latency_rate: 0}
//
// Load reads YAML or JSON by file extension; ${VAR} and ${VAR:-default}
// references are expanded from the environment before parsing. Build
// turns a manifest into named guard.Executor stacks, wrapping each in
// its chaos injectors when the entry configures any. Watch re-loads the
// manifest when the file changes, surviving editors that replace the
// file by rename.
//
//	m, err := config.Load("guards.yaml")
//	if err != nil {
//	    return err
//	}
//	set, err := config.Build(m)
//	if err != nil {
//	    return err
//	}
//	ex, _ := set.Executor("payment-api")
package config
