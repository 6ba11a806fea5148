/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured logs.

Both are exposed as domain.LifecycleHooks so they can be merged and passed to
runtime.WithLifecycleHooks (or twoway.WithLifecycleHooks):

	metrics := observability.NewMetrics()
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
