/*
Package monitoring provides Prometheus metrics for API traffic.

# Overview

Metrics tracks calls made through a transport connection: outcome counts by
method, call latency, server rate-limit trips, whether the cooldown is
active, and RTM session traffic.

Each Metrics value owns its registerer, so several connections (or tests)
can coexist in one process without duplicate registration panics.

# Usage

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())

	timer := monitoring.NewTimer(metrics, "chat.postMessage")
	// ... perform call ...
	timer.Stop(monitoring.OutcomeOK)

# Metrics Endpoint

Expose a registry through the standard handler:

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
*/
package monitoring
