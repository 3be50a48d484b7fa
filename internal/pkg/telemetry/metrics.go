package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Data freshness
	MetricGeometryAge     = "geometry.age_seconds"
	MetricRefreshDuration = "geometry.catalog_refresh_duration"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricRingsComputed = "business.rings_computed"
	MetricSeamCrossings = "business.seam_crossings"
)
