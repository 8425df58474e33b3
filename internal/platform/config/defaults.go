package config

const (
	defaultServerPort = 8005

	defaultRetryMaxAttempts = 3
	defaultRetryMultiplier  = 2.0

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1

	defaultWorkerMaxChannels = 512
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "10s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"sentry.base_url":                        "http://localhost:8005",
		"sentry.timeout":                         "30s",
		"sentry.retry.max_attempts":              defaultRetryMaxAttempts,
		"sentry.retry.initial_interval":          "100ms",
		"sentry.retry.max_interval":              "10s",
		"sentry.retry.multiplier":                defaultRetryMultiplier,
		"sentry.circuit_breaker.max_failures":    defaultCircuitBreakerMaxFailures,
		"sentry.circuit_breaker.timeout":         "30s",
		"sentry.circuit_breaker.half_open_limit": defaultCircuitBreakerHalfOpen,
		"sentry.rate_limit.requests_per_second":  0.0,
		"sentry.rate_limit.burst_size":           1,

		"worker.address":       "",
		"worker.tick_interval": "5s",
		"worker.tick_timeout":  "30s",
		"worker.max_channels":  defaultWorkerMaxChannels,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "chanstack",
	}
}
