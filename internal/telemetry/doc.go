// Package telemetry records coinlog metrics with OpenTelemetry. The Provider
// doubles as the Pebble metrics hook and as an event log append hook, and is
// exported over OTLP/gRPC when an endpoint is configured.
package telemetry
