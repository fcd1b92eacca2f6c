// Package changefeed publishes every appended event log record to Kafka.
// It plugs into the event log through eventlog.WithHooks; publishing is best
// effort and never fails an append.
package changefeed
