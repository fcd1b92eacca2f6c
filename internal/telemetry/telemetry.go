package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/rzbill/coinlog/internal/eventlog"
)

const meterName = "github.com/rzbill/coinlog"

// Options configures the metrics provider.
type Options struct {
	// OTLPEndpoint enables periodic export over OTLP/gRPC when set.
	OTLPEndpoint string
	// Insecure disables TLS towards the collector.
	Insecure bool
	// Reader is an extra reader, e.g. a ManualReader in tests.
	Reader sdkmetric.Reader
}

// Provider owns the meter provider and the instruments coinlog records.
type Provider struct {
	mp *sdkmetric.MeterProvider

	appends       metric.Int64Counter
	storageWrites metric.Int64Counter
	storageReads  metric.Int64Counter
	commitLatency metric.Float64Histogram
	readLatency   metric.Float64Histogram
	requests      metric.Int64Counter
	requestErrors metric.Int64Counter
	requestTime   metric.Float64Histogram
	skipped       metric.Int64Counter
	reportSize    metric.Int64Histogram
}

// New builds a Provider. With neither endpoint nor reader configured the
// instruments still work but nothing is exported.
func New(ctx context.Context, opts Options) (*Provider, error) {
	var mpOpts []sdkmetric.Option
	if opts.OTLPEndpoint != "" {
		eopts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(opts.OTLPEndpoint)}
		if opts.Insecure {
			eopts = append(eopts, otlpmetricgrpc.WithInsecure())
		}
		exporter, err := otlpmetricgrpc.New(ctx, eopts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		mpOpts = append(mpOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(15*time.Second),
		)))
	}
	if opts.Reader != nil {
		mpOpts = append(mpOpts, sdkmetric.WithReader(opts.Reader))
	}
	p := &Provider{mp: sdkmetric.NewMeterProvider(mpOpts...)}
	if err := p.initInstruments(p.mp.Meter(meterName)); err != nil {
		_ = p.mp.Shutdown(ctx)
		return nil, fmt.Errorf("failed to init instruments: %w", err)
	}
	return p, nil
}

func (p *Provider) initInstruments(m metric.Meter) error {
	var err, e error
	p.appends, e = m.Int64Counter("coinlog.eventlog.appends",
		metric.WithDescription("Records appended to entity logs"),
		metric.WithUnit("{record}"))
	err = errors.Join(err, e)
	p.storageWrites, e = m.Int64Counter("coinlog.storage.written",
		metric.WithDescription("Bytes committed to Pebble"),
		metric.WithUnit("By"))
	err = errors.Join(err, e)
	p.storageReads, e = m.Int64Counter("coinlog.storage.read",
		metric.WithDescription("Bytes read from Pebble"),
		metric.WithUnit("By"))
	err = errors.Join(err, e)
	p.commitLatency, e = m.Float64Histogram("coinlog.storage.commit.duration",
		metric.WithDescription("Pebble batch commit latency"),
		metric.WithUnit("s"))
	err = errors.Join(err, e)
	p.readLatency, e = m.Float64Histogram("coinlog.storage.read.duration",
		metric.WithDescription("Pebble read latency"),
		metric.WithUnit("s"))
	err = errors.Join(err, e)
	p.requests, e = m.Int64Counter("coinlog.requests",
		metric.WithDescription("Requests handled by transport and operation"),
		metric.WithUnit("{request}"))
	err = errors.Join(err, e)
	p.requestErrors, e = m.Int64Counter("coinlog.request.errors",
		metric.WithDescription("Requests that returned an error"),
		metric.WithUnit("{request}"))
	err = errors.Join(err, e)
	p.requestTime, e = m.Float64Histogram("coinlog.request.duration",
		metric.WithDescription("Request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0))
	err = errors.Join(err, e)
	p.skipped, e = m.Int64Counter("coinlog.records.skipped",
		metric.WithDescription("Malformed records skipped while aggregating"),
		metric.WithUnit("{record}"))
	err = errors.Join(err, e)
	p.reportSize, e = m.Int64Histogram("coinlog.report.entities",
		metric.WithDescription("Entities scanned per report"),
		metric.WithUnit("{entity}"))
	return errors.Join(err, e)
}

// Shutdown flushes and stops every reader.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.mp == nil {
		return nil
	}
	return p.mp.Shutdown(ctx)
}

// Meter exposes the provider's meter for ad-hoc instruments.
func (p *Provider) Meter() metric.Meter { return p.mp.Meter(meterName) }

// ObserveWrite implements pebblestore.MetricsHook.
func (p *Provider) ObserveWrite(_ time.Duration, bytes int) {
	p.storageWrites.Add(context.Background(), int64(bytes))
}

// ObserveRead implements pebblestore.MetricsHook.
func (p *Provider) ObserveRead(elapsed time.Duration, bytes int) {
	ctx := context.Background()
	p.storageReads.Add(ctx, int64(bytes))
	p.readLatency.Record(ctx, elapsed.Seconds())
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (p *Provider) ObserveBatchCommit(elapsed time.Duration, _ int, _ int) {
	p.commitLatency.Record(context.Background(), elapsed.Seconds())
}

// AfterAppend implements eventlog.AppendHook.
func (p *Provider) AfterAppend(ctx context.Context, key eventlog.EntityKey, _ []byte) error {
	p.appends.Add(ctx, 1, metric.WithAttributes(attribute.String("namespace", key.Namespace)))
	return nil
}

// RecordRequest counts one transport request and its latency.
func (p *Provider) RecordRequest(ctx context.Context, transport, op string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("transport", transport), attribute.String("op", op))
	p.requests.Add(ctx, 1, attrs)
	p.requestTime.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		p.requestErrors.Add(ctx, 1, attrs)
	}
}

// RecordSkipped counts malformed records met by a read.
func (p *Provider) RecordSkipped(ctx context.Context, namespace string, n int) {
	if n <= 0 {
		return
	}
	p.skipped.Add(ctx, int64(n), metric.WithAttributes(attribute.String("namespace", namespace)))
}

// RecordReport records how many entities a report scanned.
func (p *Provider) RecordReport(ctx context.Context, namespace string, scanned int) {
	p.reportSize.Record(ctx, int64(scanned), metric.WithAttributes(attribute.String("namespace", namespace)))
}
