// Package telemetry sets up OpenTelemetry tracing for overlay lifecycles.
package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName is the tracer name used for overlay spans
const InstrumentationName = "github.com/riordanpawley/modalstack/overlay"

// Options describes where spans are exported
type Options struct {
	// Endpoint is host:port of an OTLP/HTTP collector. Empty falls back to
	// OTEL_EXPORTER_OTLP_ENDPOINT; when both are empty tracing is disabled.
	Endpoint    string
	ServiceName string
	Insecure    bool
}

// Provider hands out the tracer and flushes spans on shutdown
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// New creates a Provider. With no endpoint configured it returns a provider
// whose tracer records nothing.
func New(ctx context.Context, opts Options) (*Provider, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}
	if endpoint == "" {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(InstrumentationName)}, nil
	}

	exporterOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating otlp exporter: %w", err)
	}

	return NewWithExporter(exporter, opts.ServiceName), nil
}

// NewWithExporter creates a Provider that batches spans into exporter
func NewWithExporter(exporter sdktrace.SpanExporter, serviceName string) *Provider {
	return newProvider(sdktrace.WithBatcher(exporter), serviceName)
}

// NewWithProcessor creates a Provider around a span processor. Tests use it
// with a tracetest.SpanRecorder.
func NewWithProcessor(processor sdktrace.SpanProcessor, serviceName string) *Provider {
	return newProvider(sdktrace.WithSpanProcessor(processor), serviceName)
}

func newProvider(opt sdktrace.TracerProviderOption, serviceName string) *Provider {
	if serviceName == "" {
		serviceName = "modalstack"
	}
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	provider := sdktrace.NewTracerProvider(opt, sdktrace.WithResource(res))
	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(InstrumentationName),
	}
}

// Tracer returns the tracer for overlay spans
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are exported anywhere
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes pending spans
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
