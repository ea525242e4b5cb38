package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	p, err := New(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithEndpoint(t *testing.T) {
	p, err := New(context.Background(), Options{Endpoint: "localhost:4318", Insecure: true, ServiceName: "test"})
	require.NoError(t, err)

	assert.True(t, p.Enabled())
}

func TestNewWithProcessor_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	p := NewWithProcessor(recorder, "")

	_, span := p.Tracer().Start(context.Background(), "overlay.dialog")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "overlay.dialog", ended[0].Name())
	assert.Equal(t, InstrumentationName, ended[0].InstrumentationScope().Name)

	var service string
	for _, kv := range ended[0].Resource().Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "modalstack", service)

	require.NoError(t, p.Shutdown(context.Background()))
}
