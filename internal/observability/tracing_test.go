// File: internal/observability/tracing_test.go
package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/xkilldash9x/humantyper/internal/config"
)

func TestNewTracerProvider(t *testing.T) {
	ctx := context.Background()
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	t.Run("Disabled", func(t *testing.T) {
		p, err := NewTracerProvider(ctx, config.TracingConfig{Enabled: false})
		require.NoError(t, err)
		assert.False(t, p.Enabled())
		require.NotNil(t, p.Tracer())

		_, span := p.Tracer().Start(ctx, "noop")
		assert.False(t, span.SpanContext().IsValid())
		span.End()
		assert.NoError(t, p.Shutdown(ctx))
	})

	t.Run("NoExporter", func(t *testing.T) {
		p, err := NewTracerProvider(ctx, config.TracingConfig{Enabled: true, Exporter: "none", SampleRate: 1})
		require.NoError(t, err)
		assert.True(t, p.Enabled())

		_, span := p.Tracer().Start(ctx, "humanoid.Type")
		assert.True(t, span.SpanContext().IsValid())
		assert.True(t, span.SpanContext().IsSampled())
		span.End()
		assert.NoError(t, p.Shutdown(ctx))
	})

	t.Run("Stdout", func(t *testing.T) {
		p, err := NewTracerProvider(ctx, config.TracingConfig{Enabled: true, Exporter: "stdout", ServiceName: "svc"})
		require.NoError(t, err)
		assert.True(t, p.Enabled())
		assert.NoError(t, p.Shutdown(ctx))
	})

	t.Run("OTLP", func(t *testing.T) {
		// The gRPC client connects lazily, so no collector is needed here.
		p, err := NewTracerProvider(ctx, config.TracingConfig{Enabled: true, Exporter: "otlp", OTLPEndpoint: "localhost:4317"})
		require.NoError(t, err)
		assert.True(t, p.Enabled())

		shutdownCtx, cancel := context.WithCancel(ctx)
		cancel()
		_ = p.Shutdown(shutdownCtx)
	})

	t.Run("UnsupportedExporter", func(t *testing.T) {
		_, err := NewTracerProvider(ctx, config.TracingConfig{Enabled: true, Exporter: "zipkin"})
		assert.ErrorContains(t, err, "unsupported exporter type: zipkin")
	})
}
