package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/boutique/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func disabledTracerProvider(t *testing.T) *telemetry.TracerProvider {
	t.Helper()
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "boutique-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return tp
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp := disabledTracerProvider(t)

	assert.False(t, tp.IsEnabled())

	gotCfg := tp.GetConfig()
	assert.Equal(t, "boutique-backend", gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Needs a running collector; exercised locally with `make otel-up`.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "boutique-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.True(t, tp.IsEnabled())

	tracer := tp.Tracer("test")
	_, span := tracer.Start(ctx, "homepage.compose")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	// Disabled provider regardless of ratio; ratios only matter once enabled.
	for _, tt := range []struct {
		name          string
		samplingRatio float64
	}{
		{"always_sample", 1.0},
		{"never_sample", 0.0},
		{"ratio_sample", 0.5},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
				Enabled:           false,
				CollectorEndpoint: "localhost:14317",
				SamplingRatio:     tt.samplingRatio,
				ServiceName:       "boutique-backend",
			}, logger)
			require.NoError(t, err)
			assert.False(t, tp.IsEnabled())

			assert.NoError(t, tp.Shutdown(ctx))
		})
	}
}

func TestTracerProvider_Tracer(t *testing.T) {
	tp := disabledTracerProvider(t)

	// Disabled providers still hand out a usable no-op tracer.
	tracer := tp.Tracer("boutique-tracer")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "catalog.list_products")
	span.End()
}

func TestTracerProvider_ForceFlush_Disabled(t *testing.T) {
	tp := disabledTracerProvider(t)

	assert.NoError(t, tp.ForceFlush(context.Background()))
}

func TestTracerProvider_ShutdownTimeout(t *testing.T) {
	tp := disabledTracerProvider(t)

	// A cancelled context must not break the disabled no-op shutdown.
	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, tp.Shutdown(cancelledCtx))
}

func TestConfig_Defaults(t *testing.T) {
	cfg := telemetry.Config{}

	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.CollectorEndpoint)
	assert.Zero(t, cfg.SamplingRatio)
	assert.Empty(t, cfg.ServiceName)
}

func TestNewTracerProvider_InvalidEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.ErrorLevel))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// The exporter tolerates unreachable endpoints; both creation outcomes
	// are acceptable.
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "invalid-host:99999",
		SamplingRatio:     1.0,
		ServiceName:       "boutique-backend",
	}, logger)
	if err != nil {
		t.Logf("connection error: %v", err)
		return
	}

	_ = tp.Shutdown(context.Background())
}

func TestTracerProvider_EnableSpanProfiles_Disabled(t *testing.T) {
	ctx := context.Background()
	tp := disabledTracerProvider(t)

	// Enabling span profiles on a disabled provider is a silent no-op.
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTracerProvider_EnableSpanProfiles_Idempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "boutique-backend-span-profiles",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	assert.False(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.EnableSpanProfiles())
	assert.True(t, tp.IsSpanProfilesEnabled())
}

func TestTracerProvider_IsSpanProfilesEnabled_Default(t *testing.T) {
	ctx := context.Background()
	tp := disabledTracerProvider(t)

	assert.False(t, tp.IsSpanProfilesEnabled())

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestTracerProvider_SpanProfilesWithTracer(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "boutique-backend-span-profiles-tracer",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	require.NoError(t, tp.EnableSpanProfiles())

	// After EnableSpanProfiles the wrapped provider tags spans with a
	// span_id pprof label.
	tracer := tp.Tracer("boutique-span-profiles")
	_, span := tracer.Start(ctx, "order.checkout")

	// Span needs to live long enough for the CPU profiler to see it.
	time.Sleep(15 * time.Millisecond)

	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
}

func TestTracerProvider_SpanProfilesConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	tp := disabledTracerProvider(t)
	defer func() {
		_ = tp.Shutdown(ctx)
	}()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_ = tp.EnableSpanProfiles()
			_ = tp.IsSpanProfilesEnabled()
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	// Disabled provider: span profiles stay off no matter the interleaving.
	assert.False(t, tp.IsSpanProfilesEnabled())
}
