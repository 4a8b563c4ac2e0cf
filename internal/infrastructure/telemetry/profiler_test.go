package telemetry_test

import (
	"sync"
	"testing"

	"github.com/boutique/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newDisabledProfiler(t *testing.T, cfg telemetry.ProfilerConfig) *telemetry.Profiler {
	t.Helper()
	profiler, err := telemetry.NewProfiler(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, profiler)
	return profiler
}

func TestNewProfiler_Disabled(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "boutique-backend",
	})

	assert.False(t, profiler.IsEnabled())

	gotCfg := profiler.GetConfig()
	assert.Equal(t, "boutique-backend", gotCfg.ApplicationName)
	assert.False(t, gotCfg.Enabled)

	assert.NoError(t, profiler.Stop())
}

func TestNewProfiler_Enabled_MissingServerAddress(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "",
		ApplicationName: "boutique-backend",
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Nil(t, profiler)
	assert.Contains(t, err.Error(), "server address is required")
}

func TestNewProfiler_Enabled_MissingApplicationName(t *testing.T) {
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "",
	}, zaptest.NewLogger(t))

	require.Error(t, err)
	assert.Nil(t, profiler)
	assert.Contains(t, err.Error(), "application name is required")
}

func TestNewProfiler_EnabledIntegration(t *testing.T) {
	// Needs a running Pyroscope server.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             true,
		ServerAddress:       "http://localhost:4040",
		ApplicationName:     "boutique-backend",
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, profiler)

	assert.True(t, profiler.IsEnabled())

	assert.NoError(t, profiler.Stop())
}

func TestProfiler_StopIdempotent(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{Enabled: false})

	assert.NoError(t, profiler.Stop())
	assert.NoError(t, profiler.Stop())
	assert.NoError(t, profiler.Stop())
}

func TestProfiler_StopConcurrent(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{Enabled: false})

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = profiler.Stop()
		}()
	}
	wg.Wait()
}

func TestProfiler_GetConfigReturnsACopy(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "boutique-backend",
	})

	gotCfg := profiler.GetConfig()
	originalName := gotCfg.ApplicationName

	gotCfg2 := profiler.GetConfig()
	assert.Equal(t, originalName, gotCfg2.ApplicationName)
	assert.Equal(t, "boutique-backend", gotCfg2.ApplicationName)
}

func TestProfiler_ProfileTypesConfiguration(t *testing.T) {
	// Enabled stays false throughout so no Pyroscope server is needed; the
	// point is that every profile-type combination constructs cleanly.
	tests := []struct {
		name   string
		config telemetry.ProfilerConfig
	}{
		{
			name: "all_profiles_disabled",
			config: telemetry.ProfilerConfig{
				Enabled:         false,
				ServerAddress:   "http://localhost:4040",
				ApplicationName: "boutique",
			},
		},
		{
			name: "cpu_only",
			config: telemetry.ProfilerConfig{
				Enabled:         false,
				ServerAddress:   "http://localhost:4040",
				ApplicationName: "boutique",
				ProfileCPU:      true,
			},
		},
		{
			name: "memory_only",
			config: telemetry.ProfilerConfig{
				Enabled:             false,
				ServerAddress:       "http://localhost:4040",
				ApplicationName:     "boutique",
				ProfileAllocObjects: true,
				ProfileAllocSpace:   true,
			},
		},
		{
			name: "mutex_profiling",
			config: telemetry.ProfilerConfig{
				Enabled:              false,
				ServerAddress:        "http://localhost:4040",
				ApplicationName:      "boutique",
				ProfileMutexCount:    true,
				ProfileMutexDuration: true,
				MutexProfileFraction: 10,
			},
		},
		{
			name: "block_profiling",
			config: telemetry.ProfilerConfig{
				Enabled:              false,
				ServerAddress:        "http://localhost:4040",
				ApplicationName:      "boutique",
				ProfileBlockCount:    true,
				ProfileBlockDuration: true,
				BlockProfileRate:     10,
			},
		},
		{
			name: "all_profiles_enabled",
			config: telemetry.ProfilerConfig{
				Enabled:              false,
				ServerAddress:        "http://localhost:4040",
				ApplicationName:      "boutique",
				ProfileCPU:           true,
				ProfileAllocObjects:  true,
				ProfileAllocSpace:    true,
				ProfileInuseObjects:  true,
				ProfileInuseSpace:    true,
				ProfileGoroutines:    true,
				ProfileMutexCount:    true,
				ProfileMutexDuration: true,
				ProfileBlockCount:    true,
				ProfileBlockDuration: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiler := newDisabledProfiler(t, tt.config)

			assert.False(t, profiler.IsEnabled())

			assert.NoError(t, profiler.Stop())
		})
	}
}

func TestProfiler_DisableGCRuns(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "boutique-backend",
		DisableGCRuns:   true,
	})

	assert.True(t, profiler.GetConfig().DisableGCRuns)

	assert.NoError(t, profiler.Stop())
}

func TestProfiler_BasicAuth(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{
		Enabled:           false,
		ServerAddress:     "http://localhost:4040",
		ApplicationName:   "boutique-backend",
		BasicAuthUser:     "user",
		BasicAuthPassword: "password",
	})

	gotCfg := profiler.GetConfig()
	assert.Equal(t, "user", gotCfg.BasicAuthUser)
	assert.Equal(t, "password", gotCfg.BasicAuthPassword)

	assert.NoError(t, profiler.Stop())
}

func TestProfiler_RuntimeSettings_MutexProfiling(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{
		Enabled:              false,
		ServerAddress:        "http://localhost:4040",
		ApplicationName:      "boutique-backend",
		ProfileMutexCount:    true,
		ProfileMutexDuration: true,
		MutexProfileFraction: 10,
	})

	gotCfg := profiler.GetConfig()
	assert.True(t, gotCfg.ProfileMutexCount)
	assert.True(t, gotCfg.ProfileMutexDuration)
	assert.Equal(t, 10, gotCfg.MutexProfileFraction)

	assert.NoError(t, profiler.Stop())
}

func TestProfiler_RuntimeSettings_BlockProfiling(t *testing.T) {
	profiler := newDisabledProfiler(t, telemetry.ProfilerConfig{
		Enabled:              false,
		ServerAddress:        "http://localhost:4040",
		ApplicationName:      "boutique-backend",
		ProfileBlockCount:    true,
		ProfileBlockDuration: true,
		BlockProfileRate:     10,
	})

	gotCfg := profiler.GetConfig()
	assert.True(t, gotCfg.ProfileBlockCount)
	assert.True(t, gotCfg.ProfileBlockDuration)
	assert.Equal(t, 10, gotCfg.BlockProfileRate)

	assert.NoError(t, profiler.Stop())
}
