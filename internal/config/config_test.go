package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "talentflow.db", cfg.DB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0.1, cfg.ErrorRate)
	assert.Equal(t, 200*time.Millisecond, cfg.MinLatency)
	assert.Equal(t, 1200*time.Millisecond, cfg.MaxLatency)

	rates := cfg.ErrorRates()
	assert.Equal(t, 0.05, rates.Update)
	assert.Equal(t, 0.2, rates.Reorder)
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("TALENTFLOW_DB", "/tmp/tf.db")
	t.Setenv("TALENTFLOW_SEED", "42")
	t.Setenv("TALENTFLOW_REORDER_ERROR_RATE", "1")
	t.Setenv("TALENTFLOW_MAX_LATENCY", "2s")
	t.Setenv("TALENTFLOW_LOG_LEVEL", "debug")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tf.db", cfg.DB)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 1.0, cfg.ErrorRates().Reorder)
	assert.Equal(t, 2*time.Second, cfg.SimulatorOptions().MaxLatency)
	assert.Equal(t, zap.DebugLevel, cfg.Level().Level())
}

func TestNew_Invalid(t *testing.T) {
	tests := map[string]string{
		"TALENTFLOW_ERROR_RATE":  "1.5",
		"TALENTFLOW_LOG_LEVEL":   "verbose",
		"TALENTFLOW_MAX_LATENCY": "100ms",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestNew_Unparseable(t *testing.T) {
	t.Setenv("TALENTFLOW_MIN_LATENCY", "soon")
	_, err := New()
	assert.Error(t, err)
}
