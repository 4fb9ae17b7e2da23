package config

import (
	"testing"

	"proteoportal/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "DATA_DIR", "LOAD_CONCURRENCY", "INFER_NUMBERS", "FOREST_ROW_LIMIT", "HEATMAP_TOP_N", "LOG_LEVEL", "LOG_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "public/data", cfg.Data.Dir)
	assert.Equal(t, 4, cfg.Data.LoadConcurrency)
	assert.True(t, cfg.Data.InferNumbers)
	assert.Equal(t, 20, cfg.Visualization.ForestRowLimit)
	assert.Equal(t, 12, cfg.Visualization.HeatmapTopN)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/srv/results")
	t.Setenv("LOAD_CONCURRENCY", "8")
	t.Setenv("INFER_NUMBERS", "false")
	t.Setenv("HEATMAP_TOP_N", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/results", cfg.Data.Dir)
	assert.Equal(t, 8, cfg.Data.LoadConcurrency)
	assert.False(t, cfg.Data.InferNumbers)
	assert.Equal(t, 12, cfg.Visualization.HeatmapTopN, "unparseable values fall back to the default")
}

func TestLoadRejectsInvalidConcurrency(t *testing.T) {
	t.Setenv("LOAD_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
