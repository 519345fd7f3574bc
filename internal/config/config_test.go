package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConfigDefaults(t *testing.T) {
	// Run from a temp dir so no developer config file leaks in.
	t.Chdir(t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, ",", cfg.CSV.Delimiter)
	assert.InDelta(t, 0.5, cfg.Layout.RowTolerance, 1e-9)
	assert.InDelta(t, 1.0, cfg.Layout.CellGap, 1e-9)
	assert.Equal(t, 4, cfg.Layout.MaxParallelPages)
	assert.Equal(t, "portfolio.db", cfg.Store.Path)
	assert.Equal(t, 3, cfg.Importer.FuzzyThreshold)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	cfg.Log.Level = "verbose"
	assert.Error(t, validateConfig(cfg))
	cfg.Log.Level = "debug"
	assert.NoError(t, validateConfig(cfg))

	cfg.Layout.RowTolerance = 0
	assert.Error(t, validateConfig(cfg))
	cfg.Layout.RowTolerance = 0.5

	cfg.CSV.Delimiter = ";;"
	assert.Error(t, validateConfig(cfg))
	cfg.CSV.Delimiter = ";"

	cfg.Layout.MaxParallelPages = 0
	assert.Error(t, validateConfig(cfg))
}

func TestConfigureLoggingFromConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"
	logger := ConfigureLoggingFromConfig(cfg)
	assert.Equal(t, "debug", logger.GetLevel().String())
}
