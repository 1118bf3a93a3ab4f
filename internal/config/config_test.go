package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rick2x/fieldprofiler/domain/profile"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, ".", cfg.Source.Dir)
	assert.Equal(t, profile.DefaultConfig().TopValueLimit, cfg.Analysis.TopValueLimit)
	assert.True(t, cfg.Analysis.NumericShape)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LAYER_DIR", "/data/layers")
	t.Setenv("TOP_VALUE_LIMIT", "10")
	t.Setenv("NUMERIC_SHAPE", "false")
	t.Setenv("PRECISION", "4")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/data/layers", cfg.Source.Dir)
	assert.Equal(t, 10, cfg.Analysis.TopValueLimit)
	assert.Equal(t, 4, cfg.Analysis.Precision)
	assert.False(t, cfg.Analysis.NumericShape)
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PORT must be numeric")
}

func TestAnalysisOverridesNormalize(t *testing.T) {
	t.Setenv("TOP_VALUE_LIMIT", "-3")
	t.Setenv("PRECISION", "99")

	cfg, err := Load()
	assert.NoError(t, err)
	// Out-of-range overrides clamp back to sane values.
	assert.Greater(t, cfg.Analysis.TopValueLimit, 0)
	assert.LessOrEqual(t, cfg.Analysis.Precision, 10)
}
