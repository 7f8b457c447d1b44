package config

import (
	"flag"
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/jigsnap/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	fs := flag.NewFlagSet("jigsnap", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	require.NoError(t, err)

	assert.Equal(t, "config.json", filepath.Base(cfg.ConfigPath))
	assert.Equal(t, "results.json", filepath.Base(cfg.ResultsPath))
	assert.Zero(t, cfg.Seed)
	assert.Zero(t, cfg.Threshold)
	assert.False(t, cfg.Debug)
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("JIGSNAP_CONFIG", "/tmp/jig.json")
	t.Setenv("JIGSNAP_SEED", "42")
	t.Setenv("JIGSNAP_THRESHOLD", "0.05")
	t.Setenv("JIGSNAP_DEBUG", "true")
	fs := flag.NewFlagSet("jigsnap", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/jig.json", cfg.ConfigPath)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 0.05, cfg.Threshold)
	assert.True(t, cfg.Debug)
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("JIGSNAP_SEED", "42")
	fs := flag.NewFlagSet("jigsnap", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, []string{"-seed", "7", "-no-scramble", "-images", "/pics"})
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.True(t, cfg.NoScramble)
	assert.Equal(t, "/pics", cfg.ImageDir)
}

func TestParseConfigBadEnv(t *testing.T) {
	t.Setenv("JIGSNAP_THRESHOLD", "close")
	fs := flag.NewFlagSet("jigsnap", flag.ContinueOnError)

	_, err := ParseConfig(fs, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}

func TestApply(t *testing.T) {
	app := model.DefaultAppConfig()
	Config{}.Apply(&app)
	assert.Equal(t, model.DefaultAppConfig(), app, "zero config changes nothing")

	Config{Threshold: 0.1, ImageDir: "/pics", NoScramble: true}.Apply(&app)
	assert.Equal(t, 0.1, app.SnapThreshold)
	assert.Equal(t, "/pics", app.ImageDir)
	assert.False(t, app.ScrambleOnStart)
}

func TestApplyIgnoresNonFiniteThreshold(t *testing.T) {
	app := model.DefaultAppConfig()
	Config{Threshold: math.Inf(1)}.Apply(&app)
	Config{Threshold: math.NaN()}.Apply(&app)
	assert.Equal(t, model.DefaultSnapThreshold, app.SnapThreshold)
}
