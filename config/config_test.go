package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortvid-pipeline/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "video:\n  orientation: landscape\n"))
	require.NoError(t, err)

	assert.Equal(t, types.Landscape, cfg.Video.Orientation)
	assert.Equal(t, 25, cfg.Video.FPS)
	assert.Equal(t, "veryfast", cfg.Video.Preset)
	assert.Equal(t, 25, cfg.Footage.PageSize)
	assert.Equal(t, 3.0, cfg.Footage.MinDurationSec)
	assert.Equal(t, 20.0, cfg.Footage.MaxDurationSec)
	assert.Equal(t, "base", cfg.Captions.WhisperModel)
}

func TestLoadEmptyOrientationDefaultsToPortrait(t *testing.T) {
	cfg, err := Load(writeConfig(t, "paths:\n  output: out\n"))
	require.NoError(t, err)
	assert.Equal(t, types.Portrait, cfg.Video.Orientation)
}

func TestLoadRejectsBadOrientation(t *testing.T) {
	_, err := Load(writeConfig(t, "video:\n  orientation: diagonal\n"))
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
