package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultWorkerPort, cfg.WorkerPort)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, 40.0, cfg.Scoring.WeatherWeight)
	assert.Equal(t, 0.8, cfg.Diversity.OverlapThreshold)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("LOOKBOOK_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkerPort, cfg.WorkerPort)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	settings := `
worker_port: 9000
store_backend: sqlite
wet_safety:
  absorbent_cutoff_medium: 0.5
  absorbent_cutoff_high: 0.4
  technical_dominant_share: 0.5
  technical_backing_share: 0.3
`
	require.NoError(t, os.WriteFile(path, []byte(settings), 0600))
	t.Setenv("LOOKBOOK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.WorkerPort)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, 0.5, cfg.WetSafety.AbsorbentCutoffMedium)
	// Blocks the file never mentions stay at tuned defaults.
	assert.Equal(t, 0.15, cfg.Rerank.RepeatPenalty)
	assert.Equal(t, 4, cfg.Diversity.HistoryWindow)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOOKBOOK_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
	t.Setenv("LOOKBOOK_WORKER_PORT", "8123")
	t.Setenv("LOOKBOOK_STORE_BACKEND", "postgres")
	t.Setenv("LOOKBOOK_POSTGRES_DSN", "postgres://localhost/lookbook")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8123, cfg.WorkerPort)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "postgres://localhost/lookbook", cfg.PostgresDSN)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("worker_port: [broken"), 0600))
	t.Setenv("LOOKBOOK_CONFIG", path)

	_, err := Load()
	assert.Error(t, err)
}
