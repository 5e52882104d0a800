package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithMissingPathAppliesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Order)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "memory", cfg.ModelStore.Backend)
	assert.Equal(t, "memory", cfg.Transcript.Backend)
	assert.Equal(t, 3600, cfg.Cache.TTLSeconds)
	assert.Equal(t, "megahal.ingest", cfg.Kafka.Topic)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadWithEmptyPathStillAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Order)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("order: 3\nmodelStore:\n  backend: s3\n  s3:\n    bucket: snapshots\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Order)
	assert.Equal(t, "s3", cfg.ModelStore.Backend)
	assert.Equal(t, "snapshots", cfg.ModelStore.S3.Bucket)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("order: 3\n"), 0o644))

	t.Setenv("MEGAHAL_ORDER", "7")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Order)
}

func TestLoadTranscriptBackendDefaultsFromDSN(t *testing.T) {
	t.Setenv("MEGAHAL_TRANSCRIPT_DSN", "postgres://example/db")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Transcript.Backend)
}

func TestLoadTelemetryEnabledWhenEndpointSet(t *testing.T) {
	t.Setenv("MEGAHAL_OTEL_ENDPOINT", "localhost:4317")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.Endpoint)
}

func TestTruthyRecognizesCommonForms(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes"} {
		assert.True(t, truthy(v), v)
	}
	assert.False(t, truthy("false"))
	assert.False(t, truthy(""))
}

func TestFirstNonEmptyReturnsFirstSetValue(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
