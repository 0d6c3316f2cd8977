package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-hydrograph/pkg/simulation"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hydrograph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "data/v1", cfg.DatasetDir())
	assert.Equal(t, "build/v1/graph.bin", cfg.ArtifactKey())
	assert.Equal(t, "build/v1/graph.dot", cfg.BuildKey(cfg.Build.DOT))
	assert.Equal(t, "reports/v1/validation_report.json", cfg.ReportKey())
	assert.Equal(t, "output/v1", cfg.OutputPrefix())
	assert.Equal(t, simulation.DefaultTimeline(), cfg.Timeline())
	assert.Equal(t, simulation.DefaultParams(), cfg.Params())
}

func TestLoad_File(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvVersion, "")
	path := writeFile(t, `
version: v2
simulation:
  root: BreakTank1
  seed: 7
  workers: 8
  start: 2026-03-01T00:00:00Z
  interval: 30m
  duration: 12h
  leak_offset: 150
validation:
  strict: true
store:
  backend: s3
  s3:
    bucket: hydro
    region: eu-west-1
    use_path_style: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "v2", cfg.Version)
	assert.Equal(t, "BreakTank1", cfg.Simulation.Root)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, 30*time.Minute, cfg.Simulation.Interval)
	assert.Equal(t, 12*time.Hour, cfg.Simulation.Duration)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), cfg.Simulation.Start.UTC())
	assert.True(t, cfg.Validation.Strict)
	assert.Equal(t, 150.0, cfg.Params().LeakOffset)
	assert.Equal(t, 500.0, cfg.Params().MisuseOffset, "unset fields keep defaults")
	assert.Equal(t, "build/v2/graph.bin", cfg.ArtifactKey())

	s3 := cfg.S3()
	assert.Equal(t, "hydro", s3.Bucket)
	assert.Equal(t, "eu-west-1", s3.Region)
	assert.True(t, s3.UsePathStyle)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvVersion, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Simulation.Root, cfg.Simulation.Root)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "simulation: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvVersion, "v3")

	cfg, err := Load(writeFile(t, "version: v2\n"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "v3", cfg.Version)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad version", func(c *Config) { c.Version = "../v1" }, "version"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "ftp" }, "store.backend"},
		{"s3 without bucket", func(c *Config) { c.Store.Backend = "s3" }, "store.s3.bucket"},
		{"root with space", func(c *Config) { c.Simulation.Root = "Roof Tank" }, "simulation.root"},
		{"no workers", func(c *Config) { c.Simulation.Workers = 0 }, "simulation.workers"},
		{"ragged duration", func(c *Config) { c.Simulation.Duration = 25 * time.Minute }, "simulation.duration"},
		{"noise inverted", func(c *Config) { c.Simulation.NoiseMin = 1.5 }, "simulation.noise_min"},
		{"positive downhill limit", func(c *Config) { c.Validation.DownhillLimit = 3 }, "validation.downhill_limit"},
		{"bad log level", func(c *Config) { c.Logging.Level = "LOUD" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), "error %q should mention %q", err, tt.want)
		})
	}
}
