package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/sys/sysmetrics"
	"github.com/qtraffics/qtmon/sys/sysvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qtmon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: 0.0.0.0:9100
disk_policy: sum-all
cache:
  ttl: 500ms
stream:
  interval: 10s
sampler:
  baseline: 200ms
  cap: 2s
log:
  level: debug
  output: stdout
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9100", cfg.Listen)
	assert.Equal(t, 500*time.Millisecond, cfg.Cache.TTL)
	assert.Equal(t, 10*time.Second, cfg.Stream.Interval)
	assert.Equal(t, DefaultStreamQueue, cfg.Stream.Queue)
	assert.Equal(t, 200*time.Millisecond, cfg.Sampler.Baseline)
	assert.Equal(t, sysmetrics.DefaultSampleStep, cfg.Sampler.Step)
	assert.Equal(t, 2*time.Second, cfg.Sampler.Cap)
	assert.Equal(t, log.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, "qtmon", cfg.Log.Tag)

	policy, err := cfg.ResolveDiskPolicy(sysvars.PlatformLinux)
	require.NoError(t, err)
	assert.Equal(t, sysmetrics.DiskSumAll, policy)
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(writeConfig(t, "disk_policy: everything\n"))
	assert.ErrorContains(t, err, "unknown disk_policy everything")

	_, err = Load(writeConfig(t, "cache: [1, 2]\n"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "stream:\n  interval: -1s\n"))
	assert.Error(t, err)
}

func TestResolveDiskPolicyAuto(t *testing.T) {
	cfg := Default()
	policy, err := cfg.ResolveDiskPolicy(sysvars.PlatformWindows)
	require.NoError(t, err)
	assert.Equal(t, sysmetrics.DiskSumAll, policy)

	policy, err = cfg.ResolveDiskPolicy(sysvars.PlatformDarwin)
	require.NoError(t, err)
	assert.Equal(t, sysmetrics.DiskFirstOnly, policy)
}

func TestFlagsApply(t *testing.T) {
	cfg := Default()
	cfg.Listen = "10.0.0.1:8000"

	flags := NewFlags("qtmon")
	require.NoError(t, flags.Parse([]string{"--once", "-d", "--interval", "1s"}))
	flags.Apply(cfg)

	assert.True(t, flags.Once)
	assert.Equal(t, "10.0.0.1:8000", cfg.Listen, "listen was not given on the command line")
	assert.Equal(t, time.Second, cfg.Stream.Interval)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, log.LevelDebug, cfg.Log.Level)

	flags = NewFlags("qtmon")
	require.NoError(t, flags.Parse([]string{"--listen", ":9000", "--config", "/etc/qtmon.yaml"}))
	flags.Apply(cfg)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "/etc/qtmon.yaml", flags.ConfigPath)
}
