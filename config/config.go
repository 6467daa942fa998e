package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/log/loghandler"
	"github.com/qtraffics/qtmon/sys/sysmetrics"
	"github.com/qtraffics/qtmon/sys/sysvars"
	"github.com/qtraffics/qtmon/values"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListen         = "127.0.0.1:8000"
	DefaultCollectTimeout = 5 * time.Second
	DefaultCacheTTL       = 2 * time.Second
	DefaultStreamQueue    = 4

	DiskPolicyAuto      = "auto"
	DiskPolicySumAll    = "sum-all"
	DiskPolicyFirstOnly = "first-only"
)

type Config struct {
	Listen string `yaml:"listen"`
	// CollectTimeout bounds a collection made on behalf of a request.
	CollectTimeout time.Duration `yaml:"collect_timeout"`
	// DiskPolicy is auto, sum-all or first-only.
	DiskPolicy string `yaml:"disk_policy"`

	Cache   CacheConfig              `yaml:"cache"`
	Stream  StreamConfig             `yaml:"stream"`
	Sampler sysmetrics.SamplerConfig `yaml:"sampler"`
	Log     loghandler.BuildOption   `yaml:"log"`
}

type CacheConfig struct {
	// TTL of the cached snapshot served by GET /api/monitor. Zero disables
	// caching.
	TTL time.Duration `yaml:"ttl"`
}

type StreamConfig struct {
	Interval time.Duration `yaml:"interval"`
	Queue    int           `yaml:"queue"`
}

func Default() *Config {
	return &Config{
		Listen:         DefaultListen,
		CollectTimeout: DefaultCollectTimeout,
		DiskPolicy:     DiskPolicyAuto,
		Cache:          CacheConfig{TTL: DefaultCacheTTL},
		Stream: StreamConfig{
			Interval: sysmetrics.DefaultWatchInterval,
			Queue:    DefaultStreamQueue,
		},
		Sampler: sysmetrics.SamplerConfig{
			Baseline: sysmetrics.DefaultSampleBaseline,
			Step:     sysmetrics.DefaultSampleStep,
			Cap:      sysmetrics.DefaultSampleCap,
		},
		Log: loghandler.BuildOption{
			Output: "stderr",
			Level:  log.LevelInfo,
			Time:   true,
			Tag:    "qtmon",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, ex.Cause(err, "read config")
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, ex.Cause(err, "parse config")
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fills zero values with defaults and rejects unknown settings.
func (c *Config) Validate() error {
	c.Listen = values.UseDefault(c.Listen, DefaultListen)
	c.CollectTimeout = values.UseDefault(c.CollectTimeout, DefaultCollectTimeout)
	c.DiskPolicy = values.UseDefault(c.DiskPolicy, DiskPolicyAuto)
	c.Stream.Interval = values.UseDefault(c.Stream.Interval, sysmetrics.DefaultWatchInterval)
	c.Stream.Queue = values.UseDefault(c.Stream.Queue, DefaultStreamQueue)

	if c.CollectTimeout < 0 || c.Stream.Interval < 0 || c.Cache.TTL < 0 {
		return ex.New("config: durations must not be negative")
	}
	if _, err := c.ResolveDiskPolicy(sysvars.CurrentPlatform); err != nil {
		return err
	}
	return nil
}

// ResolveDiskPolicy turns the disk_policy setting into a policy; auto picks
// the one matching platform.
func (c *Config) ResolveDiskPolicy(platform sysvars.Platform) (sysmetrics.DiskPolicy, error) {
	switch c.DiskPolicy {
	case "", DiskPolicyAuto:
		return sysmetrics.DiskPolicyFor(platform), nil
	case DiskPolicySumAll:
		return sysmetrics.DiskSumAll, nil
	case DiskPolicyFirstOnly:
		return sysmetrics.DiskFirstOnly, nil
	default:
		return 0, ex.New("config: unknown disk_policy ", c.DiskPolicy)
	}
}
