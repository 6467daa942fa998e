package config

import (
	"time"

	"github.com/qtraffics/qtmon/log"

	"github.com/spf13/pflag"
)

// Flags are the command line settings. Flags given explicitly win over the
// config file.
type Flags struct {
	ConfigPath string
	Once       bool
	Debug      bool
	Listen     string
	Interval   time.Duration

	set *pflag.FlagSet
}

func NewFlags(name string) *Flags {
	f := &Flags{set: pflag.NewFlagSet(name, pflag.ContinueOnError)}
	f.set.StringVarP(&f.ConfigPath, "config", "c", "qtmon.yaml", "path to the YAML config file")
	f.set.BoolVar(&f.Once, "once", false, "print one snapshot as JSON and exit")
	f.set.BoolVarP(&f.Debug, "debug", "d", false, "log at debug level with callers")
	f.set.StringVarP(&f.Listen, "listen", "l", DefaultListen, "HTTP listen address")
	f.set.DurationVar(&f.Interval, "interval", 0, "snapshot stream interval")
	return f
}

func (f *Flags) Parse(args []string) error {
	return f.set.Parse(args)
}

func (f *Flags) Usage() string {
	return f.set.FlagUsages()
}

// Apply copies explicitly set flags into c.
func (f *Flags) Apply(c *Config) {
	if f.set.Changed("listen") {
		c.Listen = f.Listen
	}
	if f.set.Changed("interval") && f.Interval > 0 {
		c.Stream.Interval = f.Interval
	}
	if f.Debug {
		c.Log.Debug = true
		c.Log.Level = log.LevelDebug
	}
}
