package sysmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/log"
	"github.com/qtraffics/qtmon/sys/sysvars"
	"github.com/qtraffics/qtmon/values"
)

// Source produces snapshots. *Collector is the host implementation.
type Source interface {
	Collect(ctx context.Context) *Snapshot
}

var _ Source = (*Collector)(nil)

type Option func(c *Collector)

func WithLogger(logger log.Logger) Option {
	return func(c *Collector) {
		c.logger = logger
	}
}

func WithProbe(probe Probe) Option {
	return func(c *Collector) {
		c.probe = probe
	}
}

func WithSampler(config SamplerConfig) Option {
	return func(c *Collector) {
		c.samplerConfig = config
	}
}

func WithDiskPolicy(policy DiskPolicy) Option {
	return func(c *Collector) {
		c.diskPolicy = policy
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		c.now = now
	}
}

type Collector struct {
	logger        log.Logger
	probe         Probe
	sampler       *Sampler
	samplerConfig SamplerConfig
	diskPolicy    DiskPolicy
	now           func() time.Time
}

// NewCollector builds a collector over the running host. The disk policy
// defaults to the one for sysvars.CurrentPlatform.
func NewCollector(options ...Option) *Collector {
	c := &Collector{
		diskPolicy: DiskPolicyFor(sysvars.CurrentPlatform),
	}
	for _, option := range options {
		option(c)
	}
	c.logger = values.UseDefaultNil(c.logger, log.Default())
	c.logger = log.With(c.logger, log.NewMetadata("component", "sysmetrics"))
	c.now = values.UseDefaultNil(c.now, time.Now)
	if c.probe == nil {
		c.probe = NewProbe(c.logger)
	}
	c.sampler = NewSampler(c.probe, c.samplerConfig)
	return c
}

type sectionFunc func(ctx context.Context) (Section, error)

// Collect gathers one snapshot. It never fails: a section that cannot be
// read is left empty and its error is logged and kept in Snapshot.Errors.
func (c *Collector) Collect(ctx context.Context) *Snapshot {
	if ctx == nil {
		ctx = context.Background()
	}
	start := c.now()
	snap := &Snapshot{CollectedAt: start}

	sections := []struct {
		key string
		fn  sectionFunc
	}{
		{KeySys, c.collectSystem},
		{KeyCPU, c.collectCPU},
		{KeyMemory, c.collectMemory},
		{KeySwap, c.collectSwap},
		{KeyDisk, c.collectDisk},
	}
	for _, s := range sections {
		section, err := c.run(ctx, s.fn)
		snap.setSection(s.key, section)
		if err != nil {
			if snap.Errors == nil {
				snap.Errors = make(map[string]string)
			}
			snap.Errors[s.key] = err.Error()
			c.logger.Warn("collect section failed", log.AttrSection(s.key), log.AttrError(err))
		}
	}

	end := c.now()
	snap.Time = FormatClock(end)
	snap.Took = end.Sub(start)
	c.logger.Debug("snapshot collected", log.AttrDuration(snap.Took))
	return snap
}

func (c *Collector) run(ctx context.Context, fn sectionFunc) (section Section, err error) {
	defer func() {
		if r := recover(); r != nil {
			section, err = nil, ex.New(fmt.Sprintf("panic: %v", r))
		}
		if section == nil {
			section = Section{}
		}
	}()
	return fn(ctx)
}

func (c *Collector) collectSystem(ctx context.Context) (Section, error) {
	return systemSection(ctx, c.probe, c.now())
}

func (c *Collector) collectCPU(ctx context.Context) (Section, error) {
	info, infoErr := c.probe.CPUInfo(ctx)
	load, err := c.sampler.Sample(ctx)
	if err != nil {
		return nil, err
	}
	if load.Degraded {
		c.logger.Warn("cpu ticks did not advance",
			log.AttrSection(KeyCPU), log.AttrDuration(load.Waited))
	}
	if infoErr != nil {
		return unknownCPUSection(load), infoErr
	}
	return cpuSection(info, load), nil
}

func (c *Collector) collectMemory(ctx context.Context) (Section, error) {
	stat, err := c.probe.VirtualMemory(ctx)
	if err != nil {
		return nil, err
	}
	return memorySection(stat), nil
}

func (c *Collector) collectSwap(ctx context.Context) (Section, error) {
	stat, err := c.probe.SwapMemory(ctx)
	if err != nil {
		return nil, err
	}
	return swapSection(stat), nil
}

func (c *Collector) collectDisk(ctx context.Context) (Section, error) {
	stores, err := c.probe.FileStores(ctx)
	if err != nil {
		return nil, err
	}
	return diskSection(AggregateDisk(stores, c.diskPolicy)), nil
}
