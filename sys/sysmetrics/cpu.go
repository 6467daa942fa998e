package sysmetrics

import (
	"context"
	"strconv"
	"time"

	"github.com/qtraffics/qtmon/enhancements/contextlib"
	"github.com/qtraffics/qtmon/ex"
	"github.com/qtraffics/qtmon/values"
)

// CPU states in the order the kernel reports them.
const (
	TickUser = iota
	TickNice
	TickSystem
	TickIdle
	TickIOWait
	TickIRQ
	TickSoftIRQ
	TickSteal

	tickStates
)

// Ticks holds cumulative time spent in each CPU state since boot.
type Ticks [tickStates]uint64

// Delta returns the per-state advance from prev to t. A counter that went
// backwards counts as zero.
func (t Ticks) Delta(prev Ticks) Ticks {
	var d Ticks
	for i := range t {
		d[i] = sub(t[i], prev[i])
	}
	return d
}

func (t Ticks) Total() uint64 {
	var total uint64
	for _, v := range t {
		total += v
	}
	return total
}

const (
	DefaultSampleBaseline = 300 * time.Millisecond
	DefaultSampleStep     = 25 * time.Millisecond
	DefaultSampleCap      = time.Second
)

type SamplerConfig struct {
	// Baseline is the first wait between the two samples.
	Baseline time.Duration `yaml:"baseline"`
	// Step is added while the counters have not moved, until Cap.
	Step time.Duration `yaml:"step"`
	Cap  time.Duration `yaml:"cap"`
}

func (c SamplerConfig) normalize() SamplerConfig {
	c.Baseline = values.UseDefault(max(c.Baseline, 0), DefaultSampleBaseline)
	c.Step = values.UseDefault(max(c.Step, 0), DefaultSampleStep)
	c.Cap = max(values.UseDefault(c.Cap, DefaultSampleCap), c.Baseline)
	return c
}

// Load is the CPU utilization between two tick samples.
type Load struct {
	Used float64
	Idle float64

	// Degraded is set when the counters did not advance at all, in which
	// case Used and Idle are zero.
	Degraded bool
	Waited   time.Duration
	Retries  int
}

func ComputeLoad(prev, cur Ticks) Load {
	delta := cur.Delta(prev)
	total := delta.Total()
	if total == 0 {
		return Load{Degraded: true}
	}
	percent := func(v uint64) float64 {
		return values.UseBetween(100*float64(v)/float64(total), 0, 100)
	}
	return Load{
		Used: percent(delta[TickUser] + delta[TickSystem]),
		Idle: percent(delta[TickIdle]),
	}
}

// Sampler measures CPU utilization by reading the tick counters twice. It
// blocks the caller for Baseline up to Cap.
type Sampler struct {
	source TickSource
	config SamplerConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewSampler(source TickSource, config SamplerConfig) *Sampler {
	return &Sampler{
		source: source,
		config: config.normalize(),
		sleep:  contextlib.Sleep,
	}
}

func (s *Sampler) Config() SamplerConfig {
	return s.config
}

// Sample returns the load over one sampling window. A context cancelled
// during the baseline wait aborts the sample; cancelled while waiting for the
// counters to move, it settles for the latest reading.
func (s *Sampler) Sample(ctx context.Context) (Load, error) {
	prev, err := s.source.CPUTicks(ctx)
	if err != nil {
		return Load{}, ex.Cause(err, "read ticks")
	}

	waited := s.config.Baseline
	if err = s.sleep(ctx, waited); err != nil {
		return Load{}, ex.Cause(err, "baseline wait")
	}
	cur, err := s.source.CPUTicks(ctx)
	if err != nil {
		return Load{}, ex.Cause(err, "read ticks")
	}

	var retries int
	for cur == prev && waited < s.config.Cap {
		if s.sleep(ctx, s.config.Step) != nil {
			break
		}
		waited += s.config.Step
		retries++
		if cur, err = s.source.CPUTicks(ctx); err != nil {
			return Load{}, ex.Cause(err, "read ticks")
		}
	}

	load := ComputeLoad(prev, cur)
	load.Waited = waited
	load.Retries = retries
	return load, nil
}

func cpuSection(info CPUInfo, load Load) Section {
	section := Section{
		FieldName:       info.Name,
		FieldPackage:    strconv.Itoa(info.Packages) + " physical CPU package(s)",
		FieldCore:       strconv.Itoa(info.PhysicalCores) + " physical cores",
		FieldCoreNumber: info.PhysicalCores,
		FieldLogic:      strconv.Itoa(info.LogicalCores) + " logical CPUs",
		FieldUsed:       FormatPercent(load.Used),
		FieldIdle:       FormatPercent(load.Idle),
	}
	if load.Degraded {
		section[FieldDegraded] = true
	}
	return section
}

func unknownCPUSection(load Load) Section {
	section := cpuSection(CPUInfo{}, load)
	section[FieldName] = Unknown
	section[FieldPackage] = Unknown
	section[FieldCore] = Unknown
	section[FieldLogic] = Unknown
	return section
}
