package sysmetrics

import (
	"context"
	"time"
)

type fakeProbe struct {
	host    HostInfo
	hostErr error

	cpu    CPUInfo
	cpuErr error

	ticks     []Ticks
	tickErr   error
	tickCalls int

	mem    MemoryStat
	memErr error

	swap    SwapStat
	swapErr error

	stores      []FileStore
	storesErr   error
	storesPanic bool

	started  time.Time
	startErr error

	ip    string
	ipErr error
}

func (f *fakeProbe) HostInfo(context.Context) (HostInfo, error) { return f.host, f.hostErr }
func (f *fakeProbe) CPUInfo(context.Context) (CPUInfo, error)   { return f.cpu, f.cpuErr }

func (f *fakeProbe) CPUTicks(context.Context) (Ticks, error) {
	if f.tickErr != nil {
		return Ticks{}, f.tickErr
	}
	i := min(f.tickCalls, len(f.ticks)-1)
	f.tickCalls++
	return f.ticks[i], nil
}

func (f *fakeProbe) VirtualMemory(context.Context) (MemoryStat, error) { return f.mem, f.memErr }
func (f *fakeProbe) SwapMemory(context.Context) (SwapStat, error)      { return f.swap, f.swapErr }

func (f *fakeProbe) FileStores(context.Context) ([]FileStore, error) {
	if f.storesPanic {
		panic("statfs exploded")
	}
	return f.stores, f.storesErr
}

func (f *fakeProbe) ProcessStart(context.Context) (time.Time, error) { return f.started, f.startErr }
func (f *fakeProbe) LocalIP(context.Context) (string, error)         { return f.ip, f.ipErr }

// sleepRecorder stands in for contextlib.Sleep. failAt makes the n-th call
// (1-based) return context.Canceled.
type sleepRecorder struct {
	calls  []time.Duration
	failAt int
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	if r.failAt == len(r.calls) {
		return context.Canceled
	}
	return ctx.Err()
}

func (r *sleepRecorder) total() time.Duration {
	var total time.Duration
	for _, d := range r.calls {
		total += d
	}
	return total
}

var testNow = time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)

func ticksOf(user, nice, system, idle, iowait uint64) Ticks {
	var t Ticks
	t[TickUser] = user
	t[TickNice] = nice
	t[TickSystem] = system
	t[TickIdle] = idle
	t[TickIOWait] = iowait
	return t
}

func healthyProbe() *fakeProbe {
	return &fakeProbe{
		host: HostInfo{Platform: "ubuntu", PlatformVersion: "24.04", KernelVersion: "6.8.0", KernelArch: "x86_64"},
		cpu:  CPUInfo{Name: "AMD EPYC 7B13", Packages: 1, PhysicalCores: 4, LogicalCores: 8},
		ticks: []Ticks{
			ticksOf(1000, 0, 500, 8000, 0),
			ticksOf(1030, 5, 520, 8040, 5),
		},
		mem:     MemoryStat{Total: 16000000000, Available: 4000000000},
		swap:    SwapStat{Total: 2000000000, Used: 0},
		stores:  []FileStore{{Mount: "/", Total: 1000, Usable: 250}, {Mount: "/boot", Total: 500, Usable: 500}},
		started: testNow.Add(-50 * time.Hour),
		ip:      "10.0.0.7",
	}
}
